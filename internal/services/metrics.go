package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tripsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trips_created_total",
		Help: "The total number of trip requests posted by passengers",
	})
	tripsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trips_accepted_total",
		Help: "The total number of trips claimed by a driver",
	})
	tripAcceptConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trip_accept_conflicts_total",
		Help: "The total number of accept attempts on trips no longer pending",
	})
	tripsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trips_deleted_total",
		Help: "The total number of trips removed by admins",
	})
	tripsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trips_expired_total",
		Help: "The total number of stale pending trips swept",
	})
)

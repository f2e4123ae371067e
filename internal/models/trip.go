package models

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip
type TripStatus string

const (
	TripStatusPending   TripStatus = "pending"
	TripStatusAccepted  TripStatus = "accepted"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// tripStatuses lists every status in lifecycle order
var tripStatuses = []TripStatus{
	TripStatusPending,
	TripStatusAccepted,
	TripStatusCompleted,
	TripStatusCancelled,
}

// tripTransitions lists the states reachable from each state
var tripTransitions = map[TripStatus][]TripStatus{
	TripStatusPending:   {TripStatusAccepted, TripStatusCancelled},
	TripStatusAccepted:  {TripStatusCompleted, TripStatusCancelled},
	TripStatusCompleted: {},
	TripStatusCancelled: {},
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	for _, allowed := range tripTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StatusesInto returns the states that may move to next, in lifecycle order
func StatusesInto(next TripStatus) []TripStatus {
	var from []TripStatus
	for _, s := range tripStatuses {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}

// HasDriver reports whether a trip in state s must carry a driver
func (s TripStatus) HasDriver() bool {
	return s == TripStatusAccepted || s == TripStatusCompleted
}

// PaymentStatus tracks settlement of the offered fare
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Trip is a passenger's intercity ride request
type Trip struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	PassengerID    uuid.UUID     `json:"passenger_id" db:"passenger_id"`
	DriverID       uuid.NullUUID `json:"driver_id" db:"driver_id"`
	FromCityID     int64         `json:"from_city_id" db:"from_city_id"`
	ToCityID       int64         `json:"to_city_id" db:"to_city_id"`
	DepartureDate  Date          `json:"departure_date" db:"departure_date"`
	DepartureTime  NullString    `json:"departure_time" db:"departure_time"`
	FareOffered    float64       `json:"fare_offered" db:"fare_offered"`
	PassengerCount int           `json:"passenger_count" db:"passenger_count"`
	Notes          NullString    `json:"notes" db:"notes"`
	Status         TripStatus    `json:"status" db:"status"`
	PaymentStatus  PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// DriverConsistent reports whether driver presence matches the status
func (t *Trip) DriverConsistent() bool {
	return t.DriverID.Valid == t.Status.HasDriver()
}

// CityRef is the denormalized city shown alongside a trip
type CityRef struct {
	NameEN        string `json:"name_en" db:"name_en"`
	NameAR        string `json:"name_ar" db:"name_ar"`
	NameFR        string `json:"name_fr" db:"name_fr"`
	GovernorateID int64  `json:"governorate_id" db:"governorate_id"`
}

// PartyRef is the contact summary of a trip participant
type PartyRef struct {
	FullName NullString `json:"full_name" db:"full_name"`
	Phone    NullString `json:"phone" db:"phone"`
	Email    NullString `json:"email" db:"email"`
}

// TripView is a trip with its cities and participants expanded
type TripView struct {
	Trip
	FromCity  CityRef  `json:"from_city" db:"from_city"`
	ToCity    CityRef  `json:"to_city" db:"to_city"`
	Passenger PartyRef `json:"passenger" db:"passenger"`
	Driver    PartyRef `json:"driver" db:"driver"`
}

// CreateTripRequest is the body of POST /trips
type CreateTripRequest struct {
	FromCityID     int64   `json:"from_city_id" binding:"required"`
	ToCityID       int64   `json:"to_city_id" binding:"required"`
	DepartureDate  string  `json:"departure_date" binding:"required"`
	DepartureTime  string  `json:"departure_time"`
	FareOffered    float64 `json:"fare_offered"`
	PassengerCount int     `json:"passenger_count"`
	Notes          string  `json:"notes"`
}

// TripScope restricts which trips a query may return
type TripScope int

const (
	// TripScopePending returns only pending trips
	TripScopePending TripScope = iota
	// TripScopePassenger returns trips owned by ProfileID
	TripScopePassenger
	// TripScopeDriver returns pending trips and trips driven by ProfileID
	TripScopeDriver
	// TripScopeAll returns every trip
	TripScopeAll
	// TripScopeDriven returns only trips driven by ProfileID
	TripScopeDriven
)

// TripVisibility is the row filter derived from the viewer
type TripVisibility struct {
	Scope     TripScope
	ProfileID uuid.UUID
}

// Allows reports whether the trip is visible under v
func (v TripVisibility) Allows(t *Trip) bool {
	switch v.Scope {
	case TripScopeAll:
		return true
	case TripScopePassenger:
		return t.PassengerID == v.ProfileID
	case TripScopeDriver:
		return t.Status == TripStatusPending || (t.DriverID.Valid && t.DriverID.UUID == v.ProfileID)
	case TripScopeDriven:
		return t.DriverID.Valid && t.DriverID.UUID == v.ProfileID
	default:
		return t.Status == TripStatusPending
	}
}

// TripFilter holds the optional search predicates of a trip listing
type TripFilter struct {
	FromCityID    *int64
	ToCityID      *int64
	MinFare       *float64
	MaxFare       *float64
	DepartureDate *Date
	Limit         int
	Offset        int
}

// Matches reports whether t satisfies every set predicate
func (f TripFilter) Matches(t *Trip) bool {
	if f.FromCityID != nil && t.FromCityID != *f.FromCityID {
		return false
	}
	if f.ToCityID != nil && t.ToCityID != *f.ToCityID {
		return false
	}
	if f.MinFare != nil && t.FareOffered < *f.MinFare {
		return false
	}
	if f.MaxFare != nil && t.FareOffered > *f.MaxFare {
		return false
	}
	if f.DepartureDate != nil && t.DepartureDate.String() != f.DepartureDate.String() {
		return false
	}
	return true
}

// TripQuery combines visibility and filters for the store
type TripQuery struct {
	Visibility TripVisibility
	Filter     TripFilter
}

package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/tunride/ride-backend/internal/config"
	"github.com/tunride/ride-backend/internal/database"
	"github.com/tunride/ride-backend/internal/models"
	"github.com/tunride/ride-backend/internal/services"
)

// One-shot stale trip sweep for external schedulers
func main() {
	var (
		dbURLFlag string
		asOfFlag  string
		zoneFlag  string
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.StringVar(&asOfFlag, "as-of", "", "delete pending trips departing before this date (YYYY-MM-DD, default today)")
	flag.StringVar(&zoneFlag, "time-zone", "", "time zone defining today (overrides APP_TIME_ZONE)")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Optional .env so secrets stay off the command line
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	zone := zoneFlag
	if zone == "" {
		zone = os.Getenv("APP_TIME_ZONE")
	}
	if zone == "" {
		zone = "Africa/Tunis"
	}
	location, err := time.LoadLocation(zone)
	if err != nil {
		logger.Fatalf("invalid time zone %q: %v", zone, err)
	}

	// Minimal database config without loading full app config
	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	tripService := services.NewTripService(database.NewTripRepository(db), nil, nil, nil, location, logger)

	asOf := tripService.Today()
	if asOfFlag != "" {
		if asOf, err = models.ParseDate(asOfFlag); err != nil {
			logger.Fatalf("invalid -as-of: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	deleted, err := tripService.ExpireStaleTrips(ctx, asOf)
	if err != nil {
		logger.Fatalf("sweep failed: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"as_of":   asOf.String(),
		"deleted": deleted,
	}).Info("Stale trip sweep finished")
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const expireJobTimeout = 2 * time.Minute

// TripExpirer sweeps stale pending trips
type TripExpirer interface {
	ExpireStaleTripsToday(ctx context.Context) (int64, error)
}

// CronService manages scheduled background jobs
type CronService struct {
	cron    *cron.Cron
	expirer TripExpirer
	spec    string
	logger  *logrus.Logger
}

// NewCronService creates a new CronService. spec uses the six field
// format with seconds, evaluated in location.
func NewCronService(expirer TripExpirer, spec string, location *time.Location, logger *logrus.Logger) *CronService {
	if location == nil {
		location = time.UTC
	}

	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &CronService{
		cron:    c,
		expirer: expirer,
		spec:    spec,
		logger:  logger,
	}
}

// Start schedules the jobs and starts the scheduler
func (s *CronService) Start() error {
	// "0 5 0 * * *" = At 00:05 every day
	if _, err := s.cron.AddFunc(s.spec, s.expireStaleTripsJob); err != nil {
		return fmt.Errorf("failed to schedule trip expiry job: %w", err)
	}
	s.logger.WithField("spec", s.spec).Info("Scheduled: expire stale pending trips")

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

func (s *CronService) expireStaleTripsJob() {
	ctx, cancel := context.WithTimeout(context.Background(), expireJobTimeout)
	defer cancel()

	start := time.Now()
	deleted, err := s.expirer.ExpireStaleTripsToday(ctx)
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Trip expiry failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"deleted":  deleted,
		"duration": time.Since(start).String(),
	}).Info("[CRON] Trip expiry finished")
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}

package database

import (
	"context"
	"fmt"

	"github.com/tunride/ride-backend/internal/models"
)

// StatsRepository computes the admin dashboard aggregates
type StatsRepository struct {
	db DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// FinanceOverview returns revenue, population and trip status counts
func (r *StatsRepository) FinanceOverview(ctx context.Context) (*models.FinanceOverview, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(fare_offered) FROM trips WHERE status = 'completed'), 0) AS total_revenue,
			(SELECT COUNT(*) FROM profiles WHERE user_type = 'passenger') AS total_passengers,
			(SELECT COUNT(*) FROM profiles WHERE user_type = 'driver') AS total_drivers,
			(SELECT COUNT(*) FROM profiles WHERE user_type = 'driver' AND is_subscribed) AS subscribed_drivers,
			COUNT(t.id) AS total_trips,
			COUNT(t.id) FILTER (WHERE t.status = 'pending') AS pending_trips,
			COUNT(t.id) FILTER (WHERE t.status = 'accepted') AS accepted_trips,
			COUNT(t.id) FILTER (WHERE t.status = 'completed') AS completed_trips,
			COUNT(t.id) FILTER (WHERE t.status = 'cancelled') AS cancelled_trips
		FROM trips t
	`

	var overview models.FinanceOverview
	if err := r.db.GetContext(ctx, &overview, query); err != nil {
		return nil, fmt.Errorf("failed to compute finance overview: %w", err)
	}
	return &overview, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/tunride/ride-backend/internal/models"
)

// StatsStore computes dashboard aggregates
type StatsStore interface {
	FinanceOverview(ctx context.Context) (*models.FinanceOverview, error)
}

// AdminService serves the admin dashboard figures
type AdminService struct {
	stats StatsStore
}

// NewAdminService creates a new AdminService
func NewAdminService(stats StatsStore) *AdminService {
	return &AdminService{stats: stats}
}

// FinanceOverview returns revenue and population totals. Admin only.
func (s *AdminService) FinanceOverview(ctx context.Context, viewer Viewer) (*models.FinanceOverview, error) {
	if err := viewer.requireAdmin("view finances"); err != nil {
		return nil, err
	}

	overview, err := s.stats.FinanceOverview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load finance overview: %w", err)
	}
	return overview, nil
}

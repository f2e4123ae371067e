package database

import (
	"context"
	"fmt"

	"github.com/tunride/ride-backend/internal/models"
)

// LocationRepository reads the governorate and city catalog
type LocationRepository struct {
	db DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// ListGovernorates returns every governorate ordered by English name
func (r *LocationRepository) ListGovernorates(ctx context.Context) ([]models.Governorate, error) {
	governorates := []models.Governorate{}
	query := `SELECT id, name_en, name_ar, name_fr FROM governorates ORDER BY name_en`
	if err := r.db.SelectContext(ctx, &governorates, query); err != nil {
		return nil, fmt.Errorf("failed to list governorates: %w", err)
	}
	return governorates, nil
}

// ListCities returns cities, optionally restricted to one governorate
func (r *LocationRepository) ListCities(ctx context.Context, governorateID *int64) ([]models.City, error) {
	cities := []models.City{}
	query := `SELECT id, governorate_id, name_en, name_ar, name_fr FROM cities`
	var args []interface{}
	if governorateID != nil {
		query += ` WHERE governorate_id = $1`
		args = append(args, *governorateID)
	}
	query += ` ORDER BY name_en`

	if err := r.db.SelectContext(ctx, &cities, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	return cities, nil
}

// CityExists reports whether a city with the given id exists
func (r *LocationRepository) CityExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM cities WHERE id = $1)`, id); err != nil {
		return false, fmt.Errorf("failed to look up city: %w", err)
	}
	return exists, nil
}

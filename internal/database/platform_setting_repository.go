package database

import (
	"context"
	"fmt"

	"github.com/tunride/ride-backend/internal/models"
)

// PlatformSettingRepository handles database operations for platform_settings table
type PlatformSettingRepository struct {
	db DB
}

// NewPlatformSettingRepository creates a new PlatformSettingRepository
func NewPlatformSettingRepository(db DB) *PlatformSettingRepository {
	return &PlatformSettingRepository{db: db}
}

// GetAll retrieves all platform settings
func (r *PlatformSettingRepository) GetAll(ctx context.Context) ([]models.PlatformSetting, error) {
	query := `
		SELECT key, value, description, created_at, updated_at
		FROM platform_settings
		ORDER BY key
	`

	settings := []models.PlatformSetting{}
	if err := r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// GetByKey retrieves a platform setting by its key
func (r *PlatformSettingRepository) GetByKey(ctx context.Context, key string) (*models.PlatformSetting, error) {
	query := `
		SELECT key, value, description, created_at, updated_at
		FROM platform_settings
		WHERE key = $1
	`

	var setting models.PlatformSetting
	if err := r.db.GetContext(ctx, &setting, query, key); err != nil {
		return nil, notFound(err, "get setting")
	}
	return &setting, nil
}

// Update writes a setting's value and returns the stored row
func (r *PlatformSettingRepository) Update(ctx context.Context, key, value string) (*models.PlatformSetting, error) {
	query := `
		UPDATE platform_settings
		SET value = $1, updated_at = NOW()
		WHERE key = $2
		RETURNING key, value, description, created_at, updated_at
	`

	var setting models.PlatformSetting
	if err := r.db.GetContext(ctx, &setting, query, value, key); err != nil {
		return nil, notFound(err, "update setting")
	}
	return &setting, nil
}

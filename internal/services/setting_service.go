package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/tunride/ride-backend/internal/database"
	"github.com/tunride/ride-backend/internal/models"
)

// SettingStore persists platform settings
type SettingStore interface {
	GetAll(ctx context.Context) ([]models.PlatformSetting, error)
	GetByKey(ctx context.Context, key string) (*models.PlatformSetting, error)
	Update(ctx context.Context, key, value string) (*models.PlatformSetting, error)
}

// SettingService manages admin-editable platform settings
type SettingService struct {
	store    SettingStore
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewSettingService creates a new SettingService
func NewSettingService(store SettingStore, logger *logrus.Logger) *SettingService {
	return &SettingService{
		store:    store,
		validate: validator.New(),
		logger:   logger,
	}
}

// ListSettings returns every setting. Admin only.
func (s *SettingService) ListSettings(ctx context.Context, viewer Viewer) ([]models.PlatformSetting, error) {
	if err := viewer.requireAdmin("view settings"); err != nil {
		return nil, err
	}

	settings, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// UpdateSetting validates value against the key's type and stores its normalized form
func (s *SettingService) UpdateSetting(ctx context.Context, viewer Viewer, key, value string) (*models.PlatformSetting, error) {
	if err := viewer.requireAdmin("update settings"); err != nil {
		return nil, err
	}

	kind, ok := models.SettingKinds[key]
	if !ok {
		return nil, &NotFoundError{Entity: "setting"}
	}

	normalized, err := s.normalize(kind, value)
	if err != nil {
		return nil, err
	}

	setting, err := s.store.Update(ctx, key, normalized)
	if errors.Is(err, database.ErrNotFound) {
		return nil, &NotFoundError{Entity: "setting"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update setting: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"key":      key,
		"value":    normalized,
		"admin_id": viewer.ProfileID(),
	}).Info("Platform setting updated")

	return setting, nil
}

func (s *SettingService) normalize(kind models.SettingKind, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", invalid("value", "required", "value is required")
	}

	switch kind {
	case models.SettingKindBool:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return "", invalid("value", "invalid_bool", "value must be true or false")
		}
		return strconv.FormatBool(b), nil
	case models.SettingKindDecimal:
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return "", invalid("value", "invalid_decimal", "value must be a number")
		}
		if f < 0 {
			return "", invalid("value", "negative", "value cannot be negative")
		}
		return strconv.FormatFloat(f, 'f', 2, 64), nil
	case models.SettingKindInt:
		n, err := cast.ToIntE(value)
		if err != nil {
			return "", invalid("value", "invalid_integer", "value must be a whole number")
		}
		if n < 1 {
			return "", invalid("value", "below_minimum", "value must be at least 1")
		}
		return strconv.Itoa(n), nil
	case models.SettingKindEmail:
		if err := s.validate.Var(value, "required,email"); err != nil {
			return "", invalid("value", "invalid_email", "value must be an email address")
		}
		return strings.ToLower(value), nil
	}

	return "", invalid("value", "unsupported", "setting cannot be edited")
}

func (s *SettingService) raw(ctx context.Context, key string) (string, bool) {
	setting, err := s.store.GetByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			s.logger.WithError(err).WithField("key", key).Warn("Failed to read platform setting")
		}
		return "", false
	}
	return setting.Value, true
}

// Bool reads a boolean setting, falling back to def when unset or malformed
func (s *SettingService) Bool(ctx context.Context, key string, def bool) bool {
	value, ok := s.raw(ctx, key)
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return def
	}
	return b
}

// Decimal reads a decimal setting
func (s *SettingService) Decimal(ctx context.Context, key string) (float64, bool) {
	value, ok := s.raw(ctx, key)
	if !ok {
		return 0, false
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int reads an integer setting
func (s *SettingService) Int(ctx context.Context, key string) (int, bool) {
	value, ok := s.raw(ctx, key)
	if !ok {
		return 0, false
	}
	n, err := cast.ToIntE(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MinFare returns the configured minimum fare in TND
func (s *SettingService) MinFare(ctx context.Context) (float64, bool) {
	return s.Decimal(ctx, models.SettingMinFareTND)
}

// MaxPassengers returns the configured seat cap per trip
func (s *SettingService) MaxPassengers(ctx context.Context) (int, bool) {
	return s.Int(ctx, models.SettingMaxPassengersPerTrip)
}

// DefaultDriverApproval reports whether new drivers start approved
func (s *SettingService) DefaultDriverApproval(ctx context.Context) bool {
	return s.Bool(ctx, models.SettingDefaultDriverApproval, true)
}

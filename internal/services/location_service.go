package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/tunride/ride-backend/internal/models"
)

const (
	governoratesCacheKey = "locations:governorates"
	citiesCacheKey       = "locations:cities:all"
)

// LocationStore reads the governorate and city catalog
type LocationStore interface {
	ListGovernorates(ctx context.Context) ([]models.Governorate, error)
	ListCities(ctx context.Context, governorateID *int64) ([]models.City, error)
}

// LocationService serves the location catalog through a Redis cache.
// A nil cache or a failing Redis falls back to the database.
type LocationService struct {
	store  LocationStore
	cache  *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewLocationService creates a new LocationService
func NewLocationService(store LocationStore, cache *redis.Client, ttl time.Duration, logger *logrus.Logger) *LocationService {
	return &LocationService{
		store:  store,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// ListGovernorates returns every governorate
func (s *LocationService) ListGovernorates(ctx context.Context) ([]models.Governorate, error) {
	return cached(ctx, s, governoratesCacheKey, s.store.ListGovernorates)
}

// ListCities returns cities, optionally only those of one governorate
func (s *LocationService) ListCities(ctx context.Context, governorateID *int64) ([]models.City, error) {
	if governorateID == nil {
		return cached(ctx, s, citiesCacheKey, func(ctx context.Context) ([]models.City, error) {
			return s.store.ListCities(ctx, nil)
		})
	}

	key := fmt.Sprintf("locations:cities:governorate:%d", *governorateID)
	return cached(ctx, s, key, func(ctx context.Context) ([]models.City, error) {
		return s.store.ListCities(ctx, governorateID)
	})
}

// CityExists reports whether id names a catalog city
func (s *LocationService) CityExists(ctx context.Context, id int64) (bool, error) {
	cities, err := s.ListCities(ctx, nil)
	if err != nil {
		return false, err
	}
	for _, city := range cities {
		if city.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate drops every cached catalog entry
func (s *LocationService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	iter := s.cache.Scan(ctx, 0, "locations:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to drop %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

func cached[T any](ctx context.Context, s *LocationService, key string, load func(context.Context) (T, error)) (T, error) {
	var value T

	if s.cache != nil {
		data, err := s.cache.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			if jsonErr := json.Unmarshal(data, &value); jsonErr == nil {
				return value, nil
			}
			s.logger.WithField("key", key).Warn("Discarding undecodable cache entry")
		case errors.Is(err, redis.Nil):
		default:
			s.logger.WithError(err).WithField("key", key).Warn("Location cache read failed")
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if s.cache != nil {
		data, err := json.Marshal(value)
		if err == nil {
			err = s.cache.Set(ctx, key, data, s.ttl).Err()
		}
		if err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Location cache write failed")
		}
	}

	return value, nil
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunride/ride-backend/internal/models"
)

type countingLocationStore struct {
	governorateCalls int
	cityCalls        int
	fail             bool
}

func (s *countingLocationStore) ListGovernorates(context.Context) ([]models.Governorate, error) {
	s.governorateCalls++
	if s.fail {
		return nil, errors.New("db down")
	}
	return []models.Governorate{{ID: 1, NameEN: "Tunis"}, {ID: 2, NameEN: "Sousse"}}, nil
}

func (s *countingLocationStore) ListCities(_ context.Context, governorateID *int64) ([]models.City, error) {
	s.cityCalls++
	if s.fail {
		return nil, errors.New("db down")
	}
	cities := []models.City{
		{ID: 1, GovernorateID: 1, NameEN: "Tunis"},
		{ID: 3, GovernorateID: 2, NameEN: "Sousse"},
	}
	if governorateID == nil {
		return cities, nil
	}
	var out []models.City
	for _, c := range cities {
		if c.GovernorateID == *governorateID {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestLocationService_WithoutCache(t *testing.T) {
	store := &countingLocationStore{}
	svc := NewLocationService(store, nil, time.Hour, testLogger())
	ctx := context.Background()

	governorates, err := svc.ListGovernorates(ctx)
	require.NoError(t, err)
	assert.Len(t, governorates, 2)

	gov := int64(2)
	cities, err := svc.ListCities(ctx, &gov)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Sousse", cities[0].NameEN)

	exists, err := svc.CityExists(ctx, 3)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.CityExists(ctx, 42)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, svc.Invalidate(ctx))
}

func TestLocationService_UnreachableRedisFallsBack(t *testing.T) {
	store := &countingLocationStore{}
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	svc := NewLocationService(store, client, time.Hour, testLogger())

	governorates, err := svc.ListGovernorates(context.Background())
	require.NoError(t, err)
	assert.Len(t, governorates, 2)
	assert.Equal(t, 1, store.governorateCalls)
}

func TestLocationService_StoreErrorPropagates(t *testing.T) {
	svc := NewLocationService(&countingLocationStore{fail: true}, nil, time.Hour, testLogger())

	_, err := svc.CityExists(context.Background(), 1)
	assert.Error(t, err)
}

package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// TripEventsChannel is the Redis pub/sub channel carrying trip state changes
const TripEventsChannel = "trip:updates"

// RedisTripPublisher publishes trip events to Redis pub/sub
type RedisTripPublisher struct {
	client *redis.Client
}

// NewRedisTripPublisher creates a new RedisTripPublisher
func NewRedisTripPublisher(client *redis.Client) *RedisTripPublisher {
	return &RedisTripPublisher{client: client}
}

// PublishTripEvent implements TripEventPublisher
func (p *RedisTripPublisher) PublishTripEvent(ctx context.Context, event TripEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode trip event: %w", err)
	}
	return p.client.Publish(ctx, TripEventsChannel, data).Err()
}

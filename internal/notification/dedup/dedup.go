// Package dedup provides a Redis-backed first-seen guard for delivery event
// IDs. Providers deliver at-least-once; the guard lets duplicate events
// short-circuit before they reach storage.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	dErrors "invoicer/pkg/domain-errors"
)

const keyPrefix = "invoicer:event:"

// Guard marks event IDs as seen with a TTL. FirstSeen is atomic: for a given
// event ID exactly one caller observes true.
type Guard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGuard(client *redis.Client, ttl time.Duration) *Guard {
	return &Guard{client: client, ttl: ttl}
}

// FirstSeen records the event ID and reports whether this is its first
// occurrence. Redis failures surface as retriable so callers do not treat an
// outage as a duplicate.
func (g *Guard) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, dErrors.New(dErrors.CodeBadRequest, "event ID must not be empty")
	}

	first, err := g.client.SetNX(ctx, keyPrefix+eventID, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("recording event %s", eventID))
	}
	return first, nil
}

// Forget drops the marker so a failed handling attempt can be redelivered.
func (g *Guard) Forget(ctx context.Context, eventID string) error {
	if err := g.client.Del(ctx, keyPrefix+eventID).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("forgetting event %s", eventID))
	}
	return nil
}

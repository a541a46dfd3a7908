package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventLog records webhook event ids with a TTL so redelivered events can be
// spotted. SETNX gives first-writer-wins semantics; losing the race simply
// means the delivery is reported as a duplicate.
type EventLog struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEventLog creates an EventLog keeping event ids for ttl.
func NewEventLog(client *redis.Client, ttl time.Duration) *EventLog {
	return &EventLog{client: client, ttl: ttl}
}

// FirstSeen marks the event id and reports whether this was its first delivery.
func (l *EventLog) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	first, err := l.client.SetNX(ctx, eventKey(eventID), time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("record event id: %w", err)
	}
	return first, nil
}

func eventKey(eventID string) string {
	return fmt.Sprintf("webhook:event:%s", eventID)
}

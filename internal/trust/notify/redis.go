package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultStream is the stream key used when none is configured.
const DefaultStream = "trust:security-events"

// RedisSink fans recorded security events out to a Redis stream so other
// services (alerting, moderation dashboards) can tail them with XREAD.
//
// Each entry carries the event JSON under "event" plus the type and user id
// as separate fields for consumers that filter without decoding.
type RedisSink struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisSink returns a sink writing to stream. A positive maxLen trims the
// stream approximately to that many entries.
func NewRedisSink(client *redis.Client, stream string, maxLen int64) *RedisSink {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisSink{client: client, stream: stream, maxLen: maxLen}
}

// Dial parses a redis:// URL and returns a sink plus the client so the caller
// can close it on shutdown.
func Dial(ctx context.Context, url, stream string, maxLen int64) (*RedisSink, *redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisSink(client, stream, maxLen), client, nil
}

func (s *RedisSink) Publish(ctx context.Context, e domain.SecurityEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal security event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"event":      string(payload),
			"event_type": string(e.EventType),
			"user_id":    e.UserID,
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

// Stream returns the stream key events are written to.
func (s *RedisSink) Stream() string { return s.stream }

// Package realtime broadcasts profile changes over Redis pub/sub so every
// running instance converges on the same ledger view.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/nanobio/backend/internal/models"
	"go.uber.org/zap"
)

// ProfileSink receives profile snapshots notified by other instances
type ProfileSink interface {
	ApplyRemote(profile *models.Profile)
}

// Feed publishes and consumes post-write profile snapshots on one channel
type Feed struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewFeed creates a new profile change feed
func NewFeed(client *redis.Client, channel string, logger *zap.Logger) *Feed {
	return &Feed{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// Publish broadcasts a post-write profile snapshot
func (f *Feed) Publish(ctx context.Context, profile *models.Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish profile change: %w", err)
	}

	return nil
}

// Subscribe consumes profile snapshots and applies them to the sink until the
// context is cancelled. Malformed messages are logged and skipped.
func (f *Feed) Subscribe(ctx context.Context, sink ProfileSink) error {
	sub := f.client.Subscribe(ctx, f.channel)
	defer sub.Close()

	// Force the subscription to be established before consuming.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", f.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription channel closed")
			}

			var profile models.Profile
			if err := json.Unmarshal([]byte(msg.Payload), &profile); err != nil {
				f.logger.Warn("skipping malformed profile notification",
					zap.String("channel", f.channel),
					zap.Error(err),
				)
				continue
			}

			sink.ApplyRemote(&profile)
		}
	}
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/polyquant/snipebot/internal/domain"
)

// Pub/Sub channels for strategy output.
const (
	OpportunityChannel = "snipebot:opportunities"
	StaleChannel       = "snipebot:stale"
)

// SignalBus publishes strategy signals over Redis Pub/Sub so external
// consumers (dashboards, risk layers) can observe the strategy without
// coupling to the process.
type SignalBus struct {
	rdb *redis.Client
}

// NewSignalBus creates a SignalBus backed by the given Client.
func NewSignalBus(c *Client) *SignalBus {
	return &SignalBus{rdb: c.Underlying()}
}

// PublishOpportunity sends a detected-opportunity signal.
func (sb *SignalBus) PublishOpportunity(ctx context.Context, sig domain.OpportunitySignal) error {
	payload, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("redis: marshal opportunity: %w", err)
	}
	if err := sb.rdb.Publish(ctx, OpportunityChannel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish %s: %w", OpportunityChannel, err)
	}
	return nil
}

// PublishStale sends a stale-feed warning.
func (sb *SignalBus) PublishStale(ctx context.Context, warn domain.StaleWarning) error {
	payload, err := json.Marshal(warn)
	if err != nil {
		return fmt.Errorf("redis: marshal stale warning: %w", err)
	}
	if err := sb.rdb.Publish(ctx, StaleChannel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish %s: %w", StaleChannel, err)
	}
	return nil
}

// Subscribe returns a channel of raw payloads published on the given channel.
// The subscription closes when ctx is cancelled.
func (sb *SignalBus) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	pubsub := sb.rdb.Subscribe(ctx, channel)

	// Verify the subscription is established.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis: subscribe %s: %w", channel, err)
	}

	out := make(chan []byte, 128)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

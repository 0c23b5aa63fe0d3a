// Package redis provides Redis-based adapters for the ledger.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/trustgigs/ledger/internal/domain/model"
)

// DefaultChannel is the pub/sub channel committed events are published to.
const DefaultChannel = "ledger:events"

// EventPublisher publishes committed ledger events to a Redis pub/sub
// channel for external observers. Delivery is fire-and-forget: observers
// needing completeness replay the event log by sequence instead.
type EventPublisher struct {
	client  redis.UniversalClient
	channel string
}

// NewEventPublisher creates a publisher on the default channel.
func NewEventPublisher(client redis.UniversalClient) *EventPublisher {
	return NewEventPublisherWithChannel(client, DefaultChannel)
}

// NewEventPublisherWithChannel creates a publisher on a custom channel.
func NewEventPublisherWithChannel(client redis.UniversalClient, channel string) *EventPublisher {
	return &EventPublisher{
		client:  client,
		channel: channel,
	}
}

// Publish JSON-encodes the event and publishes it.
func (p *EventPublisher) Publish(ctx context.Context, ev model.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

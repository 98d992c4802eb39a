package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	portssvc "github.com/SscSPs/teller_payroll_app/internal/core/ports/services"
	goredis "github.com/redis/go-redis/v9"
)

// EventPublisher publishes payroll events as JSON on a Redis pub/sub channel.
// The websocket gateway subscribes to the channel and fans events out to browsers.
type EventPublisher struct {
	client  *goredis.Client
	channel string
}

var _ portssvc.EventPublisher = (*EventPublisher)(nil)

func NewEventPublisher(client *goredis.Client, channel string) *EventPublisher {
	return &EventPublisher{client: client, channel: channel}
}

func (p *EventPublisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}
	return nil
}

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"clubhub/internal/domain"
)

// Publisher delivers domain events onto their durable queues.
type Publisher struct {
	client *Client
	logger *slog.Logger
}

// NewPublisher creates an EventPublisher backed by the given client.
func NewPublisher(client *Client, logger *slog.Logger) domain.EventPublisher {
	return &Publisher{client: client, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventType(), err)
	}
	if err := p.client.Publish(ctx, event.Queue(), event.EventType(), body); err != nil {
		return fmt.Errorf("publish to %s: %w", event.Queue(), err)
	}
	p.logger.DebugContext(ctx, "event published", "queue", event.Queue(), "type", event.EventType())
	return nil
}

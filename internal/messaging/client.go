package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"clubhub/internal/domain"
)

const (
	heartbeat      = 60 * time.Second
	reconnectDelay = 5 * time.Second

	// prefetchCount of 1 keeps delivery order per consumer: the broker hands
	// out the next message only after the previous one is acked or rejected.
	prefetchCount = 1
)

// Client wraps a RabbitMQ connection and channel configured for the durable,
// manually-acked queues the event relay uses.
type Client struct {
	conn *amqp.Connection
	chn  *amqp.Channel
}

// NewClient dials the broker and opens a channel with QoS applied.
func NewClient(url string) (*Client, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{Heartbeat: heartbeat})
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	chn, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := chn.Qos(prefetchCount, 0, false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}
	return &Client{conn: conn, chn: chn}, nil
}

func (c *Client) Close() error {
	if err := c.chn.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}

// DeclareQueue declares a durable queue together with its dead-letter
// companion. Rejected messages are routed to the companion via the default
// exchange.
func (c *Client) DeclareQueue(queue string) error {
	dlq := domain.DeadLetterQueueName(queue)
	if _, err := c.chn.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", dlq, err)
	}
	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dlq,
	}
	if _, err := c.chn.QueueDeclare(queue, true, false, false, false, args); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return nil
}

// Publish sends a persistent JSON message to a queue via the default exchange.
func (c *Client) Publish(ctx context.Context, queue, eventType string, body []byte) error {
	return c.chn.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         eventType,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// Consume starts delivering messages from a queue. Auto-ack is off; the
// caller must ack or reject every delivery.
func (c *Client) Consume(queue string) (<-chan amqp.Delivery, error) {
	msgs, err := c.chn.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", queue, err)
	}
	return msgs, nil
}

// NotifyClose reports an unexpected connection loss.
func (c *Client) NotifyClose() <-chan *amqp.Error {
	return c.conn.NotifyClose(make(chan *amqp.Error, 1))
}

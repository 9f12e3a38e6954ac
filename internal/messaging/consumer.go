package messaging

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"clubhub/internal/domain"
)

// HandlerFunc processes one message body. Returning nil acks the message.
// Returning an error that matches domain.ErrNotFound acks and discards it as
// an orphan; any other error dead-letters it.
type HandlerFunc func(ctx context.Context, body []byte) error

// Consumer runs one worker per registered queue against a shared connection,
// reconnecting until its context is cancelled. Delivery is at-least-once;
// handlers must tolerate redelivery.
type Consumer struct {
	url      string
	handlers map[string]HandlerFunc
	logger   *slog.Logger
}

func NewConsumer(url string, logger *slog.Logger) *Consumer {
	return &Consumer{
		url:      url,
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

// Handle registers the handler for a queue. Must be called before Run.
func (c *Consumer) Handle(queue string, h HandlerFunc) {
	c.handlers[queue] = h
}

// Run consumes until ctx is cancelled, redialing after connection loss.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		err := c.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Error("consumer connection lost, reconnecting", "err", err, "delay", reconnectDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *Consumer) runOnce(ctx context.Context) error {
	client, err := NewClient(c.url)
	if err != nil {
		return err
	}
	defer client.Close()

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for queue, handler := range c.handlers {
		if err := client.DeclareQueue(queue); err != nil {
			return err
		}
		msgs, err := client.Consume(queue)
		if err != nil {
			return err
		}
		c.logger.Info("consuming", "queue", queue)

		wg.Add(1)
		go func(queue string, h HandlerFunc, msgs <-chan amqp.Delivery) {
			defer wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case d, ok := <-msgs:
					if !ok {
						return
					}
					c.dispatch(workerCtx, queue, h, d)
				}
			}
		}(queue, handler, msgs)
	}

	closed := client.NotifyClose()
	select {
	case <-ctx.Done():
		cancel()
		wg.Wait()
		return ctx.Err()
	case amqpErr := <-closed:
		cancel()
		wg.Wait()
		if amqpErr != nil {
			return amqpErr
		}
		return errors.New("connection closed")
	}
}

// dispatch applies the acknowledgement contract to one delivery.
func (c *Consumer) dispatch(ctx context.Context, queue string, h HandlerFunc, d amqp.Delivery) {
	err := h(ctx, d.Body)
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			c.logger.ErrorContext(ctx, "ack failed", "queue", queue, "message_id", d.MessageId, "err", ackErr)
		}
	case errors.Is(err, domain.ErrNotFound):
		// Orphan: the referenced entity does not exist and never will.
		// Requeueing or dead-lettering would just replay it forever.
		c.logger.WarnContext(ctx, "discarding orphan message",
			"queue", queue, "message_id", d.MessageId, "err", err)
		if ackErr := d.Ack(false); ackErr != nil {
			c.logger.ErrorContext(ctx, "ack failed", "queue", queue, "message_id", d.MessageId, "err", ackErr)
		}
	default:
		c.logger.ErrorContext(ctx, "handler failed, dead-lettering message",
			"queue", queue, "message_id", d.MessageId, "err", err)
		if nackErr := d.Nack(false, false); nackErr != nil {
			c.logger.ErrorContext(ctx, "nack failed", "queue", queue, "message_id", d.MessageId, "err", nackErr)
		}
	}
}

package notify

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/golfworks/fittings/internal/config"
)

const consumerTag = "fittings-notifier"

// Consumer binds a durable queue to the events exchange and feeds each
// delivery to a Handler.
type Consumer struct {
	cfg     config.Notifier
	handler *Handler
	log     zerolog.Logger

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewConsumer(cfg config.Notifier, h *Handler, log zerolog.Logger) *Consumer {
	return &Consumer{cfg: cfg, handler: h, log: log}
}

func (c *Consumer) Connect() error {
	conn, err := amqp.Dial(c.cfg.RabbitURL)
	if err != nil {
		return fmt.Errorf("rabbit dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel failed: %w", err)
	}
	fail := func(what string, err error) error {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("%s failed: %w", what, err)
	}

	if err := ch.ExchangeDeclare(c.cfg.DLXName, "topic", true, false, false, false, nil); err != nil {
		return fail("declare dlx", err)
	}
	if _, err := ch.QueueDeclare(c.cfg.DLXQueue, true, false, false, false, nil); err != nil {
		return fail("declare dlq", err)
	}
	if err := ch.QueueBind(c.cfg.DLXQueue, "#", c.cfg.DLXName, false, nil); err != nil {
		return fail("bind dlq", err)
	}

	args := amqp.Table{"x-dead-letter-exchange": c.cfg.DLXName}
	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, args)
	if err != nil {
		return fail("declare queue", err)
	}
	if err := ch.ExchangeDeclare(c.cfg.EventsExchange, "topic", true, false, false, false, nil); err != nil {
		return fail("declare exchange", err)
	}
	for _, key := range c.cfg.Bindings {
		if err := ch.QueueBind(q.Name, key, c.cfg.EventsExchange, false, nil); err != nil {
			return fail("bind queue key="+key, err)
		}
	}

	prefetch := c.cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 8
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fail("set qos", err)
	}

	c.conn = conn
	c.ch = ch
	return nil
}

func (c *Consumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Run consumes until ctx is done or the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.cfg.Queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			c.settle(d, c.handler.Handle(d.RoutingKey, d.Body))
		}
	}
}

func (c *Consumer) settle(d amqp.Delivery, err error) {
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrUndecodable):
		c.log.Warn().Err(err).Str("routing_key", d.RoutingKey).Msg("dead-lettering event")
		_ = d.Nack(false, false)
	default:
		c.log.Error().Err(err).Str("routing_key", d.RoutingKey).Msg("notify failed, requeueing")
		_ = d.Nack(false, true)
	}
}

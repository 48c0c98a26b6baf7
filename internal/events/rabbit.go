package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"staffing-platform-backend/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeName = "staffing.events"

// RabbitBus is the broker-backed Bus. Events are published persistently to a
// topic exchange with the event name as routing key and confirmed by the
// broker; each subscription consumes from its own durable queue, giving
// at-least-once delivery per consumer group.
type RabbitBus struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	consumer string
	log      *logger.Logger

	acks <-chan amqp.Confirmation
	mu   sync.Mutex // serializes Publish while waiting for confirms

	subs []rabbitSubscription
}

type rabbitSubscription struct {
	queue   string
	handler Handler
}

// DialRabbit connects to the broker and declares the topic exchange.
// consumer names the consumer group and prefixes its queue names.
func DialRabbit(url, consumer string, log *logger.Logger) (*RabbitBus, error) {
	if log == nil {
		log = logger.New()
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &RabbitBus{
		conn:     conn,
		ch:       ch,
		consumer: consumer,
		log:      log,
		acks:     acks,
	}, nil
}

// Ping reports whether the connection is still open
func (b *RabbitBus) Ping() error {
	if b.conn == nil || b.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// Close shuts down the channel and connection
func (b *RabbitBus) Close() {
	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		_ = b.conn.Close()
	}
}

// Publish sends the event persistently and waits for the broker ack
func (b *RabbitBus) Publish(ctx context.Context, evt Event) error {
	body, err := evt.Body()
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", evt.Name, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	err = b.ch.PublishWithContext(
		ctx,
		exchangeName,
		evt.Name,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    time.Now(),
			Headers:      amqp.Table{"event": evt.Name},
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", evt.Name, err)
	}

	select {
	case confirm := <-b.acks:
		if !confirm.Ack {
			return fmt.Errorf("publish %s: broker nack", evt.Name)
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Subscribe declares a durable queue bound to the event name. Wildcard
// subscriptions bind with "#" and receive every event. The queue is named
// per subscriber, so two subscribers to the same event (or to the wildcard)
// each get their own queue and their own copy of every message. Consumption
// starts with Start.
func (b *RabbitBus) Subscribe(subscriber, eventName string, h Handler) {
	queue := queueName(b.consumer, subscriber, eventName)
	bindKey := bindingKey(eventName)

	if _, err := b.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		b.log.WithField("queue", queue).WithError(err).Error("declare queue failed")
		return
	}
	if err := b.ch.QueueBind(queue, bindKey, exchangeName, false, nil); err != nil {
		b.log.WithField("queue", queue).WithError(err).Error("bind queue failed")
		return
	}
	b.subs = append(b.subs, rabbitSubscription{queue: queue, handler: h})
}

// queueName derives the durable queue for one subscriber's view of an event.
// consumer scopes the deployment, subscriber the consumer group within it.
func queueName(consumer, subscriber, eventName string) string {
	suffix := eventName
	if eventName == Wildcard {
		suffix = "all"
	}
	return fmt.Sprintf("%s.%s.%s", consumer, subscriber, suffix)
}

// bindingKey maps the wildcard to the topic-exchange catch-all
func bindingKey(eventName string) string {
	if eventName == Wildcard {
		return "#"
	}
	return eventName
}

// Start consumes all subscribed queues until the context is cancelled.
// Handler errors nack with requeue on first delivery; a redelivered message
// that fails again is dropped and logged so a poison message cannot wedge
// the queue (the event stays in the audit log for replay).
func (b *RabbitBus) Start(ctx context.Context) error {
	if err := b.ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	for _, sub := range b.subs {
		// Empty consumer tag: the library generates a unique tag per
		// Consume call; a shared tag would cancel the previous consumer.
		deliveries, err := b.ch.Consume(sub.queue, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("consume %s: %w", sub.queue, err)
		}
		go b.consumeLoop(ctx, sub, deliveries)
	}
	return nil
}

func (b *RabbitBus) consumeLoop(ctx context.Context, sub rabbitSubscription, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			evt, err := Decode(d.Body)
			if err != nil {
				b.log.WithField("queue", sub.queue).WithError(err).Error("undecodable event dropped")
				_ = d.Nack(false, false)
				continue
			}
			if err := sub.handler(ctx, evt); err != nil {
				b.log.WithFields(map[string]interface{}{
					"queue":       sub.queue,
					"event":       evt.Name,
					"redelivered": d.Redelivered,
				}).WithError(err).Error("event handler failed")
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	exchangeKind = "topic"
	dialTimeout  = 5 * time.Second
	// redialAfter is how long Publish drops events after a failed dial.
	redialAfter = 10 * time.Second
)

type amqpPublisher struct {
	url      string
	exchange string
	log      *zap.Logger
	dial     func() (*amqp.Connection, *amqp.Channel, error)

	mu      sync.Mutex
	conn    *amqp.Connection
	ch      *amqp.Channel
	dialing bool
	closed  bool
	retryAt time.Time
}

var (
	errDialing      = errors.New("broker unavailable, dial in progress")
	errWaitRedial   = errors.New("broker unavailable, waiting to redial")
	errPublisherOff = errors.New("publisher closed")
)

// NewAMQPPublisher publishes to a durable topic exchange, routing by event
// type. The connection is opened lazily and reopened after a failure.
func NewAMQPPublisher(url, exchange string, log *zap.Logger) Publisher {
	p := &amqpPublisher{
		url:      url,
		exchange: exchange,
		log:      log.With(zap.String("publisher", "amqp")),
	}
	p.dial = p.open
	return p
}

func (p *amqpPublisher) open() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}
	return conn, ch, nil
}

// channel returns the open channel or dials a new one. Only one caller dials
// at a time and the lock is not held while it does; everyone else fails fast.
func (p *amqpPublisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	switch {
	case p.closed:
		p.mu.Unlock()
		return nil, errPublisherOff
	case p.ch != nil && !p.ch.IsClosed():
		ch := p.ch
		p.mu.Unlock()
		return ch, nil
	case p.dialing:
		p.mu.Unlock()
		return nil, errDialing
	case time.Now().Before(p.retryAt):
		p.mu.Unlock()
		return nil, errWaitRedial
	}
	p.reset()
	p.dialing = true
	p.mu.Unlock()

	conn, ch, err := p.dial()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialing = false
	if err != nil {
		p.retryAt = time.Now().Add(redialAfter)
		return nil, err
	}
	if p.closed {
		_ = conn.Close()
		return nil, errPublisherOff
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

// reset drops the current connection. Callers hold p.mu.
func (p *amqpPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *amqpPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", ev.Type, err)
	}

	ch, err := p.channel()
	if err != nil {
		p.log.Warn("Broker unavailable, event dropped", zap.Error(err), zap.String("type", string(ev.Type)))
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID.String(),
		Type:         string(ev.Type),
		Timestamp:    ev.OccurredAt,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, p.exchange, string(ev.Type), false, false, msg); err != nil {
		p.mu.Lock()
		if p.ch == ch {
			p.reset()
		}
		p.mu.Unlock()
		p.log.Warn("Failed to publish event", zap.Error(err), zap.String("type", string(ev.Type)))
		return fmt.Errorf("publish event %s: %w", ev.Type, err)
	}
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.reset()
	return nil
}

// BookingLogQueue is the queue the consumer binds to every booking event.
const BookingLogQueue = "cookmyshow.booking-log"

// Consumer logs every booking event it receives.
type Consumer struct {
	url      string
	exchange string
	log      *zap.Logger

	minBackoff time.Duration
	maxBackoff time.Duration
}

func NewConsumer(url, exchange string, log *zap.Logger) *Consumer {
	return &Consumer{
		url:        url,
		exchange:   exchange,
		log:        log.With(zap.String("consumer", BookingLogQueue)),
		minBackoff: time.Second,
		maxBackoff: 30 * time.Second,
	}
}

// Run consumes until ctx is done, reconnecting with exponential backoff.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := c.minBackoff
	for {
		conn, err := amqp.DialConfig(c.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
		if err == nil {
			backoff = c.minBackoff
			err = c.consume(ctx, conn)
			_ = conn.Close()
		}
		if ctx.Err() != nil {
			return nil
		}

		c.log.Warn("Consumer disconnected, retrying", zap.Error(err), zap.Duration("backoff", backoff))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff, c.maxBackoff)
	}
}

func nextBackoff(cur, max time.Duration) time.Duration {
	cur *= 2
	if cur > max {
		return max
	}
	return cur
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("Failed to set QoS", zap.Error(err))
	}
	if err := ch.ExchangeDeclare(c.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", c.exchange, err)
	}
	if _, err := ch.QueueDeclare(BookingLogQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(BookingLogQueue, "booking.*", c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, BookingLogQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	c.log.Info("Consuming booking events", zap.String("exchange", c.exchange))

	for d := range deliveries {
		if err := c.handle(d.Body); err != nil {
			c.log.Error("Rejecting malformed event", zap.Error(err), zap.String("message_id", d.MessageId))
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func (c *Consumer) handle(body []byte) error {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}
	if ev.Type == "" {
		return errors.New("event has no type")
	}
	logEvent(c.log, ev)
	return nil
}

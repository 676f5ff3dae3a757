// Package queue публикует события жизненного цикла бронирований в RabbitMQ
// Публикация best effort: ошибки логируются и не прерывают основной поток запроса
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события в RabbitMQ через одно долгоживущее соединение
// При обрыве соединения переподключается на следующей публикации
type Publisher struct {
	url string
	log Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher создает publisher и открывает соединение
// Ошибка первоначального подключения не фатальна: соединение будет
// восстановлено при первой публикации
func NewPublisher(url string, log Logger) *Publisher {
	p := &Publisher{url: url, log: log}

	if err := p.connect(); err != nil {
		log.Warn("queue: initial connect failed, will retry on publish: %v", err)
	}

	return p
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}

// ReservationCreated публикует событие создания бронирования
func (p *Publisher) ReservationCreated(ctx context.Context, event ReservationCreatedEvent) error {
	return p.publish(ctx, RoutingKeyReservationCreated, event)
}

// ReservationCancelled публикует событие отмены бронирования
func (p *Publisher) ReservationCancelled(ctx context.Context, event ReservationCancelledEvent) error {
	return p.publish(ctx, RoutingKeyReservationCancelled, event)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("queue: marshal event for %s failed: %v", routingKey, err)
		return fmt.Errorf("queue: marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		p.log.Error("queue: connect for %s failed: %v", routingKey, err)
		return err
	}

	// Декларация идемпотентна; durable обменник переживает рестарт брокера
	if err := p.ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		p.log.Error("queue: declare exchange %s failed: %v", ExchangeName, err)
		p.reset()
		return fmt.Errorf("queue: declare exchange %s: %w", ExchangeName, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := p.ch.PublishWithContext(ctx, ExchangeName, routingKey, false, false, pub); err != nil {
		p.log.Error("queue: publish %s failed: %v", routingKey, err)
		p.reset()
		return fmt.Errorf("queue: publish %s: %w", routingKey, err)
	}

	p.log.Info("queue: published event %s", routingKey)
	return nil
}

func (p *Publisher) ensureChannel() error {
	if p.ch != nil && p.conn != nil && !p.conn.IsClosed() {
		return nil
	}
	p.reset()
	return p.connect()
}

// connect открывает соединение и канал; вызывается под mu (кроме NewPublisher)
func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("queue: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("queue: open channel: %w", err)
	}

	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

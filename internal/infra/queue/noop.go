package queue

import "context"

// NoopPublisher заглушка на случай отключенного брокера
type NoopPublisher struct{}

// NewNoopPublisher создает publisher, который молча игнорирует события
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// ReservationCreated ничего не делает
func (p *NoopPublisher) ReservationCreated(ctx context.Context, event ReservationCreatedEvent) error {
	return nil
}

// ReservationCancelled ничего не делает
func (p *NoopPublisher) ReservationCancelled(ctx context.Context, event ReservationCancelledEvent) error {
	return nil
}

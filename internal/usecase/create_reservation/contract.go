package create_reservation

import (
	"context"
	"time"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	"github.com/courtflow/CourtFlow-BookingService/internal/infra/queue"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Reservation, error)
	GetActiveByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Reservation, error)
}

// ParticipantRepository интерфейс репозитория участников
type ParticipantRepository interface {
	CreateBatch(ctx context.Context, participants []*domain.Participant) error
	GetByReservationID(ctx context.Context, reservationID int64) ([]*domain.Participant, error)
}

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// SettingsRepository интерфейс репозитория настроек клуба
type SettingsRepository interface {
	GetByClubID(ctx context.Context, clubID int64) (*domain.ClubSettings, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий жизненного цикла бронирований
// Публикация best effort: ошибка не откатывает уже закоммиченное бронирование
type EventPublisher interface {
	ReservationCreated(ctx context.Context, event queue.ReservationCreatedEvent) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

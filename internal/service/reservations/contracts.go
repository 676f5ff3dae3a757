package reservations

import (
	"context"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	"github.com/courtflow/CourtFlow-BookingService/internal/infra/queue"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByUserID(ctx context.Context, userID int64, paymentStatus *domain.PaymentStatus) ([]*domain.Reservation, error)
	GetByClubWithFilter(ctx context.Context, filter domain.ClubReservationsFilter) ([]*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, reason string, fee, refund float64) error
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
}

// ParticipantRepository интерфейс репозитория участников
type ParticipantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Participant, error)
	GetByReservationID(ctx context.Context, reservationID int64) ([]*domain.Participant, error)
	UpdateInviteStatus(ctx context.Context, id int64, status domain.InviteStatus, userID *int64) error
	MarkSharePaid(ctx context.Context, id int64) error
}

// SettingsRepository интерфейс репозитория настроек клуба
type SettingsRepository interface {
	GetByClubID(ctx context.Context, clubID int64) (*domain.ClubSettings, error)
}

// EventPublisher интерфейс публикации событий жизненного цикла бронирований
type EventPublisher interface {
	ReservationCancelled(ctx context.Context, event queue.ReservationCancelledEvent) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

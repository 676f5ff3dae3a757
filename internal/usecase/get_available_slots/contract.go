package get_available_slots

import (
	"context"
	"time"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	// ListByClub возвращает корты клуба; onlyActive исключает корты на обслуживании
	ListByClub(ctx context.Context, clubID int64, sport *domain.Sport, onlyActive bool) ([]*domain.Court, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetActiveByCourtsAndDate(ctx context.Context, courtIDs []int64, date time.Time) ([]*domain.Reservation, error)
}

// SettingsRepository интерфейс репозитория настроек клуба
type SettingsRepository interface {
	GetByClubID(ctx context.Context, clubID int64) (*domain.ClubSettings, error)
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

package courts

import (
	"context"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	Create(ctx context.Context, court *domain.Court) (*domain.Court, error)
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
	ListByClub(ctx context.Context, clubID int64, sport *domain.Sport, onlyActive bool) ([]*domain.Court, error)
	UpdateStatus(ctx context.Context, id int64, status domain.CourtStatus) error
}

// SettingsRepository интерфейс репозитория настроек клуба
type SettingsRepository interface {
	GetByClubID(ctx context.Context, clubID int64) (*domain.ClubSettings, error)
	Upsert(ctx context.Context, s *domain.ClubSettings) (*domain.ClubSettings, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

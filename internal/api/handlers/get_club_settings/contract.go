package get_club_settings

import (
	"context"

	"github.com/courtflow/CourtFlow-BookingService/internal/service/courts/models"
)

type CourtService interface {
	GetSettings(ctx context.Context, clubID int64) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package update_club_settings

import (
	"context"

	"github.com/courtflow/CourtFlow-BookingService/internal/service/courts/models"
)

type CourtService interface {
	UpdateSettings(ctx context.Context, clubID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

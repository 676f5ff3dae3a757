package update_court_status

import (
	"context"

	"github.com/courtflow/CourtFlow-BookingService/internal/service/courts/models"
)

type CourtService interface {
	UpdateStatus(ctx context.Context, courtID int64, req *models.UpdateCourtStatusRequest) (*models.CourtResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

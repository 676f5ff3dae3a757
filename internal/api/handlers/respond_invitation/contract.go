package respond_invitation

import (
	"context"

	"github.com/courtflow/CourtFlow-BookingService/internal/service/reservations/models"
)

type ReservationService interface {
	RespondInvitation(ctx context.Context, reservationID, participantID int64, req *models.RespondInvitationRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

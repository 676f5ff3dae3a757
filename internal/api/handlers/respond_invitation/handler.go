package respond_invitation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/courtflow/CourtFlow-BookingService/internal/api/handlers"
	"github.com/courtflow/CourtFlow-BookingService/internal/api/middleware"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/reservations"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidParticipantID = "некорректный ID участника"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "доступ запрещен"
	msgParticipantNotFound  = "участник не найден"
	msgAlreadyAnswered      = "на приглашение уже дан ответ"
)

// RespondRequest HTTP request model
type RespondRequest struct {
	Accept bool `json:"accept"`
}

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/participants/{participantId}/respond
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/participants/{id}/respond - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	participantID, err := strconv.ParseInt(vars["participantId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/participants/{id}/respond - Invalid participant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParticipantID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/{id}/participants/{id}/respond - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RespondRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/participants/{id}/respond - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userEmail, _ := middleware.GetUserEmail(r.Context())

	serviceReq := &models.RespondInvitationRequest{
		UserID:    userID,
		UserEmail: userEmail,
		Accept:    req.Accept,
	}

	if err := h.service.RespondInvitation(r.Context(), reservationID, participantID, serviceReq); err != nil {
		switch {
		case errors.Is(err, reservations.ErrParticipantNotFound):
			h.logger.Warn("POST /reservations/{id}/participants/{id}/respond - Participant not found: reservation_id=%d, participant_id=%d",
				reservationID, participantID)
			handlers.RespondNotFound(w, msgParticipantNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/participants/{id}/respond - Access denied: participant_id=%d, user_id=%d",
				participantID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrCannotRespond):
			h.logger.Warn("POST /reservations/{id}/participants/{id}/respond - Already answered: participant_id=%d", participantID)
			handlers.RespondBadRequest(w, msgAlreadyAnswered)

		case errors.Is(err, reservations.ErrStorageUnavailable):
			h.logger.Error("POST /reservations/{id}/participants/{id}/respond - Storage unavailable: %v", err)
			handlers.RespondStorageUnavailable(w)

		default:
			h.logger.Error("POST /reservations/{id}/participants/{id}/respond - Failed to respond: participant_id=%d, error=%v",
				participantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/participants/{id}/respond - Invitation answered: reservation_id=%d, participant_id=%d, user_id=%d, accept=%v",
		reservationID, participantID, userID, req.Accept)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

package cancel_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/courtflow/CourtFlow-BookingService/internal/api/handlers"
	"github.com/courtflow/CourtFlow-BookingService/internal/api/middleware"
	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/reservations"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/reservations/models"
	"github.com/courtflow/CourtFlow-BookingService/pkg/metrics"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgReasonTooLong        = "слишком длинная причина отмены"
	msgNotFound             = "бронирование не найдено"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "доступ запрещен"
	msgAlreadyCancelled     = "бронирование уже отменено"
)

// CancelRequest HTTP request model
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

type Handler struct {
	service ReservationService
	metrics *metrics.Metrics
	logger  Logger
}

func NewHandler(service ReservationService, m *metrics.Metrics, logger Logger) *Handler {
	return &Handler{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if len(req.Reason) > domain.MaxCancelReasonLength {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Reason too long: reservation_id=%d", reservationID)
		handlers.RespondBadRequest(w, msgReasonTooLong)
		return
	}

	serviceReq := &models.CancelReservationRequest{
		UserID: userID,
		Reason: req.Reason,
	}

	result, err := h.service.Cancel(r.Context(), reservationID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Access denied: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrAlreadyCancelled):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Already cancelled: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgAlreadyCancelled)

		case errors.Is(err, reservations.ErrStorageUnavailable):
			h.logger.Error("PATCH /reservations/{id}/cancel - Storage unavailable: %v", err)
			handlers.RespondStorageUnavailable(w)

		default:
			h.logger.Error("PATCH /reservations/{id}/cancel - Failed to cancel: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.metrics.IncReservationCancelled("user")

	h.logger.Info("PATCH /reservations/{id}/cancel - Reservation cancelled: reservation_id=%d, user_id=%d, fee=%.2f, refund=%.2f",
		reservationID, userID, result.CancellationFee, result.RefundAmount)
	handlers.RespondJSON(w, http.StatusOK, result)
}

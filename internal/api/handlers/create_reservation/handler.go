package create_reservation

import (
	"errors"
	"net/http"

	"github.com/courtflow/CourtFlow-BookingService/internal/api/handlers"
	"github.com/courtflow/CourtFlow-BookingService/internal/api/middleware"
	createReservation "github.com/courtflow/CourtFlow-BookingService/internal/usecase/create_reservation"
	"github.com/courtflow/CourtFlow-BookingService/pkg/metrics"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDateOrTime     = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgSlotConflict          = "выбранный временной диапазон уже занят"
	msgCourtNotFound         = "корт не найден"
	msgCourtNotInClub        = "корт не принадлежит указанному клубу"
	msgCourtUnderMaintenance = "корт закрыт на обслуживание"
	msgInvalidDate           = "некорректная дата бронирования"
	msgDateTooFar            = "дата бронирования слишком далеко в будущем"
	msgInvalidTimeRange      = "некорректный временной диапазон"
	msgOutsideOperatingHours = "время вне рабочих часов клуба"
	msgTooManyAttendees      = "число игроков превышает вместимость корта"
)

type Handler struct {
	useCase CreateReservationUseCase
	metrics *metrics.Metrics
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, m *metrics.Metrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: m,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrSlotConflict):
			h.logger.Warn("POST /reservations - Slot conflict: user_id=%d, court_id=%d", userID, req.CourtID)
			h.metrics.IncSlotConflict(req.ClubID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, createReservation.ErrCourtNotFound):
			h.logger.Warn("POST /reservations - Court not found: court_id=%d", req.CourtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, createReservation.ErrCourtNotInClub):
			h.logger.Warn("POST /reservations - Court not in club: court_id=%d, club_id=%d", req.CourtID, req.ClubID)
			handlers.RespondNotFound(w, msgCourtNotInClub)

		case errors.Is(err, createReservation.ErrCourtUnderMaintenance):
			h.logger.Warn("POST /reservations - Court under maintenance: court_id=%d", req.CourtID)
			handlers.RespondError(w, http.StatusConflict, msgCourtUnderMaintenance)

		case errors.Is(err, createReservation.ErrInvalidDate):
			h.logger.Warn("POST /reservations - Invalid date: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createReservation.ErrDateTooFarInFuture):
			h.logger.Warn("POST /reservations - Date too far in future: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createReservation.ErrInvalidTimeRange):
			h.logger.Warn("POST /reservations - Invalid time range: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, createReservation.ErrOutsideOperatingHours):
			h.logger.Warn("POST /reservations - Outside operating hours: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgOutsideOperatingHours)

		case errors.Is(err, createReservation.ErrTooManyAttendees):
			h.logger.Warn("POST /reservations - Too many attendees: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondBadRequest(w, msgTooManyAttendees)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createReservation.ErrStorageUnavailable):
			h.logger.Error("POST /reservations - Storage unavailable: %v", err)
			handlers.RespondStorageUnavailable(w)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, court_id=%d, error=%v",
				userID, req.CourtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	// Повторная отправка с тем же idempotency key возвращает существующее
	// бронирование с кодом 200 вместо 201
	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	} else {
		h.metrics.IncReservationCreated(result.SplitPayment)
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%d, user_id=%d, court_id=%d, duplicate=%v",
		result.ID, userID, req.CourtID, result.Duplicate)
	handlers.RespondJSON(w, status, response)
}

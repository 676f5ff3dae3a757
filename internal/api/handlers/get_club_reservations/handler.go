package get_club_reservations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/courtflow/CourtFlow-BookingService/internal/api/handlers"
	"github.com/courtflow/CourtFlow-BookingService/internal/api/middleware"
	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/reservations"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/reservations/models"
)

const (
	msgInvalidClubID   = "некорректный ID клуба"
	msgInvalidCourtID  = "некорректный ID корта"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidInterval = "дата начала периода позже даты окончания"
)

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

// Handle GET /api/v1/clubs/{clubId}/reservations
// Query params: courtId, startDate, endDate, includeCancelled (все опциональны)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	clubID, err := strconv.ParseInt(vars["clubId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /clubs/{clubId}/reservations - Invalid club ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /clubs/{clubId}/reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()

	var courtID *int64
	if courtIDStr := query.Get("courtId"); courtIDStr != "" {
		id, err := strconv.ParseInt(courtIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /clubs/{clubId}/reservations - Invalid court ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCourtID)
			return
		}
		courtID = &id
	}

	var startDate, endDate *time.Time
	if startStr := query.Get("startDate"); startStr != "" {
		date, err := time.Parse(domain.DateFormat, startStr)
		if err != nil {
			h.logger.Warn("GET /clubs/{clubId}/reservations - Invalid start date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		startDate = &date
	}
	if endStr := query.Get("endDate"); endStr != "" {
		date, err := time.Parse(domain.DateFormat, endStr)
		if err != nil {
			h.logger.Warn("GET /clubs/{clubId}/reservations - Invalid end date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		endDate = &date
	}

	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		h.logger.Warn("GET /clubs/{clubId}/reservations - Invalid interval: club_id=%d", clubID)
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}

	includeCancelled := query.Get("includeCancelled") == "true"

	serviceReq := &models.GetClubReservationsRequest{
		ClubID:           clubID,
		UserID:           userID,
		CourtID:          courtID,
		StartDate:        startDate,
		EndDate:          endDate,
		IncludeCancelled: includeCancelled,
	}

	result, err := h.service.GetClubReservations(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, reservations.ErrStorageUnavailable) {
			h.logger.Error("GET /clubs/{clubId}/reservations - Storage unavailable: %v", err)
			handlers.RespondStorageUnavailable(w)
			return
		}
		h.logger.Error("GET /clubs/{clubId}/reservations - Failed to get reservations: club_id=%d, error=%v",
			clubID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /clubs/{clubId}/reservations - Reservations retrieved: club_id=%d, count=%d",
		clubID, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result)
}

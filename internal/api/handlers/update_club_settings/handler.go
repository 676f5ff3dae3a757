package update_club_settings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/courtflow/CourtFlow-BookingService/internal/api/handlers"
	"github.com/courtflow/CourtFlow-BookingService/internal/api/middleware"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/courts"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/courts/models"
)

const (
	msgInvalidClubID      = "некорректный ID клуба"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
)

// UpdateSettingsRequest HTTP request model
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	OpenTime               *string  `json:"openTime,omitempty"`
	CloseTime              *string  `json:"closeTime,omitempty"`
	SlotGranularityMinutes *int     `json:"slotGranularityMinutes,omitempty"`
	SessionDurationMinutes *int     `json:"sessionDurationMinutes,omitempty"`
	AdvanceBookingDays     *int     `json:"advanceBookingDays,omitempty"`
	CancellationFeeRate    *float64 `json:"cancellationFeeRate,omitempty"`
}

type Handler struct {
	service CourtService
	logger  Logger
}

func NewHandler(service CourtService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/clubs/{clubId}/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	clubID, err := strconv.ParseInt(vars["clubId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /clubs/{clubId}/settings - Invalid club ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /clubs/{clubId}/settings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /clubs/{clubId}/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq := &models.UpdateSettingsRequest{
		UserID:                 userID,
		OpenTime:               req.OpenTime,
		CloseTime:              req.CloseTime,
		SlotGranularityMinutes: req.SlotGranularityMinutes,
		SessionDurationMinutes: req.SessionDurationMinutes,
		AdvanceBookingDays:     req.AdvanceBookingDays,
		CancellationFeeRate:    req.CancellationFeeRate,
	}

	result, err := h.service.UpdateSettings(r.Context(), clubID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, courts.ErrInvalidInput):
			h.logger.Warn("PUT /clubs/{clubId}/settings - Invalid input: club_id=%d, error=%v", clubID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, courts.ErrStorageUnavailable):
			h.logger.Error("PUT /clubs/{clubId}/settings - Storage unavailable: %v", err)
			handlers.RespondStorageUnavailable(w)

		default:
			h.logger.Error("PUT /clubs/{clubId}/settings - Failed to update settings: club_id=%d, error=%v", clubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /clubs/{clubId}/settings - Settings updated: club_id=%d, user_id=%d", clubID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

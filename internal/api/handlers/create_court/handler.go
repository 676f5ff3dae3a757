package create_court

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

// CreateCourtRequest HTTP request model
type CreateCourtRequest struct {
	Name       string  `json:"name"`
	Sport      string  `json:"sport"`
	Capacity   int     `json:"capacity"`
	HourlyRate float64 `json:"hourlyRate"`
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

// Handle POST /api/v1/clubs/{clubId}/courts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	clubID, err := strconv.ParseInt(vars["clubId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /clubs/{clubId}/courts - Invalid club ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /clubs/{clubId}/courts - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateCourtRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clubs/{clubId}/courts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq := &models.CreateCourtRequest{
		UserID:     userID,
		ClubID:     clubID,
		Name:       req.Name,
		Sport:      req.Sport,
		Capacity:   req.Capacity,
		HourlyRate: req.HourlyRate,
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, courts.ErrInvalidInput):
			h.logger.Warn("POST /clubs/{clubId}/courts - Invalid input: club_id=%d, error=%v", clubID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, courts.ErrStorageUnavailable):
			h.logger.Error("POST /clubs/{clubId}/courts - Storage unavailable: %v", err)
			handlers.RespondStorageUnavailable(w)

		default:
			h.logger.Error("POST /clubs/{clubId}/courts - Failed to create court: club_id=%d, error=%v", clubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /clubs/{clubId}/courts - Court created: court_id=%d, club_id=%d, user_id=%d",
		result.ID, clubID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

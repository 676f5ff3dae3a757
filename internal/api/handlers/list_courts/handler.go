package list_courts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/courtflow/CourtFlow-BookingService/internal/api/handlers"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/courts"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/courts/models"
)

const (
	msgInvalidClubID = "некорректный ID клуба"
	msgInvalidSport  = "некорректный вид спорта"
)

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

// Handle GET /api/v1/clubs/{clubId}/courts
// Query params: sport (optional: padel, tennis, squash)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	clubID, err := strconv.ParseInt(vars["clubId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /clubs/{clubId}/courts - Invalid club ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}

	sport := r.URL.Query().Get("sport")
	var sportPtr *string
	if sport != "" {
		sportPtr = &sport
	}

	serviceReq := &models.ListCourtsRequest{
		ClubID: clubID,
		Sport:  sportPtr,
	}

	result, err := h.service.List(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, courts.ErrInvalidInput):
			h.logger.Warn("GET /clubs/{clubId}/courts - Invalid sport: club_id=%d, sport=%s", clubID, sport)
			handlers.RespondBadRequest(w, msgInvalidSport)

		case errors.Is(err, courts.ErrStorageUnavailable):
			h.logger.Error("GET /clubs/{clubId}/courts - Storage unavailable: %v", err)
			handlers.RespondStorageUnavailable(w)

		default:
			h.logger.Error("GET /clubs/{clubId}/courts - Failed to list courts: club_id=%d, error=%v", clubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /clubs/{clubId}/courts - Courts retrieved: club_id=%d, count=%d",
		clubID, len(result.Courts))
	handlers.RespondJSON(w, http.StatusOK, result)
}

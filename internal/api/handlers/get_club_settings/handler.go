package get_club_settings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/courtflow/CourtFlow-BookingService/internal/api/handlers"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/courts"
)

const (
	msgInvalidClubID = "некорректный ID клуба"
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

// Handle GET /api/v1/clubs/{clubId}/settings
// Клуб без своей конфигурации получает настройки по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	clubID, err := strconv.ParseInt(vars["clubId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /clubs/{clubId}/settings - Invalid club ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}

	result, err := h.service.GetSettings(r.Context(), clubID)
	if err != nil {
		if errors.Is(err, courts.ErrStorageUnavailable) {
			h.logger.Error("GET /clubs/{clubId}/settings - Storage unavailable: %v", err)
			handlers.RespondStorageUnavailable(w)
			return
		}
		h.logger.Error("GET /clubs/{clubId}/settings - Failed to get settings: club_id=%d, error=%v", clubID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /clubs/{clubId}/settings - Settings retrieved: club_id=%d", clubID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

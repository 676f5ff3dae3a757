package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/courtflow/CourtFlow-BookingService/internal/api/handlers"
	getAvailableSlots "github.com/courtflow/CourtFlow-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidClubID = "некорректный ID клуба"
	msgMissingDate   = "дата обязательна"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidSport  = "некорректный вид спорта"
	msgDateInPast    = "дата не может быть в прошлом"
	msgDateTooFar    = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/clubs/{clubId}/available-slots
// Query params: date (required, YYYY-MM-DD), sport (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	clubID, err := strconv.ParseInt(vars["clubId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /clubs/{id}/available-slots - Invalid club ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /clubs/{id}/available-slots - Missing date: club_id=%d", clubID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	sportStr := r.URL.Query().Get("sport")

	useCaseReq, err := ToUseCaseRequest(clubID, dateStr, sportStr)
	if err != nil {
		h.logger.Warn("GET /clubs/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /clubs/{id}/available-slots - Date in past: club_id=%d, date=%s", clubID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /clubs/{id}/available-slots - Date too far: club_id=%d, date=%s", clubID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /clubs/{id}/available-slots - Invalid input: club_id=%d, error=%v", clubID, err)
			handlers.RespondBadRequest(w, msgInvalidSport)

		case errors.Is(err, getAvailableSlots.ErrStorageUnavailable):
			h.logger.Error("GET /clubs/{id}/available-slots - Storage unavailable: %v", err)
			handlers.RespondStorageUnavailable(w)

		default:
			h.logger.Error("GET /clubs/{id}/available-slots - Failed to get slots: club_id=%d, date=%s, error=%v",
				clubID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /clubs/{id}/available-slots - Slots retrieved: club_id=%d, date=%s, slots_count=%d",
		clubID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}

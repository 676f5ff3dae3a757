package get_available_slots

import (
	"time"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	getAvailableSlots "github.com/courtflow/CourtFlow-BookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ClubID int64           `json:"clubId"`
	Date   string          `json:"date"`
	Sport  *string         `json:"sport,omitempty"`
	Slots  []AvailableSlot `json:"slots"`
}

// AvailableSlot модель слота сетки доступности
// Поля корта отсутствуют, когда на это время нет свободного корта
type AvailableSlot struct {
	StartTime       string   `json:"startTime"`
	DurationMinutes int      `json:"durationMinutes"`
	Available       bool     `json:"available"`
	CourtID         *int64   `json:"courtId,omitempty"`
	CourtName       *string  `json:"courtName,omitempty"`
	CourtType       *string  `json:"courtType,omitempty"`
	Price           *float64 `json:"price,omitempty"`
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(clubID int64, dateStr, sportStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		ClubID: clubID,
		Date:   date,
	}

	if sportStr != "" {
		sport := domain.Sport(sportStr)
		req.Sport = &sport
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
			Available:       slot.Available,
			CourtID:         slot.CourtID,
			CourtName:       slot.CourtName,
			Price:           slot.Price,
		}

		if slot.CourtType != nil {
			courtType := string(*slot.CourtType)
			slots[i].CourtType = &courtType
		}
	}

	result := &AvailableSlotsResponse{
		ClubID: resp.ClubID,
		Date:   resp.Date.Format(domain.DateFormat),
		Slots:  slots,
	}

	if resp.Sport != nil {
		sport := string(*resp.Sport)
		result.Sport = &sport
	}

	return result
}

package get_available_slots

import (
	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	"github.com/courtflow/CourtFlow-BookingService/pkg/ptr"
	"github.com/courtflow/CourtFlow-BookingService/pkg/types"
)

// generateSlotTimes генерирует времена начала слотов от открытия до закрытия
// с шагом granularity. Слот - это ячейка сетки длиной granularity: при окне
// 08:00-23:00 и часовой сетке получается 15 слотов, последний в 22:00
func generateSlotTimes(
	openTime, closeTime types.TimeString,
	granularityMinutes int,
) ([]types.TimeString, error) {
	slotTimes := make([]types.TimeString, 0)
	current := openTime

	for current.IsBefore(closeTime) {
		slotEnd, err := current.AddMinutes(granularityMinutes)
		if err != nil {
			// Ячейка перевалила за полночь - дальше слотов нет
			break
		}
		if slotEnd.IsAfter(closeTime) {
			break
		}

		slotTimes = append(slotTimes, current)

		current = slotEnd
	}

	return slotTimes, nil
}

// buildSlots накладывает активные бронирования на сетку слотов
// Для каждой ячейки выбирается первый корт без пересекающегося бронирования
// (произвольный первый свободный, без балансировки). Если свободного корта
// нет, слот помечается недоступным без корта. Бронирование блокирует ячейку
// при любом реальном пересечении интервалов: бронирование 10:00-11:30
// занимает ячейки 10:00 и 11:00 часовой сетки, но не 09:00
func buildSlots(
	slotTimes []types.TimeString,
	granularityMinutes int,
	courts []*domain.Court,
	reservations []*domain.Reservation,
) []domain.Slot {
	// Бронирования группируем по корту один раз
	byCourt := make(map[int64][]*domain.Reservation, len(courts))
	for _, res := range reservations {
		if !res.IsActive() {
			continue
		}
		byCourt[res.CourtID] = append(byCourt[res.CourtID], res)
	}

	slots := make([]domain.Slot, 0, len(slotTimes))

	for _, start := range slotTimes {
		end, err := start.AddMinutes(granularityMinutes)
		if err != nil {
			continue
		}

		slot := domain.Slot{
			StartTime:       start,
			DurationMinutes: granularityMinutes,
			Available:       false,
		}

		for _, court := range courts {
			if courtIsBooked(byCourt[court.ID], start, end) {
				continue
			}

			slot.CourtID = ptr.Ptr(court.ID)
			slot.CourtName = ptr.Ptr(court.Name)
			slot.CourtType = ptr.Ptr(court.Type())
			slot.Price = ptr.Ptr(court.HourlyRate)
			slot.Available = true
			break
		}

		slots = append(slots, slot)
	}

	return slots
}

// courtIsBooked возвращает true, если интервал [start, end) пересекается
// хотя бы с одним бронированием корта. Границы не считаются пересечением
func courtIsBooked(reservations []*domain.Reservation, start, end types.TimeString) bool {
	for _, res := range reservations {
		if res.Overlaps(start, end) {
			return true
		}
	}
	return false
}

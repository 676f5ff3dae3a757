package get_available_slots

import (
	"time"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ClubID int64         // ID клуба
	Date   time.Time     // Дата для получения слотов (без времени)
	Sport  *domain.Sport // Фильтр по виду спорта (опционально)
}

// Response модель ответа со списком слотов
// Список - мгновенный снимок: к моменту отправки заявки он может устареть,
// окончательную проверку делает create_reservation
type Response struct {
	ClubID int64
	Date   time.Time
	Sport  *domain.Sport
	Slots  []domain.Slot
}

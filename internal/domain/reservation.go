package domain

import (
	"time"

	"github.com/courtflow/CourtFlow-BookingService/pkg/types"
)

// PaymentStatus статус оплаты бронирования
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// IsValid возвращает true для известного статуса оплаты
func (s PaymentStatus) IsValid() bool {
	return s == PaymentPending || s == PaymentPaid || s == PaymentFailed
}

// Reservation бронирование одного корта на один временной диапазон
// Отмена - всегда soft delete: выставляется CancelledAt, строка не удаляется
type Reservation struct {
	ID              int64
	ClubID          int64
	CourtID         int64
	UserID          int64
	ReservationDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	TotalPrice      float64
	PaymentStatus   PaymentStatus
	SplitPayment    bool
	OpenMatch       bool // Публичный open match, к которому могут присоединяться игроки
	Attendees       int
	IdempotencyKey  string

	// Запись об отмене; заполняется только вместе с CancelledAt
	CancelledAt        *time.Time
	CancellationReason *string
	CancellationFee    *float64
	RefundAmount       *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled возвращает true, если бронирование отменено
func (r *Reservation) IsCancelled() bool {
	return r.CancelledAt != nil
}

// IsActive возвращает true, если бронирование учитывается при проверке пересечений
func (r *Reservation) IsActive() bool {
	return !r.IsCancelled()
}

// CanBeCancelled возвращает true, если бронирование еще можно отменить
func (r *Reservation) CanBeCancelled() bool {
	return !r.IsCancelled()
}

// Overlaps возвращает true, если интервал [start, end) пересекается с бронированием
// Границы не считаются пересечением: бронирование до 10:00 не конфликтует со слотом с 10:00
func (r *Reservation) Overlaps(start, end types.TimeString) bool {
	return r.StartTime.IsBefore(end) && r.EndTime.IsAfter(start)
}

// ClubReservationsFilter фильтр для выборки бронирований клуба
type ClubReservationsFilter struct {
	ClubID           int64      // Обязательный параметр
	CourtID          *int64     // Фильтр по корту (опционально)
	StartDate        *time.Time // Начало периода (опционально)
	EndDate          *time.Time // Конец периода (опционально)
	IncludeCancelled bool       // Включать ли отмененные бронирования
}

package domain

import "github.com/courtflow/CourtFlow-BookingService/pkg/types"

// Slot кандидат на бронирование: время начала + корт
// Вычисляется на каждый запрос доступности и никогда не сохраняется
type Slot struct {
	StartTime       types.TimeString
	DurationMinutes int
	CourtID         *int64 // nil, если на это время нет свободного корта
	CourtName       *string
	CourtType       *CourtType
	Price           *float64 // Часовая ставка выбранного корта
	Available       bool
}

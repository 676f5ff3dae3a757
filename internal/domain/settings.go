package domain

import (
	"time"

	"github.com/courtflow/CourtFlow-BookingService/pkg/types"
)

// ClubSettings операционная политика клуба: рабочее окно, сетка слотов,
// длительность сессии и горизонт бронирования
type ClubSettings struct {
	ID                     int64
	ClubID                 int64
	OpenTime               types.TimeString
	CloseTime              types.TimeString
	SlotGranularityMinutes int
	SessionDurationMinutes int
	AdvanceBookingDays     int     // 0 = без ограничения
	CancellationFeeRate    float64 // Доля стоимости, удерживаемая при отмене (0..1)
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// HasAdvanceBookingLimit возвращает true, если горизонт бронирования ограничен
func (s *ClubSettings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}

// DefaultClubSettings возвращает настройки по умолчанию для клуба без своей конфигурации
func DefaultClubSettings(clubID int64) *ClubSettings {
	return &ClubSettings{
		ClubID:                 clubID,
		OpenTime:               DefaultOpenTime,
		CloseTime:              DefaultCloseTime,
		SlotGranularityMinutes: DefaultSlotGranularityMinutes,
		SessionDurationMinutes: DefaultSessionDurationMinutes,
		AdvanceBookingDays:     DefaultAdvanceBookingDays,
		CancellationFeeRate:    DefaultCancellationFeeRate,
	}
}

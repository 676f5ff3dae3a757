package domain

import "time"

// Sport вид спорта корта
type Sport string

const (
	SportPadel  Sport = "padel"
	SportTennis Sport = "tennis"
	SportSquash Sport = "squash"
)

// IsValid возвращает true для поддерживаемого вида спорта
func (s Sport) IsValid() bool {
	return s == SportPadel || s == SportTennis || s == SportSquash
}

// CourtStatus операционный статус корта
type CourtStatus string

const (
	CourtStatusActive      CourtStatus = "active"
	CourtStatusMaintenance CourtStatus = "maintenance"
)

// CourtType тип корта, выводится из вместимости
type CourtType string

const (
	CourtTypeSingle CourtType = "single"
	CourtTypeDouble CourtType = "double"
)

// Court корт клуба
type Court struct {
	ID         int64
	ClubID     int64
	Name       string
	Sport      Sport
	Capacity   int // Максимум одновременных игроков
	HourlyRate float64
	Status     CourtStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsActive возвращает true, если корт доступен для бронирования
func (c *Court) IsActive() bool {
	return c.Status == CourtStatusActive
}

// Type возвращает тип корта: single при вместимости 2, иначе double
func (c *Court) Type() CourtType {
	if c.Capacity == 2 {
		return CourtTypeSingle
	}
	return CourtTypeDouble
}

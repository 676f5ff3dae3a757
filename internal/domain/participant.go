package domain

import "time"

// InviteStatus статус приглашения участника
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
)

// IsValid возвращает true для известного статуса приглашения
func (s InviteStatus) IsValid() bool {
	return s == InvitePending || s == InviteAccepted || s == InviteDeclined
}

// Participant приглашенный участник бронирования со своей долей оплаты
// Участники не влияют на инвариант непересечения - это биллинговый
// и социальный слой поверх уже закрепленного слота
type Participant struct {
	ID            int64
	ReservationID int64
	Email         string
	UserID        *int64 // Привязывается после принятия приглашения
	InviteStatus  InviteStatus
	ShareAmount   float64
	SharePaid     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanRespond возвращает true, если на приглашение еще можно ответить
func (p *Participant) CanRespond() bool {
	return p.InviteStatus == InvitePending
}

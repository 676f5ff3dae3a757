package create_reservation

import (
	"time"

	"github.com/courtflow/CourtFlow-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID            int64            // ID пользователя-владельца бронирования
	ClubID            int64            // ID клуба
	CourtID           int64            // ID корта
	Date              time.Time        // Дата бронирования (без времени)
	StartTime         types.TimeString // Время начала (например, "10:00")
	EndTime           types.TimeString // Время окончания (например, "11:30")
	Attendees         int              // Число игроков, включая владельца
	SplitPayment      bool             // Разделить оплату между участниками
	OpenMatch         bool             // Открытый матч, виден другим игрокам
	ParticipantEmails []string         // Email приглашенных (для split payment)
	IdempotencyKey    string           // UUID запроса; пустой - будет сгенерирован
}

// Participant участник в ответе
type Participant struct {
	ID           int64
	Email        string
	InviteStatus string
	ShareAmount  float64
	SharePaid    bool
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	ClubID          int64
	CourtID         int64
	UserID          int64
	ReservationDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	TotalPrice      float64
	PaymentStatus   string
	SplitPayment    bool
	OpenMatch       bool
	Attendees       int
	IdempotencyKey  string
	Participants    []Participant
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Duplicate = true, когда бронирование с таким idempotency key уже
	// существовало и было возвращено повторно без создания нового
	Duplicate bool
}

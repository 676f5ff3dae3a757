package queue

// ExchangeName топик-обменник событий жизненного цикла бронирований
// Потребители сами привязывают свои очереди по нужным routing keys
const ExchangeName = "booking.events"

// Routing keys событий
const (
	RoutingKeyReservationCreated   = "reservation.created"
	RoutingKeyReservationCancelled = "reservation.cancelled"
)

// ReservationCreatedEvent публикуется после успешного создания бронирования
// Содержит достаточно данных, чтобы внешний нотификатор (почта, push)
// не ходил за ними в основную БД
type ReservationCreatedEvent struct {
	ReservationID int64    `json:"reservation_id"`
	ClubID        int64    `json:"club_id"`
	CourtID       int64    `json:"court_id"`
	UserID        int64    `json:"user_id"`
	Date          string   `json:"date"`       // YYYY-MM-DD
	StartTime     string   `json:"start_time"` // HH:MM
	EndTime       string   `json:"end_time"`   // HH:MM
	TotalPrice    float64  `json:"total_price"`
	SplitPayment  bool     `json:"split_payment"`
	OpenMatch     bool     `json:"open_match"`
	Participants  []string `json:"participants,omitempty"` // email приглашенных
	CreatedAt     string   `json:"created_at"`             // RFC3339
}

// ReservationCancelledEvent публикуется после отмены бронирования
type ReservationCancelledEvent struct {
	ReservationID int64   `json:"reservation_id"`
	ClubID        int64   `json:"club_id"`
	CourtID       int64   `json:"court_id"`
	UserID        int64   `json:"user_id"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	Reason        string  `json:"reason,omitempty"`
	Fee           float64 `json:"fee"`
	Refund        float64 `json:"refund"`
	CancelledAt   string  `json:"cancelled_at"` // RFC3339
}

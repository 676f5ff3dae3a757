package models

import (
	"errors"
	"time"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
)

var (
	// ErrInvalidPaymentStatus возвращается при некорректном статусе оплаты
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// Request модели

// CancelReservationRequest запрос на отмену бронирования
type CancelReservationRequest struct {
	UserID int64  `json:"userId"`
	Reason string `json:"reason"`
}

// UpdatePaymentStatusRequest запрос на обновление статуса оплаты
// ParticipantID указывается, когда оплачена доля конкретного участника,
// а не бронирование целиком
type UpdatePaymentStatusRequest struct {
	UserID        int64  `json:"userId"`
	Status        string `json:"status"`
	ParticipantID *int64 `json:"participantId,omitempty"`
}

// RespondInvitationRequest ответ на приглашение участника
// UserEmail приходит из identity gateway и сверяется с email приглашения
type RespondInvitationRequest struct {
	UserID    int64  `json:"userId"`
	UserEmail string `json:"userEmail"`
	Accept    bool   `json:"accept"`
}

// GetUserReservationsRequest запрос на получение бронирований пользователя
type GetUserReservationsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"` // Фильтр по статусу оплаты (опционально)
}

// GetClubReservationsRequest запрос на получение бронирований клуба
type GetClubReservationsRequest struct {
	ClubID           int64      `json:"clubId"`
	UserID           int64      `json:"userId"`
	CourtID          *int64     `json:"courtId,omitempty"`          // Фильтр по корту (опционально)
	StartDate        *time.Time `json:"startDate,omitempty"`        // Начало периода (опционально)
	EndDate          *time.Time `json:"endDate,omitempty"`          // Конец периода (опционально)
	IncludeCancelled bool       `json:"includeCancelled,omitempty"` // Включить отмененные бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetClubReservationsRequest) ToDomainFilter() domain.ClubReservationsFilter {
	return domain.ClubReservationsFilter{
		ClubID:           r.ClubID,
		CourtID:          r.CourtID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}
}

// Response модели

// ParticipantResponse данные участника в ответе
type ParticipantResponse struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	UserID       *int64  `json:"userId,omitempty"`
	InviteStatus string  `json:"inviteStatus"`
	ShareAmount  float64 `json:"shareAmount"`
	SharePaid    bool    `json:"sharePaid"`
}

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID              int64   `json:"id"`
	ClubID          int64   `json:"clubId"`
	CourtID         int64   `json:"courtId"`
	UserID          int64   `json:"userId"`
	ReservationDate string  `json:"reservationDate"` // "2025-10-15"
	StartTime       string  `json:"startTime"`       // "10:00"
	EndTime         string  `json:"endTime"`         // "11:30"
	TotalPrice      float64 `json:"totalPrice"`
	PaymentStatus   string  `json:"paymentStatus"`
	SplitPayment    bool    `json:"splitPayment"`
	OpenMatch       bool    `json:"openMatch"`
	Attendees       int     `json:"attendees"`

	Participants []ParticipantResponse `json:"participants,omitempty"`

	CancelledAt        *string  `json:"cancelledAt,omitempty"` // ISO 8601 format
	CancellationReason *string  `json:"cancellationReason,omitempty"`
	CancellationFee    *float64 `json:"cancellationFee,omitempty"`
	RefundAmount       *float64 `json:"refundAmount,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// CancelReservationResponse итог отмены: удержанная комиссия и сумма возврата
type CancelReservationResponse struct {
	ReservationID   int64   `json:"reservationId"`
	CancellationFee float64 `json:"cancellationFee"`
	RefundAmount    float64 `json:"refundAmount"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation, participants []*domain.Participant) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                 r.ID,
		ClubID:             r.ClubID,
		CourtID:            r.CourtID,
		UserID:             r.UserID,
		ReservationDate:    r.ReservationDate.Format(domain.DateFormat),
		StartTime:          r.StartTime.String(),
		EndTime:            r.EndTime.String(),
		TotalPrice:         r.TotalPrice,
		PaymentStatus:      string(r.PaymentStatus),
		SplitPayment:       r.SplitPayment,
		OpenMatch:          r.OpenMatch,
		Attendees:          r.Attendees,
		CancellationReason: r.CancellationReason,
		CancellationFee:    r.CancellationFee,
		RefundAmount:       r.RefundAmount,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	if r.CancelledAt != nil {
		cancelledAt := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	for _, p := range participants {
		resp.Participants = append(resp.Participants, ParticipantResponse{
			ID:           p.ID,
			Email:        p.Email,
			UserID:       p.UserID,
			InviteStatus: string(p.InviteStatus),
			ShareAmount:  p.ShareAmount,
			SharePaid:    p.SharePaid,
		})
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		resp.Reservations = append(resp.Reservations, *FromDomainReservation(r, nil))
	}

	return resp
}

// ToDomainPaymentStatus конвертирует строку в domain.PaymentStatus
func ToDomainPaymentStatus(status string) (domain.PaymentStatus, error) {
	s := domain.PaymentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidPaymentStatus
	}
	return s, nil
}

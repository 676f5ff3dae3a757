package create_reservation

import (
	"time"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	createReservation "github.com/courtflow/CourtFlow-BookingService/internal/usecase/create_reservation"
	"github.com/courtflow/CourtFlow-BookingService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	ClubID            int64    `json:"clubId"`
	CourtID           int64    `json:"courtId"`
	Date              string   `json:"date"`      // "2025-10-15"
	StartTime         string   `json:"startTime"` // "10:00"
	EndTime           string   `json:"endTime"`   // "11:30"
	Attendees         int      `json:"attendees"`
	SplitPayment      bool     `json:"splitPayment,omitempty"`
	OpenMatch         bool     `json:"openMatch,omitempty"`
	ParticipantEmails []string `json:"participantEmails,omitempty"`
	IdempotencyKey    string   `json:"idempotencyKey,omitempty"`
}

// ParticipantResponse участник в HTTP ответе
type ParticipantResponse struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	InviteStatus string  `json:"inviteStatus"`
	ShareAmount  float64 `json:"shareAmount"`
	SharePaid    bool    `json:"sharePaid"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              int64                 `json:"id"`
	ClubID          int64                 `json:"clubId"`
	CourtID         int64                 `json:"courtId"`
	UserID          int64                 `json:"userId"`
	ReservationDate string                `json:"reservationDate"`
	StartTime       string                `json:"startTime"`
	EndTime         string                `json:"endTime"`
	TotalPrice      float64               `json:"totalPrice"`
	PaymentStatus   string                `json:"paymentStatus"`
	SplitPayment    bool                  `json:"splitPayment"`
	OpenMatch       bool                  `json:"openMatch"`
	Attendees       int                   `json:"attendees"`
	IdempotencyKey  string                `json:"idempotencyKey"`
	Participants    []ParticipantResponse `json:"participants,omitempty"`
	CreatedAt       string                `json:"createdAt"`
	UpdatedAt       string                `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		UserID:            userID,
		ClubID:            r.ClubID,
		CourtID:           r.CourtID,
		Date:              date,
		StartTime:         startTime,
		EndTime:           endTime,
		Attendees:         r.Attendees,
		SplitPayment:      r.SplitPayment,
		OpenMatch:         r.OpenMatch,
		ParticipantEmails: r.ParticipantEmails,
		IdempotencyKey:    r.IdempotencyKey,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	result := &ReservationResponse{
		ID:              resp.ID,
		ClubID:          resp.ClubID,
		CourtID:         resp.CourtID,
		UserID:          resp.UserID,
		ReservationDate: resp.ReservationDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		TotalPrice:      resp.TotalPrice,
		PaymentStatus:   resp.PaymentStatus,
		SplitPayment:    resp.SplitPayment,
		OpenMatch:       resp.OpenMatch,
		Attendees:       resp.Attendees,
		IdempotencyKey:  resp.IdempotencyKey,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}

	for _, p := range resp.Participants {
		result.Participants = append(result.Participants, ParticipantResponse{
			ID:           p.ID,
			Email:        p.Email,
			InviteStatus: p.InviteStatus,
			ShareAmount:  p.ShareAmount,
			SharePaid:    p.SharePaid,
		})
	}

	return result
}

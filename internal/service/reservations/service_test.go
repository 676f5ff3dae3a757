package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	"github.com/courtflow/CourtFlow-BookingService/internal/infra/queue"
	participantRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/participant"
	reservationRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/reservation"
	settingsRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/settings"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/reservations/models"
)

type fakeReservationStore struct {
	reservations map[int64]*domain.Reservation
	cancelCalls  []cancelCall
}

type cancelCall struct {
	id          int64
	reason      string
	fee, refund float64
}

func (f *fakeReservationStore) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	res, ok := f.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return res, nil
}

func (f *fakeReservationStore) GetByUserID(_ context.Context, userID int64, status *domain.PaymentStatus) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range f.reservations {
		if res.UserID != userID {
			continue
		}
		if status != nil && res.PaymentStatus != *status {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (f *fakeReservationStore) GetByClubWithFilter(_ context.Context, filter domain.ClubReservationsFilter) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range f.reservations {
		if res.ClubID != filter.ClubID {
			continue
		}
		if filter.CourtID != nil && res.CourtID != *filter.CourtID {
			continue
		}
		if !filter.IncludeCancelled && res.IsCancelled() {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (f *fakeReservationStore) Cancel(_ context.Context, id int64, reason string, fee, refund float64) error {
	res, ok := f.reservations[id]
	if !ok || res.IsCancelled() {
		return reservationRepo.ErrReservationNotFound
	}
	now := time.Now()
	res.CancelledAt = &now
	res.CancellationReason = &reason
	res.CancellationFee = &fee
	res.RefundAmount = &refund
	f.cancelCalls = append(f.cancelCalls, cancelCall{id: id, reason: reason, fee: fee, refund: refund})
	return nil
}

func (f *fakeReservationStore) UpdatePaymentStatus(_ context.Context, id int64, status domain.PaymentStatus) error {
	res, ok := f.reservations[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	res.PaymentStatus = status
	return nil
}

type fakeParticipantStore struct {
	participants map[int64]*domain.Participant
}

func (f *fakeParticipantStore) GetByID(_ context.Context, id int64) (*domain.Participant, error) {
	p, ok := f.participants[id]
	if !ok {
		return nil, participantRepo.ErrParticipantNotFound
	}
	return p, nil
}

func (f *fakeParticipantStore) GetByReservationID(_ context.Context, reservationID int64) ([]*domain.Participant, error) {
	var out []*domain.Participant
	for _, p := range f.participants {
		if p.ReservationID == reservationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipantStore) UpdateInviteStatus(_ context.Context, id int64, status domain.InviteStatus, userID *int64) error {
	p, ok := f.participants[id]
	if !ok {
		return participantRepo.ErrParticipantNotFound
	}
	p.InviteStatus = status
	p.UserID = userID
	return nil
}

func (f *fakeParticipantStore) MarkSharePaid(_ context.Context, id int64) error {
	p, ok := f.participants[id]
	if !ok {
		return participantRepo.ErrParticipantNotFound
	}
	p.SharePaid = true
	return nil
}

type fakeSettingsStore struct {
	settings *domain.ClubSettings
}

func (f *fakeSettingsStore) GetByClubID(_ context.Context, clubID int64) (*domain.ClubSettings, error) {
	if f.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

type capturingPublisher struct {
	cancelled []queue.ReservationCancelledEvent
}

func (p *capturingPublisher) ReservationCancelled(_ context.Context, event queue.ReservationCancelledEvent) error {
	p.cancelled = append(p.cancelled, event)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type testEnv struct {
	svc          *Service
	reservations *fakeReservationStore
	participants *fakeParticipantStore
	settings     *fakeSettingsStore
	publisher    *capturingPublisher
}

func newTestEnv() *testEnv {
	env := &testEnv{
		reservations: &fakeReservationStore{reservations: map[int64]*domain.Reservation{}},
		participants: &fakeParticipantStore{participants: map[int64]*domain.Participant{}},
		settings:     &fakeSettingsStore{},
		publisher:    &capturingPublisher{},
	}
	env.svc = NewService(env.reservations, env.participants, env.settings, env.publisher, nopLogger{})
	return env
}

func testReservation(id, userID int64) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		ClubID:          1,
		CourtID:         10,
		UserID:          userID,
		ReservationDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		EndTime:         "11:30",
		TotalPrice:      75,
		PaymentStatus:   domain.PaymentPending,
		Attendees:       2,
	}
}

func TestGetByID_Access(t *testing.T) {
	env := newTestEnv()
	env.reservations.reservations[1] = testReservation(1, 7)

	linkedUser := int64(8)
	env.participants.participants[100] = &domain.Participant{
		ID:            100,
		ReservationID: 1,
		Email:         "anna@example.com",
		UserID:        &linkedUser,
		InviteStatus:  domain.InviteAccepted,
	}

	// Владелец видит бронирование вместе с участниками
	resp, err := env.svc.GetByID(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	require.Len(t, resp.Participants, 1)
	assert.Equal(t, "anna@example.com", resp.Participants[0].Email)

	// Участник с привязанным identity тоже видит
	_, err = env.svc.GetByID(context.Background(), 1, 8)
	require.NoError(t, err)

	// Посторонний пользователь - нет
	_, err = env.svc.GetByID(context.Background(), 1, 99)
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = env.svc.GetByID(context.Background(), 42, 7)
	require.ErrorIs(t, err, ErrReservationNotFound)
}

func TestGetUserReservations(t *testing.T) {
	env := newTestEnv()
	env.reservations.reservations[1] = testReservation(1, 7)

	paid := testReservation(2, 7)
	paid.PaymentStatus = domain.PaymentPaid
	env.reservations.reservations[2] = paid

	env.reservations.reservations[3] = testReservation(3, 8)

	resp, err := env.svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{UserID: 7})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 2)

	status := "paid"
	resp, err = env.svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{UserID: 7, Status: &status})
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, int64(2), resp.Reservations[0].ID)

	bad := "unknown"
	_, err = env.svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{UserID: 7, Status: &bad})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetClubReservations(t *testing.T) {
	env := newTestEnv()
	env.reservations.reservations[1] = testReservation(1, 7)

	cancelled := testReservation(2, 8)
	cancelledAt := time.Now()
	cancelled.CancelledAt = &cancelledAt
	env.reservations.reservations[2] = cancelled

	resp, err := env.svc.GetClubReservations(context.Background(), &models.GetClubReservationsRequest{ClubID: 1, UserID: 7})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 1)

	resp, err = env.svc.GetClubReservations(context.Background(), &models.GetClubReservationsRequest{
		ClubID: 1, UserID: 7, IncludeCancelled: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 2)
}

func TestCancel(t *testing.T) {
	env := newTestEnv()
	env.reservations.reservations[1] = testReservation(1, 7)
	env.settings.settings = &domain.ClubSettings{ClubID: 1, CancellationFeeRate: 0.2}

	resp, err := env.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: 7, Reason: "дождь"})
	require.NoError(t, err)

	// 20% от 75.00
	assert.Equal(t, 15.0, resp.CancellationFee)
	assert.Equal(t, 60.0, resp.RefundAmount)

	require.Len(t, env.reservations.cancelCalls, 1)
	assert.Equal(t, "дождь", env.reservations.cancelCalls[0].reason)

	require.Len(t, env.publisher.cancelled, 1)
	assert.Equal(t, int64(1), env.publisher.cancelled[0].ReservationID)
	assert.Equal(t, 15.0, env.publisher.cancelled[0].Fee)

	// Повторная отмена
	_, err = env.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: 7})
	require.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancel_OwnerOnly(t *testing.T) {
	env := newTestEnv()
	env.reservations.reservations[1] = testReservation(1, 7)

	_, err := env.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: 8})
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = env.svc.Cancel(context.Background(), 42, &models.CancelReservationRequest{UserID: 7})
	require.ErrorIs(t, err, ErrReservationNotFound)
}

func TestCancel_NoSettingsMeansNoFee(t *testing.T) {
	env := newTestEnv()
	env.reservations.reservations[1] = testReservation(1, 7)

	resp, err := env.svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.CancellationFee)
	assert.Equal(t, 75.0, resp.RefundAmount)
}

func TestUpdatePaymentStatus(t *testing.T) {
	env := newTestEnv()
	env.reservations.reservations[1] = testReservation(1, 7)

	err := env.svc.UpdatePaymentStatus(context.Background(), 1, &models.UpdatePaymentStatusRequest{UserID: 7, Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, env.reservations.reservations[1].PaymentStatus)

	err = env.svc.UpdatePaymentStatus(context.Background(), 1, &models.UpdatePaymentStatusRequest{UserID: 7, Status: "bogus"})
	require.ErrorIs(t, err, ErrInvalidInput)

	err = env.svc.UpdatePaymentStatus(context.Background(), 42, &models.UpdatePaymentStatusRequest{UserID: 7, Status: "paid"})
	require.ErrorIs(t, err, ErrReservationNotFound)
}

func TestUpdatePaymentStatus_ParticipantShare(t *testing.T) {
	env := newTestEnv()
	env.reservations.reservations[1] = testReservation(1, 7)
	env.participants.participants[100] = &domain.Participant{
		ID:            100,
		ReservationID: 1,
		Email:         "anna@example.com",
		InviteStatus:  domain.InviteAccepted,
		ShareAmount:   25,
	}

	participantID := int64(100)
	err := env.svc.UpdatePaymentStatus(context.Background(), 1, &models.UpdatePaymentStatusRequest{
		UserID: 7, Status: "paid", ParticipantID: &participantID,
	})
	require.NoError(t, err)
	assert.True(t, env.participants.participants[100].SharePaid)

	// Доля участника поддерживает только paid
	err = env.svc.UpdatePaymentStatus(context.Background(), 1, &models.UpdatePaymentStatusRequest{
		UserID: 7, Status: "failed", ParticipantID: &participantID,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	// Участник чужого бронирования
	env.participants.participants[200] = &domain.Participant{ID: 200, ReservationID: 2}
	otherID := int64(200)
	err = env.svc.UpdatePaymentStatus(context.Background(), 1, &models.UpdatePaymentStatusRequest{
		UserID: 7, Status: "paid", ParticipantID: &otherID,
	})
	require.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestRespondInvitation(t *testing.T) {
	env := newTestEnv()
	env.participants.participants[100] = &domain.Participant{
		ID:            100,
		ReservationID: 1,
		Email:         "anna@example.com",
		InviteStatus:  domain.InvitePending,
	}

	req := &models.RespondInvitationRequest{UserID: 8, UserEmail: "anna@example.com", Accept: true}
	err := env.svc.RespondInvitation(context.Background(), 1, 100, req)
	require.NoError(t, err)

	p := env.participants.participants[100]
	assert.Equal(t, domain.InviteAccepted, p.InviteStatus)
	require.NotNil(t, p.UserID)
	assert.Equal(t, int64(8), *p.UserID)

	// Повторный ответ невозможен
	req.Accept = false
	err = env.svc.RespondInvitation(context.Background(), 1, 100, req)
	require.ErrorIs(t, err, ErrCannotRespond)
}

func TestRespondInvitation_Decline(t *testing.T) {
	env := newTestEnv()
	env.participants.participants[100] = &domain.Participant{
		ID:            100,
		ReservationID: 1,
		Email:         "anna@example.com",
		InviteStatus:  domain.InvitePending,
	}

	req := &models.RespondInvitationRequest{UserID: 8, UserEmail: "Anna@Example.com", Accept: false}
	err := env.svc.RespondInvitation(context.Background(), 1, 100, req)
	require.NoError(t, err)

	p := env.participants.participants[100]
	assert.Equal(t, domain.InviteDeclined, p.InviteStatus)
	assert.Nil(t, p.UserID)
}

func TestRespondInvitation_IdentityMismatch(t *testing.T) {
	env := newTestEnv()
	linkedUser := int64(9)
	env.participants.participants[100] = &domain.Participant{
		ID:            100,
		ReservationID: 1,
		Email:         "anna@example.com",
		InviteStatus:  domain.InvitePending,
	}
	env.participants.participants[101] = &domain.Participant{
		ID:            101,
		ReservationID: 1,
		Email:         "boris@example.com",
		UserID:        &linkedUser,
		InviteStatus:  domain.InvitePending,
	}

	// Чужой email не дает права закрыть приглашение
	req := &models.RespondInvitationRequest{UserID: 8, UserEmail: "mallory@example.com", Accept: true}
	err := env.svc.RespondInvitation(context.Background(), 1, 100, req)
	require.ErrorIs(t, err, ErrAccessDenied)

	// Без подтвержденного email приглашение по email недоступно
	err = env.svc.RespondInvitation(context.Background(), 1, 100, &models.RespondInvitationRequest{UserID: 8, Accept: true})
	require.ErrorIs(t, err, ErrAccessDenied)

	// Приглашение, привязанное к пользователю, закрывает только он сам
	err = env.svc.RespondInvitation(context.Background(), 1, 101, &models.RespondInvitationRequest{UserID: 8, UserEmail: "boris@example.com", Accept: true})
	require.ErrorIs(t, err, ErrAccessDenied)

	err = env.svc.RespondInvitation(context.Background(), 1, 101, &models.RespondInvitationRequest{UserID: 9, Accept: true})
	require.NoError(t, err)
	assert.Equal(t, domain.InviteAccepted, env.participants.participants[101].InviteStatus)

	// Статус отклоненных попыток не изменился
	assert.Equal(t, domain.InvitePending, env.participants.participants[100].InviteStatus)
}

func TestRespondInvitation_WrongReservation(t *testing.T) {
	env := newTestEnv()
	env.participants.participants[100] = &domain.Participant{
		ID:            100,
		ReservationID: 2,
		InviteStatus:  domain.InvitePending,
	}

	err := env.svc.RespondInvitation(context.Background(), 1, 100, &models.RespondInvitationRequest{UserID: 8, Accept: true})
	require.ErrorIs(t, err, ErrParticipantNotFound)

	err = env.svc.RespondInvitation(context.Background(), 1, 999, &models.RespondInvitationRequest{UserID: 8, Accept: true})
	require.ErrorIs(t, err, ErrParticipantNotFound)
}

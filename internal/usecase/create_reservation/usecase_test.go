package create_reservation

import (
	"context"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	"github.com/courtflow/CourtFlow-BookingService/internal/infra/queue"
	courtRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/court"
	"github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/dberr"
	reservationRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/reservation"
	settingsRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/settings"
	"github.com/courtflow/CourtFlow-BookingService/pkg/types"
)

type fakeReservationStore struct {
	reservations []*domain.Reservation
	nextID       int64
	createErr    error
}

func (f *fakeReservationStore) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	created := *res
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.reservations = append(f.reservations, &created)
	return &created, nil
}

func (f *fakeReservationStore) GetByIdempotencyKey(_ context.Context, key string) (*domain.Reservation, error) {
	for _, res := range f.reservations {
		if res.IdempotencyKey == key {
			return res, nil
		}
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (f *fakeReservationStore) GetActiveByCourtAndDate(_ context.Context, courtID int64, _ time.Time) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range f.reservations {
		if res.CourtID == courtID && res.IsActive() {
			out = append(out, res)
		}
	}
	return out, nil
}

type fakeParticipantStore struct {
	participants []*domain.Participant
}

func (f *fakeParticipantStore) CreateBatch(_ context.Context, participants []*domain.Participant) error {
	for i, p := range participants {
		stored := *p
		stored.ID = int64(len(f.participants) + i + 1)
		f.participants = append(f.participants, &stored)
	}
	return nil
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

type fakeCourtStore struct {
	courts map[int64]*domain.Court
}

func (f *fakeCourtStore) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	court, ok := f.courts[id]
	if !ok {
		return nil, courtRepo.ErrCourtNotFound
	}
	return court, nil
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

type immediateTxManager struct{}

func (immediateTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// serialTxManager пропускает транзакции по одной: конкурирующий вызов
// стартует только после коммита предыдущего и видит его результат
type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type capturingPublisher struct {
	created []queue.ReservationCreatedEvent
	err     error
}

func (p *capturingPublisher) ReservationCreated(_ context.Context, event queue.ReservationCreatedEvent) error {
	p.created = append(p.created, event)
	return p.err
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type testEnv struct {
	uc           *UseCase
	reservations *fakeReservationStore
	participants *fakeParticipantStore
	courts       *fakeCourtStore
	publisher    *capturingPublisher
}

func newTestEnv(now time.Time) *testEnv {
	env := &testEnv{
		reservations: &fakeReservationStore{},
		participants: &fakeParticipantStore{},
		courts: &fakeCourtStore{
			courts: map[int64]*domain.Court{
				10: {
					ID:         10,
					ClubID:     1,
					Name:       "Корт 1",
					Sport:      domain.SportPadel,
					Capacity:   4,
					HourlyRate: 50,
					Status:     domain.CourtStatusActive,
				},
			},
		},
		publisher: &capturingPublisher{},
	}

	env.uc = NewUseCase(
		env.reservations,
		env.participants,
		env.courts,
		&fakeSettingsStore{},
		immediateTxManager{},
		env.publisher,
		nopLogger{},
	)
	env.uc.timeProvider = &fixedClock{now: now}

	return env
}

func validRequest() *Request {
	return &Request{
		UserID:    7,
		ClubID:    1,
		CourtID:   10,
		Date:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		EndTime:   "11:30",
		Attendees: 2,
	}
}

var testNow = time.Date(2025, 5, 25, 12, 0, 0, 0, time.UTC)

func TestExecute_CreatesReservation(t *testing.T) {
	env := newTestEnv(testNow)

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// 90 минут по ставке 50/час
	assert.Equal(t, 75.0, resp.TotalPrice)
	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)
	assert.False(t, resp.Duplicate)
	assert.NotZero(t, resp.ID)

	// Ключ сгенерирован сервером и является валидным UUID
	_, err = uuid.Parse(resp.IdempotencyKey)
	assert.NoError(t, err)

	require.Len(t, env.publisher.created, 1)
	assert.Equal(t, resp.ID, env.publisher.created[0].ReservationID)
	assert.Equal(t, "10:00", env.publisher.created[0].StartTime)
}

func TestExecute_SlotConflict(t *testing.T) {
	env := newTestEnv(testNow)

	first := validRequest()
	_, err := env.uc.Execute(context.Background(), first)
	require.NoError(t, err)

	// Пересечение 10:30-12:00 с существующим 10:00-11:30
	second := validRequest()
	second.StartTime = "10:30"
	second.EndTime = "12:00"

	_, err = env.uc.Execute(context.Background(), second)
	require.ErrorIs(t, err, ErrSlotConflict)
	assert.Len(t, env.reservations.reservations, 1)
}

func TestExecute_BoundaryDoesNotConflict(t *testing.T) {
	env := newTestEnv(testNow)

	first := validRequest()
	first.StartTime = "09:00"
	first.EndTime = "10:00"
	_, err := env.uc.Execute(context.Background(), first)
	require.NoError(t, err)

	// Начало встык к окончанию предыдущего - не конфликт
	second := validRequest()
	_, err = env.uc.Execute(context.Background(), second)
	require.NoError(t, err)
	assert.Len(t, env.reservations.reservations, 2)
}

func TestExecute_CancelledReservationDoesNotBlock(t *testing.T) {
	env := newTestEnv(testNow)
	cancelledAt := testNow

	env.reservations.reservations = append(env.reservations.reservations, &domain.Reservation{
		ID:          1,
		CourtID:     10,
		StartTime:   "10:00",
		EndTime:     "11:30",
		CancelledAt: &cancelledAt,
	})
	env.reservations.nextID = 1

	_, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
}

func TestExecute_DuplicateSubmission(t *testing.T) {
	env := newTestEnv(testNow)

	req := validRequest()
	req.IdempotencyKey = uuid.NewString()

	first, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Повторная отправка с тем же ключом возвращает то же бронирование
	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.Error(t, err) // другой запрос без ключа конфликтует по времени

	retry := validRequest()
	retry.IdempotencyKey = req.IdempotencyKey

	resp, err = env.uc.Execute(context.Background(), retry)
	require.NoError(t, err)
	assert.True(t, resp.Duplicate)
	assert.Equal(t, first.ID, resp.ID)

	// Новое бронирование не создано, событие опубликовано только один раз
	assert.Len(t, env.reservations.reservations, 1)
	assert.Len(t, env.publisher.created, 1)
}

func TestExecute_SplitPaymentShares(t *testing.T) {
	env := newTestEnv(testNow)

	// 120 минут по 50/час = 100.00; на троих 33.33, остаток у владельца
	req := validRequest()
	req.EndTime = "12:00"
	req.Attendees = 3
	req.SplitPayment = true
	req.ParticipantEmails = []string{"anna@example.com", "boris@example.com"}

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 100.0, resp.TotalPrice)
	require.Len(t, resp.Participants, 2)
	for _, p := range resp.Participants {
		assert.Equal(t, 33.33, p.ShareAmount)
		assert.Equal(t, string(domain.InvitePending), p.InviteStatus)
		assert.False(t, p.SharePaid)
	}

	require.Len(t, env.participants.participants, 2)
	assert.Equal(t, resp.ID, env.participants.participants[0].ReservationID)
}

func TestExecute_NonSplitInviteesPersisted(t *testing.T) {
	env := newTestEnv(testNow)

	// Приглашение без разделения оплаты: участник сохраняется с нулевой
	// долей, событие и БД согласованы
	req := validRequest()
	req.ParticipantEmails = []string{"anna@example.com"}

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, env.participants.participants, 1)
	stored := env.participants.participants[0]
	assert.Equal(t, resp.ID, stored.ReservationID)
	assert.Equal(t, "anna@example.com", stored.Email)
	assert.Equal(t, 0.0, stored.ShareAmount)
	assert.Equal(t, domain.InvitePending, stored.InviteStatus)

	require.Len(t, resp.Participants, 1)
	assert.Equal(t, "anna@example.com", resp.Participants[0].Email)
	assert.Equal(t, 0.0, resp.Participants[0].ShareAmount)

	require.Len(t, env.publisher.created, 1)
	assert.Equal(t, []string{"anna@example.com"}, env.publisher.created[0].Participants)
}

func TestExecute_CourtChecks(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(env *testEnv, req *Request)
		wantErr error
	}{
		{
			name: "unknown court",
			mutate: func(env *testEnv, req *Request) {
				req.CourtID = 99
			},
			wantErr: ErrCourtNotFound,
		},
		{
			name: "court from another club",
			mutate: func(env *testEnv, req *Request) {
				req.ClubID = 2
			},
			wantErr: ErrCourtNotInClub,
		},
		{
			name: "court under maintenance",
			mutate: func(env *testEnv, req *Request) {
				env.courts.courts[10].Status = domain.CourtStatusMaintenance
			},
			wantErr: ErrCourtUnderMaintenance,
		},
		{
			name: "attendees over capacity",
			mutate: func(env *testEnv, req *Request) {
				req.Attendees = 5
			},
			wantErr: ErrTooManyAttendees,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(testNow)
			req := validRequest()
			tt.mutate(env, req)

			_, err := env.uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{
			name: "end not after start",
			mutate: func(req *Request) {
				req.StartTime = "11:00"
				req.EndTime = "11:00"
			},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name: "split payment without emails",
			mutate: func(req *Request) {
				req.SplitPayment = true
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "emails not fewer than attendees",
			mutate: func(req *Request) {
				req.SplitPayment = true
				req.ParticipantEmails = []string{"a@b.c", "d@e.f"}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "malformed email",
			mutate: func(req *Request) {
				req.Attendees = 3
				req.SplitPayment = true
				req.ParticipantEmails = []string{"not-an-email"}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "malformed idempotency key",
			mutate: func(req *Request) {
				req.IdempotencyKey = "not-a-uuid"
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "before opening",
			mutate: func(req *Request) {
				req.StartTime = "07:00"
				req.EndTime = "08:30"
			},
			wantErr: ErrOutsideOperatingHours,
		},
		{
			name: "after closing",
			mutate: func(req *Request) {
				req.StartTime = "22:00"
				req.EndTime = "23:30"
			},
			wantErr: ErrOutsideOperatingHours,
		},
		{
			name: "past date",
			mutate: func(req *Request) {
				req.Date = time.Date(2025, 5, 24, 0, 0, 0, 0, time.UTC)
			},
			wantErr: ErrInvalidDate,
		},
		{
			name: "beyond booking horizon",
			mutate: func(req *Request) {
				req.Date = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
			},
			wantErr: ErrDateTooFarInFuture,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(testNow)
			req := validRequest()
			tt.mutate(req)

			_, err := env.uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, env.reservations.reservations)
		})
	}
}

func TestExecute_ConstraintConflictMapped(t *testing.T) {
	env := newTestEnv(testNow)
	env.reservations.createErr = reservationRepo.ErrSlotConflict

	_, err := env.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_StorageUnavailableMapped(t *testing.T) {
	env := newTestEnv(testNow)
	env.reservations.createErr = dberr.Wrap(reservationRepo.ErrExecQuery, "Create - execute insert", driver.ErrBadConn)

	_, err := env.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestExecute_ConcurrentSubmissionsOneWins(t *testing.T) {
	env := newTestEnv(testNow)
	env.uc.txManager = &serialTxManager{}

	// Две конкурирующие отправки на один корт и пересекающееся время:
	// транзакция-победитель создает бронирование, вторая видит его
	// при повторном чтении и получает конфликт
	first := validRequest()
	second := validRequest()
	second.StartTime = "10:30"
	second.EndTime = "12:00"

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, req := range []*Request{first, second} {
		wg.Add(1)
		go func(req *Request) {
			defer wg.Done()
			_, err := env.uc.Execute(context.Background(), req)
			errs <- err
		}(req)
	}
	wg.Wait()
	close(errs)

	var succeeded, conflicted int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
	assert.Len(t, env.reservations.reservations, 1)
	assert.Len(t, env.publisher.created, 1)
}

func TestExecute_PublishFailureDoesNotFail(t *testing.T) {
	env := newTestEnv(testNow)
	env.publisher.err = assert.AnError

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
}

func TestCalculatePrice(t *testing.T) {
	tests := []struct {
		name       string
		rate       float64
		start, end types.TimeString
		want       float64
	}{
		{name: "hour and a half", rate: 50, start: "10:00", end: "11:30", want: 75},
		{name: "exact hour", rate: 37.5, start: "08:00", end: "09:00", want: 37.5},
		{name: "half hour rounds to cents", rate: 33.33, start: "10:00", end: "10:30", want: 16.67},
		{name: "two hours", rate: 45, start: "20:00", end: "22:00", want: 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calculatePrice(tt.rate, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateShares(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		participants int
		want         float64
	}{
		{name: "even split", total: 75, participants: 2, want: 25},
		{name: "remainder stays with owner", total: 100, participants: 2, want: 33.33},
		{name: "single invitee", total: 75, participants: 1, want: 37.5},
		{name: "cent remainder", total: 50, participants: 2, want: 16.66},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateShares(tt.total, tt.participants))
		})
	}
}

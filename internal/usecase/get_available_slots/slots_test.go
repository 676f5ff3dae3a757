package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	settingsRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/settings"
	"github.com/courtflow/CourtFlow-BookingService/pkg/types"
)

type fakeCourtRepo struct {
	courts []*domain.Court
	err    error
}

func (f *fakeCourtRepo) ListByClub(_ context.Context, _ int64, _ *domain.Sport, _ bool) ([]*domain.Court, error) {
	return f.courts, f.err
}

type fakeReservationRepo struct {
	reservations []*domain.Reservation
	err          error
}

func (f *fakeReservationRepo) GetActiveByCourtsAndDate(_ context.Context, _ []int64, _ time.Time) ([]*domain.Reservation, error) {
	return f.reservations, f.err
}

type fakeSettingsRepo struct {
	settings *domain.ClubSettings
}

func (f *fakeSettingsRepo) GetByClubID(_ context.Context, clubID int64) (*domain.ClubSettings, error) {
	if f.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return f.settings, nil
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

func newTestUseCase(
	courts []*domain.Court,
	reservations []*domain.Reservation,
	settings *domain.ClubSettings,
	now time.Time,
) *UseCase {
	uc := NewUseCase(
		&fakeCourtRepo{courts: courts},
		&fakeReservationRepo{reservations: reservations},
		&fakeSettingsRepo{settings: settings},
		nopLogger{},
	)
	uc.timeProvider = &fixedClock{now: now}
	return uc
}

func testCourt(id int64, rate float64) *domain.Court {
	return &domain.Court{
		ID:         id,
		ClubID:     1,
		Name:       "Корт 1",
		Sport:      domain.SportPadel,
		Capacity:   4,
		HourlyRate: rate,
		Status:     domain.CourtStatusActive,
	}
}

func testReservation(courtID int64, start, end types.TimeString) *domain.Reservation {
	return &domain.Reservation{
		ID:        100,
		ClubID:    1,
		CourtID:   courtID,
		UserID:    7,
		StartTime: start,
		EndTime:   end,
	}
}

func TestGenerateSlotTimes(t *testing.T) {
	tests := []struct {
		name        string
		open, close types.TimeString
		granularity int
		want        []types.TimeString
	}{
		{
			name:        "hourly grid over full day",
			open:        "08:00",
			close:       "23:00",
			granularity: 60,
			want: []types.TimeString{
				"08:00", "09:00", "10:00", "11:00", "12:00",
				"13:00", "14:00", "15:00", "16:00", "17:00",
				"18:00", "19:00", "20:00", "21:00", "22:00",
			},
		},
		{
			name:        "half hour grid",
			open:        "10:00",
			close:       "12:00",
			granularity: 30,
			want:        []types.TimeString{"10:00", "10:30", "11:00", "11:30"},
		},
		{
			name:        "last cell ends exactly at close",
			open:        "21:00",
			close:       "23:00",
			granularity: 60,
			want:        []types.TimeString{"21:00", "22:00"},
		},
		{
			name:        "cell not fitting before close is dropped",
			open:        "22:00",
			close:       "23:30",
			granularity: 90,
			want:        []types.TimeString{"22:00"},
		},
		{
			name:        "zero window",
			open:        "10:00",
			close:       "10:00",
			granularity: 60,
			want:        []types.TimeString{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := generateSlotTimes(tt.open, tt.close, tt.granularity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSlots_BlocksOverlappedCellsOnly(t *testing.T) {
	court := testCourt(1, 37.5)
	slotTimes, err := generateSlotTimes("08:00", "23:00", 60)
	require.NoError(t, err)

	// Бронирование 10:00-11:30 занимает ячейки 10:00 и 11:00, но не 09:00 и не 12:00
	reservations := []*domain.Reservation{
		testReservation(1, "10:00", "11:30"),
	}

	slots := buildSlots(slotTimes, 60, []*domain.Court{court}, reservations)
	require.Len(t, slots, 15)

	byStart := make(map[types.TimeString]domain.Slot, len(slots))
	for _, s := range slots {
		byStart[s.StartTime] = s
	}

	assert.True(t, byStart["09:00"].Available)
	assert.False(t, byStart["10:00"].Available)
	assert.Nil(t, byStart["10:00"].CourtID)
	assert.False(t, byStart["11:00"].Available)
	assert.True(t, byStart["12:00"].Available)
}

func TestBuildSlots_BoundaryDoesNotConflict(t *testing.T) {
	court := testCourt(1, 40)
	slotTimes := []types.TimeString{"09:00", "10:00"}

	// Бронирование до 10:00 не конфликтует со слотом с 10:00
	reservations := []*domain.Reservation{
		testReservation(1, "09:00", "10:00"),
	}

	slots := buildSlots(slotTimes, 60, []*domain.Court{court}, reservations)
	require.Len(t, slots, 2)

	assert.False(t, slots[0].Available)
	assert.True(t, slots[1].Available)
}

func TestBuildSlots_CancelledReservationIgnored(t *testing.T) {
	court := testCourt(1, 40)
	cancelledAt := time.Now()

	res := testReservation(1, "10:00", "11:00")
	res.CancelledAt = &cancelledAt

	slots := buildSlots([]types.TimeString{"10:00"}, 60, []*domain.Court{court}, []*domain.Reservation{res})
	require.Len(t, slots, 1)
	assert.True(t, slots[0].Available)
}

func TestBuildSlots_FallsBackToFreeCourt(t *testing.T) {
	first := testCourt(1, 30)
	second := testCourt(2, 45)
	second.Name = "Корт 2"

	reservations := []*domain.Reservation{
		testReservation(1, "10:00", "11:00"),
	}

	slots := buildSlots([]types.TimeString{"10:00"}, 60, []*domain.Court{first, second}, reservations)
	require.Len(t, slots, 1)

	slot := slots[0]
	require.True(t, slot.Available)
	require.NotNil(t, slot.CourtID)
	assert.Equal(t, int64(2), *slot.CourtID)
	assert.Equal(t, 45.0, *slot.Price)
}

func TestExecute_FullGrid(t *testing.T) {
	now := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		[]*domain.Court{testCourt(1, 37.5)},
		nil,
		nil, // настройки клуба не заданы, действуют значения по умолчанию
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ClubID: 1, Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 15)

	assert.Equal(t, types.TimeString("08:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("22:00"), resp.Slots[14].StartTime)

	for _, slot := range resp.Slots {
		require.True(t, slot.Available)
		require.NotNil(t, slot.Price)
		assert.Equal(t, 37.5, *slot.Price)
		assert.Equal(t, domain.CourtTypeDouble, *slot.CourtType)
		assert.Equal(t, 60, slot.DurationMinutes)
	}
}

func TestExecute_NoCourts(t *testing.T) {
	now := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	date := time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(nil, nil, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{ClubID: 1, Date: date})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DateValidation(t *testing.T) {
	now := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		date    time.Time
		wantErr error
	}{
		{
			name:    "past date rejected",
			date:    time.Date(2025, 5, 19, 0, 0, 0, 0, time.UTC),
			wantErr: ErrInvalidDate,
		},
		{
			name:    "beyond booking horizon rejected",
			date:    time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			wantErr: ErrDateTooFarInFuture,
		},
		{
			name: "today allowed",
			date: now,
		},
		{
			name: "last day of horizon allowed",
			date: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase([]*domain.Court{testCourt(1, 40)}, nil, nil, now)

			_, err := uc.Execute(context.Background(), &Request{ClubID: 1, Date: tt.date})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestExecute_CustomSettings(t *testing.T) {
	now := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	date := time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC)

	settings := &domain.ClubSettings{
		ClubID:                 1,
		OpenTime:               "09:00",
		CloseTime:              "12:00",
		SlotGranularityMinutes: 30,
		SessionDurationMinutes: 60,
		AdvanceBookingDays:     7,
	}

	uc := newTestUseCase([]*domain.Court{testCourt(1, 40)}, nil, settings, now)

	resp, err := uc.Execute(context.Background(), &Request{ClubID: 1, Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 6)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("11:30"), resp.Slots[5].StartTime)
}

func TestExecute_InvalidInput(t *testing.T) {
	now := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	badSport := domain.Sport("golf")

	uc := newTestUseCase(nil, nil, nil, now)

	_, err := uc.Execute(context.Background(), &Request{ClubID: 0, Date: now})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ClubID: 1, Date: now, Sport: &badSport})
	require.ErrorIs(t, err, ErrInvalidInput)
}

package courts

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	courtRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/court"
	settingsRepo "github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/settings"
	"github.com/courtflow/CourtFlow-BookingService/internal/service/courts/models"
)

type fakeCourtStore struct {
	courts map[int64]*domain.Court
	nextID int64
}

func (f *fakeCourtStore) Create(_ context.Context, court *domain.Court) (*domain.Court, error) {
	f.nextID++
	created := *court
	created.ID = f.nextID
	f.courts[created.ID] = &created
	return &created, nil
}

func (f *fakeCourtStore) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	court, ok := f.courts[id]
	if !ok {
		return nil, courtRepo.ErrCourtNotFound
	}
	return court, nil
}

func (f *fakeCourtStore) ListByClub(_ context.Context, clubID int64, sport *domain.Sport, onlyActive bool) ([]*domain.Court, error) {
	var out []*domain.Court
	for _, c := range f.courts {
		if c.ClubID != clubID {
			continue
		}
		if sport != nil && c.Sport != *sport {
			continue
		}
		if onlyActive && !c.IsActive() {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourtStore) UpdateStatus(_ context.Context, id int64, status domain.CourtStatus) error {
	court, ok := f.courts[id]
	if !ok {
		return courtRepo.ErrCourtNotFound
	}
	court.Status = status
	return nil
}

type fakeSettingsStore struct {
	settings map[int64]*domain.ClubSettings
}

func (f *fakeSettingsStore) GetByClubID(_ context.Context, clubID int64) (*domain.ClubSettings, error) {
	s, ok := f.settings[clubID]
	if !ok {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return s, nil
}

func (f *fakeSettingsStore) Upsert(_ context.Context, s *domain.ClubSettings) (*domain.ClubSettings, error) {
	stored := *s
	f.settings[s.ClubID] = &stored
	return &stored, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService() (*Service, *fakeCourtStore, *fakeSettingsStore) {
	courts := &fakeCourtStore{courts: map[int64]*domain.Court{}}
	settings := &fakeSettingsStore{settings: map[int64]*domain.ClubSettings{}}
	return NewService(courts, settings, nopLogger{}), courts, settings
}

func TestCreate(t *testing.T) {
	svc, store, _ := newTestService()

	resp, err := svc.Create(context.Background(), &models.CreateCourtRequest{
		UserID:     1,
		ClubID:     1,
		Name:       "  Центральный  ",
		Sport:      "padel",
		Capacity:   4,
		HourlyRate: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, "Центральный", resp.Name)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "double", resp.CourtType)
	assert.Len(t, store.courts, 1)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *models.CreateCourtRequest)
	}{
		{name: "empty name", mutate: func(req *models.CreateCourtRequest) { req.Name = "   " }},
		{name: "name too long", mutate: func(req *models.CreateCourtRequest) { req.Name = strings.Repeat("x", 101) }},
		{name: "unknown sport", mutate: func(req *models.CreateCourtRequest) { req.Sport = "golf" }},
		{name: "capacity too small", mutate: func(req *models.CreateCourtRequest) { req.Capacity = 1 }},
		{name: "capacity too large", mutate: func(req *models.CreateCourtRequest) { req.Capacity = 9 }},
		{name: "negative rate", mutate: func(req *models.CreateCourtRequest) { req.HourlyRate = -1 }},
		{name: "missing club", mutate: func(req *models.CreateCourtRequest) { req.ClubID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestService()
			req := &models.CreateCourtRequest{
				UserID: 1, ClubID: 1, Name: "Корт", Sport: "tennis", Capacity: 2, HourlyRate: 40,
			}
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, store.courts)
		})
	}
}

func TestList(t *testing.T) {
	svc, store, _ := newTestService()
	store.courts[1] = &domain.Court{ID: 1, ClubID: 1, Sport: domain.SportPadel, Capacity: 4, Status: domain.CourtStatusActive}
	store.courts[2] = &domain.Court{ID: 2, ClubID: 1, Sport: domain.SportTennis, Capacity: 2, Status: domain.CourtStatusMaintenance}
	store.courts[3] = &domain.Court{ID: 3, ClubID: 2, Sport: domain.SportPadel, Capacity: 4, Status: domain.CourtStatusActive}

	// Корты на обслуживании включаются в список клуба
	resp, err := svc.List(context.Background(), &models.ListCourtsRequest{ClubID: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Courts, 2)

	sport := "tennis"
	resp, err = svc.List(context.Background(), &models.ListCourtsRequest{ClubID: 1, Sport: &sport})
	require.NoError(t, err)
	require.Len(t, resp.Courts, 1)
	assert.Equal(t, "single", resp.Courts[0].CourtType)

	bad := "golf"
	_, err = svc.List(context.Background(), &models.ListCourtsRequest{ClubID: 1, Sport: &bad})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus(t *testing.T) {
	svc, store, _ := newTestService()
	store.courts[1] = &domain.Court{ID: 1, ClubID: 1, Sport: domain.SportPadel, Capacity: 4, Status: domain.CourtStatusActive}

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateCourtStatusRequest{UserID: 1, Status: "maintenance"})
	require.NoError(t, err)
	assert.Equal(t, "maintenance", resp.Status)

	_, err = svc.UpdateStatus(context.Background(), 1, &models.UpdateCourtStatusRequest{UserID: 1, Status: "closed"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateStatus(context.Background(), 42, &models.UpdateCourtStatusRequest{UserID: 1, Status: "active"})
	require.ErrorIs(t, err, ErrCourtNotFound)
}

func TestGetSettings_Defaults(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.GetSettings(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "08:00", resp.OpenTime)
	assert.Equal(t, "23:00", resp.CloseTime)
	assert.Equal(t, 60, resp.SlotGranularityMinutes)
	assert.Equal(t, 90, resp.SessionDurationMinutes)
	assert.Equal(t, 14, resp.AdvanceBookingDays)
}

func TestUpdateSettings_PartialOverlay(t *testing.T) {
	svc, _, store := newTestService()

	// Первое обновление поверх дефолтов
	openTime := "09:00"
	rate := 0.25
	resp, err := svc.UpdateSettings(context.Background(), 1, &models.UpdateSettingsRequest{
		UserID:              1,
		OpenTime:            &openTime,
		CancellationFeeRate: &rate,
	})
	require.NoError(t, err)

	assert.Equal(t, "09:00", resp.OpenTime)
	assert.Equal(t, "23:00", resp.CloseTime)
	assert.Equal(t, 0.25, resp.CancellationFeeRate)

	// Второе обновление не трогает ранее установленные поля
	granularity := 30
	resp, err = svc.UpdateSettings(context.Background(), 1, &models.UpdateSettingsRequest{
		UserID:                 1,
		SlotGranularityMinutes: &granularity,
	})
	require.NoError(t, err)

	assert.Equal(t, "09:00", resp.OpenTime)
	assert.Equal(t, 30, resp.SlotGranularityMinutes)
	assert.Equal(t, 0.25, store.settings[1].CancellationFeeRate)
}

func TestUpdateSettings_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *models.UpdateSettingsRequest)
	}{
		{
			name: "close before open",
			mutate: func(req *models.UpdateSettingsRequest) {
				openTime, closeTime := "20:00", "10:00"
				req.OpenTime = &openTime
				req.CloseTime = &closeTime
			},
		},
		{
			name: "malformed time",
			mutate: func(req *models.UpdateSettingsRequest) {
				openTime := "9 утра"
				req.OpenTime = &openTime
			},
		},
		{
			name: "granularity too small",
			mutate: func(req *models.UpdateSettingsRequest) {
				granularity := 10
				req.SlotGranularityMinutes = &granularity
			},
		},
		{
			name: "session too long",
			mutate: func(req *models.UpdateSettingsRequest) {
				session := 300
				req.SessionDurationMinutes = &session
			},
		},
		{
			name: "negative horizon",
			mutate: func(req *models.UpdateSettingsRequest) {
				days := -1
				req.AdvanceBookingDays = &days
			},
		},
		{
			name: "fee rate above one",
			mutate: func(req *models.UpdateSettingsRequest) {
				rate := 1.5
				req.CancellationFeeRate = &rate
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, store := newTestService()
			req := &models.UpdateSettingsRequest{UserID: 1}
			tt.mutate(req)

			_, err := svc.UpdateSettings(context.Background(), 1, req)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, store.settings)
		})
	}
}

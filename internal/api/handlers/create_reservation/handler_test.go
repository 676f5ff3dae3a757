package create_reservation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtflow/CourtFlow-BookingService/internal/api/middleware"
	createReservation "github.com/courtflow/CourtFlow-BookingService/internal/usecase/create_reservation"
)

type fakeUseCase struct {
	resp   *createReservation.Response
	err    error
	gotReq *createReservation.Request
	called int
}

func (f *fakeUseCase) Execute(_ context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	f.called++
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func successResponse(duplicate bool) *createReservation.Response {
	return &createReservation.Response{
		ID:              1,
		ClubID:          1,
		CourtID:         10,
		UserID:          7,
		ReservationDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		EndTime:         "11:30",
		TotalPrice:      75,
		PaymentStatus:   "pending",
		Attendees:       2,
		IdempotencyKey:  "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		Duplicate:       duplicate,
	}
}

const validBody = `{
	"clubId": 1,
	"courtId": 10,
	"date": "2025-06-01",
	"startTime": "10:00",
	"endTime": "11:30",
	"attendees": 2
}`

func doRequest(t *testing.T, uc *fakeUseCase, body string, withUser bool) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewHandler(uc, nil, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	if withUser {
		req.Header.Set("X-User-ID", "7")
	}

	rec := httptest.NewRecorder()
	middleware.Auth(http.HandlerFunc(handler.Handle)).ServeHTTP(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{resp: successResponse(false)}

	rec := doRequest(t, uc, validBody, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, 75.0, resp.TotalPrice)
	assert.Equal(t, "10:00", resp.StartTime)

	require.NotNil(t, uc.gotReq)
	assert.Equal(t, int64(7), uc.gotReq.UserID)
	assert.Equal(t, "2025-06-01", uc.gotReq.Date.Format("2006-01-02"))
}

func TestHandle_DuplicateReturns200(t *testing.T) {
	uc := &fakeUseCase{resp: successResponse(true)}

	rec := doRequest(t, uc, validBody, true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandle_Unauthorized(t *testing.T) {
	uc := &fakeUseCase{resp: successResponse(false)}

	rec := doRequest(t, uc, validBody, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, uc.called)
}

func TestHandle_InvalidBody(t *testing.T) {
	uc := &fakeUseCase{resp: successResponse(false)}

	rec := doRequest(t, uc, `{"clubId": "not-a-number"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, uc.called)

	// Неизвестные поля отклоняются
	rec = doRequest(t, uc, `{"clubId": 1, "bogus": true}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_InvalidDateFormat(t *testing.T) {
	uc := &fakeUseCase{resp: successResponse(false)}

	body := strings.Replace(validBody, "2025-06-01", "01.06.2025", 1)
	rec := doRequest(t, uc, body, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, uc.called)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "slot conflict", err: createReservation.ErrSlotConflict, wantStatus: http.StatusConflict},
		{name: "court not found", err: createReservation.ErrCourtNotFound, wantStatus: http.StatusNotFound},
		{name: "court not in club", err: createReservation.ErrCourtNotInClub, wantStatus: http.StatusNotFound},
		{name: "court under maintenance", err: createReservation.ErrCourtUnderMaintenance, wantStatus: http.StatusConflict},
		{name: "invalid date", err: createReservation.ErrInvalidDate, wantStatus: http.StatusBadRequest},
		{name: "date too far", err: createReservation.ErrDateTooFarInFuture, wantStatus: http.StatusBadRequest},
		{name: "invalid time range", err: createReservation.ErrInvalidTimeRange, wantStatus: http.StatusBadRequest},
		{name: "outside operating hours", err: createReservation.ErrOutsideOperatingHours, wantStatus: http.StatusBadRequest},
		{name: "too many attendees", err: createReservation.ErrTooManyAttendees, wantStatus: http.StatusBadRequest},
		{name: "invalid input", err: createReservation.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal error", err: createReservation.ErrInternal, wantStatus: http.StatusInternalServerError},
		{name: "storage unavailable", err: createReservation.ErrStorageUnavailable, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{err: tt.err}

			rec := doRequest(t, uc, validBody, true)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

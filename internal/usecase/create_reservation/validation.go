package create_reservation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	"github.com/courtflow/CourtFlow-BookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ClubID <= 0 {
		return fmt.Errorf("%w: clubID must be positive", ErrInvalidInput)
	}

	if req.CourtID <= 0 {
		return fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.EndTime.IsZero() {
		return fmt.Errorf("%w: endTime is required", ErrInvalidInput)
	}

	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
	}

	// Диапазон полуоткрытый [start, end): конец строго позже начала
	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidTimeRange)
	}

	if req.Attendees < 1 {
		return fmt.Errorf("%w: attendees must be at least 1", ErrInvalidInput)
	}

	if req.SplitPayment && len(req.ParticipantEmails) == 0 {
		return fmt.Errorf("%w: split payment requires at least one participant email", ErrInvalidInput)
	}

	// Владелец занимает одно место, приглашенные - остальные
	if len(req.ParticipantEmails) >= req.Attendees {
		return fmt.Errorf("%w: participant emails must be fewer than attendees", ErrInvalidInput)
	}

	for _, email := range req.ParticipantEmails {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	return nil
}

// validateEmail проверяет минимальную корректность email приглашенного
func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: participant email must not be empty", ErrInvalidInput)
	}

	if len(email) > domain.MaxParticipantEmailLength {
		return fmt.Errorf("%w: participant email is too long", ErrInvalidInput)
	}

	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("%w: invalid participant email %q", ErrInvalidInput, email)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(date time.Time, now time.Time, advanceBookingDays int) error {
	if isDateInPast(date, now) {
		return ErrInvalidDate
	}

	// advanceBookingDays = 0 - горизонт не ограничен
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, advanceBookingDays)

	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	if dateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateOperatingHours проверяет, что диапазон лежит внутри рабочего окна клуба
func validateOperatingHours(start, end types.TimeString, settings *domain.ClubSettings) error {
	if start.IsBefore(settings.OpenTime) {
		return fmt.Errorf("%w: club opens at %s", ErrOutsideOperatingHours, settings.OpenTime)
	}

	if end.IsAfter(settings.CloseTime) {
		return fmt.Errorf("%w: club closes at %s", ErrOutsideOperatingHours, settings.CloseTime)
	}

	return nil
}

// hasOverlap проверяет пересечение диапазона с активными бронированиями
// Строгие неравенства: бронирование до 10:00 не конфликтует со слотом с 10:00
func hasOverlap(start, end types.TimeString, reservations []*domain.Reservation) bool {
	for _, res := range reservations {
		if !res.IsActive() {
			continue
		}

		if res.Overlaps(start, end) {
			return true
		}
	}

	return false
}

// calculatePrice вычисляет стоимость бронирования: почасовая ставка за
// фактическую длительность, округление до цента
func calculatePrice(hourlyRate float64, start, end types.TimeString) (float64, error) {
	minutes, err := start.MinutesUntil(end)
	if err != nil {
		return 0, err
	}
	return math.Round(hourlyRate*float64(minutes)/60*100) / 100, nil
}

// calculateShares делит стоимость поровну между владельцем и приглашенными.
// Возвращает долю каждого приглашенного; остаток в центах остается в доле владельца
func calculateShares(totalPrice float64, participants int) float64 {
	totalCents := int64(math.Round(totalPrice * 100))
	shareCents := totalCents / int64(participants+1)
	return float64(shareCents) / 100
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}

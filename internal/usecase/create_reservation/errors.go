package create_reservation

import (
	"errors"
	"fmt"

	"github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/dberr"
)

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("create_reservation: court not found")

	// ErrCourtNotInClub возвращается, когда корт принадлежит другому клубу
	ErrCourtNotInClub = errors.New("create_reservation: court does not belong to this club")

	// ErrCourtUnderMaintenance возвращается, когда корт закрыт на обслуживание
	ErrCourtUnderMaintenance = errors.New("create_reservation: court is under maintenance")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_reservation: invalid reservation date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_reservation: date is too far in the future")

	// ErrInvalidTimeRange возвращается, когда время окончания не позже времени начала
	ErrInvalidTimeRange = errors.New("create_reservation: invalid time range")

	// ErrOutsideOperatingHours возвращается, когда диапазон выходит за рабочее окно клуба
	ErrOutsideOperatingHours = errors.New("create_reservation: time range is outside operating hours")

	// ErrTooManyAttendees возвращается, когда число игроков превышает вместимость корта
	ErrTooManyAttendees = errors.New("create_reservation: attendees exceed court capacity")

	// ErrSlotConflict возвращается, когда запрошенный диапазон пересекается с активным бронированием
	ErrSlotConflict = errors.New("create_reservation: slot conflicts with an existing reservation")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")

	// ErrStorageUnavailable возвращается при временной недоступности хранилища
	ErrStorageUnavailable = errors.New("create_reservation: storage temporarily unavailable")
)

// storageErr переводит ошибку хранилища в ошибку usecase:
// недоступность БД отделяется от прочих внутренних ошибок
func storageErr(op string, err error) error {
	if errors.Is(err, dberr.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}

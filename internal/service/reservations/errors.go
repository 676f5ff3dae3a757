package reservations

import (
	"errors"
	"fmt"

	"github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/dberr"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrParticipantNotFound возвращается, когда участник не найден
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyCancelled возвращается при повторной отмене бронирования
	ErrAlreadyCancelled = errors.New("reservation is already cancelled")

	// ErrCannotRespond возвращается, когда на приглашение уже дан ответ
	ErrCannotRespond = errors.New("invitation has already been answered")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")

	// ErrStorageUnavailable возвращается при временной недоступности хранилища
	ErrStorageUnavailable = errors.New("service: storage temporarily unavailable")
)

// storageErr переводит ошибку хранилища в ошибку сервиса:
// недоступность БД отделяется от прочих внутренних ошибок
func storageErr(op string, err error) error {
	if errors.Is(err, dberr.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}

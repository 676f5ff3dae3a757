package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/dberr"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("get_available_slots: invalid date")

	// ErrDateTooFarInFuture возвращается, когда дата за пределами горизонта бронирования
	ErrDateTooFarInFuture = errors.New("get_available_slots: date is too far in the future")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")

	// ErrStorageUnavailable возвращается при временной недоступности хранилища
	ErrStorageUnavailable = errors.New("get_available_slots: storage temporarily unavailable")
)

// storageErr переводит ошибку хранилища в ошибку usecase:
// недоступность БД отделяется от прочих внутренних ошибок
func storageErr(op string, err error) error {
	if errors.Is(err, dberr.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}

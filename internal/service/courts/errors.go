package courts

import (
	"errors"
	"fmt"

	"github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/dberr"
)

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("court not found")

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

package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrSlotConflict возвращается, когда вставка нарушает инвариант непересечения
	// (exclusion constraint reservations_no_overlap)
	ErrSlotConflict = errors.New("reservation.repository: overlapping reservation exists")

	// ErrDuplicateKey возвращается при повторной вставке с тем же idempotency key
	ErrDuplicateKey = errors.New("reservation.repository: duplicate idempotency key")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)

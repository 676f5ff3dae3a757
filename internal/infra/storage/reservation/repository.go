package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	"github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/dberr"
	"github.com/courtflow/CourtFlow-BookingService/pkg/dbmetrics"
	"github.com/courtflow/CourtFlow-BookingService/pkg/psqlbuilder"
)

// Коды ошибок Postgres, которые маппятся на доменные ошибки
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

const noOverlapConstraint = "reservations_no_overlap"

var reservationColumns = []string{
	"id",
	"club_id",
	"court_id",
	"user_id",
	"reservation_date",
	"start_time",
	"end_time",
	"total_price",
	"payment_status",
	"split_payment",
	"open_match",
	"attendees",
	"idempotency_key",
	"cancelled_at",
	"cancellation_reason",
	"cancellation_fee",
	"refund_amount",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте есть активная транзакция (через context.Value), использует её.
//
// Нарушение exclusion constraint reservations_no_overlap возвращается как
// ErrSlotConflict: это страховка инварианта непересечения на случай, если
// проверка в usecase была обойдена или проиграла гонку
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"club_id",
			"court_id",
			"user_id",
			"reservation_date",
			"start_time",
			"end_time",
			"total_price",
			"payment_status",
			"split_payment",
			"open_match",
			"attendees",
			"idempotency_key",
		).
		Values(
			res.ClubID,
			res.CourtID,
			res.UserID,
			res.ReservationDate,
			res.StartTime,
			res.EndTime,
			res.TotalPrice,
			res.PaymentStatus,
			res.SplitPayment,
			res.OpenMatch,
			res.Attendees,
			res.IdempotencyKey,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch string(pqErr.Code) {
			case pgExclusionViolation:
				if pqErr.Constraint == noOverlapConstraint {
					return nil, ErrSlotConflict
				}
			case pgUniqueViolation:
				return nil, ErrDuplicateKey
			}
		}
		return nil, dberr.Wrap(ErrExecQuery, "Create - execute insert", err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByIdempotencyKey получает бронирование по ключу идемпотентности
// Используется для распознавания повторной отправки одной и той же заявки
func (r *Repository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"idempotency_key": key}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIdempotencyKey - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByIdempotencyKey")
}

// GetActiveByCourtAndDate получает все активные (неотмененные) бронирования корта на дату
// Внутри транзакции добавляет FOR UPDATE: это сериализует конкурирующие
// заявки на один корт и дату перед проверкой пересечения
func (r *Repository) GetActiveByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"court_id": courtID}).
		Where(squirrel.Eq{"reservation_date": date}).
		Where(squirrel.Eq{"cancelled_at": nil}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByCourtAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(ErrExecQuery, "GetActiveByCourtAndDate - execute query", err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetActiveByCourtsAndDate получает активные бронирования набора кортов на дату
// Используется резолвером доступности; пустой список courtIDs дает пустой результат
func (r *Repository) GetActiveByCourtsAndDate(ctx context.Context, courtIDs []int64, date time.Time) ([]*domain.Reservation, error) {
	if len(courtIDs) == 0 {
		return []*domain.Reservation{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"court_id": courtIDs}).
		Where(squirrel.Eq{"reservation_date": date}).
		Where(squirrel.Eq{"cancelled_at": nil}).
		OrderBy("court_id ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByCourtsAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(ErrExecQuery, "GetActiveByCourtsAndDate - execute query", err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetByUserID получает историю бронирований пользователя
// Опционально фильтрует по статусу оплаты
func (r *Repository) GetByUserID(ctx context.Context, userID int64, paymentStatus *domain.PaymentStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("reservation_date DESC, start_time DESC")

	if paymentStatus != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"payment_status": *paymentStatus})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(ErrExecQuery, "GetByUserID - execute query", err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetByClubWithFilter получает бронирования клуба с гибкой фильтрацией
// по корту, периоду и включению отмененных
func (r *Repository) GetByClubWithFilter(ctx context.Context, filter domain.ClubReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"club_id": filter.ClubID})

	if filter.CourtID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"court_id": *filter.CourtID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"reservation_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"reservation_date": *filter.EndDate})
	}
	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"cancelled_at": nil})
	}

	// Для одной даты сортируем по времени начала, для периода - сначала новые
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("reservation_date DESC, start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClubWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(ErrExecQuery, "GetByClubWithFilter - execute query", err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// Cancel помечает бронирование отмененным (soft delete)
// Повторная отмена не проходит по условию cancelled_at IS NULL
func (r *Repository) Cancel(ctx context.Context, id int64, reason string, fee, refund float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("cancellation_reason", reason).
		Set("cancellation_fee", fee).
		Set("refund_amount", refund).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"cancelled_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return dberr.Wrap(ErrExecQuery, "Cancel - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return dberr.Wrap(ErrExecQuery, "Cancel - get rows affected", err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// UpdatePaymentStatus обновляет статус оплаты бронирования
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return dberr.Wrap(ErrExecQuery, "UpdatePaymentStatus - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return dberr.Wrap(ErrExecQuery, "UpdatePaymentStatus - get rows affected", err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// scanOne сканирует одну строку в бронирование
func (r *Repository) scanOne(row *sql.Row, op string) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.ClubID,
		&res.CourtID,
		&res.UserID,
		&res.ReservationDate,
		&res.StartTime,
		&res.EndTime,
		&res.TotalPrice,
		&res.PaymentStatus,
		&res.SplitPayment,
		&res.OpenMatch,
		&res.Attendees,
		&res.IdempotencyKey,
		&res.CancelledAt,
		&res.CancellationReason,
		&res.CancellationFee,
		&res.RefundAmount,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(ErrScanRow, op+" - scan reservation", err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var res domain.Reservation
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.ClubID,
			&res.CourtID,
			&res.UserID,
			&res.ReservationDate,
			&res.StartTime,
			&res.EndTime,
			&res.TotalPrice,
			&res.PaymentStatus,
			&res.SplitPayment,
			&res.OpenMatch,
			&res.Attendees,
			&res.IdempotencyKey,
			&res.CancelledAt,
			&res.CancellationReason,
			&res.CancellationFee,
			&res.RefundAmount,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, dberr.Wrap(ErrScanRow, "scanReservations - scan row", err)
		}

		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time

		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(ErrScanRow, "scanReservations - rows error", err)
	}

	return reservations, nil
}

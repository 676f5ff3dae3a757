package participant

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/courtflow/CourtFlow-BookingService/internal/domain"
	"github.com/courtflow/CourtFlow-BookingService/internal/infra/storage/dberr"
	"github.com/courtflow/CourtFlow-BookingService/pkg/dbmetrics"
	"github.com/courtflow/CourtFlow-BookingService/pkg/psqlbuilder"
)

var participantColumns = []string{
	"id",
	"reservation_id",
	"email",
	"user_id",
	"invite_status",
	"share_amount",
	"share_paid",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с участниками бронирований
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория участников
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch создает участников одним INSERT
// Вызывается внутри транзакции создания бронирования: либо бронирование
// и все доли созданы вместе, либо ничего
func (r *Repository) CreateBatch(ctx context.Context, participants []*domain.Participant) error {
	if len(participants) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("participants").
		Columns(
			"reservation_id",
			"email",
			"user_id",
			"invite_status",
			"share_amount",
			"share_paid",
		)

	for _, p := range participants {
		insertBuilder = insertBuilder.Values(
			p.ReservationID,
			p.Email,
			p.UserID,
			p.InviteStatus,
			p.ShareAmount,
			p.SharePaid,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return dberr.Wrap(ErrExecQuery, "CreateBatch - execute insert", err)
	}

	return nil
}

// GetByID получает участника по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Participant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(participantColumns...).
		From("participants").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Participant
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.ReservationID,
		&p.Email,
		&p.UserID,
		&p.InviteStatus,
		&p.ShareAmount,
		&p.SharePaid,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(ErrScanRow, "GetByID - scan participant", err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// GetByReservationID получает всех участников бронирования
func (r *Repository) GetByReservationID(ctx context.Context, reservationID int64) ([]*domain.Participant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(participantColumns...).
		From("participants").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByReservationID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(ErrExecQuery, "GetByReservationID - execute query", err)
	}
	defer rows.Close()

	participants := make([]*domain.Participant, 0)

	for rows.Next() {
		var p domain.Participant
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&p.ID,
			&p.ReservationID,
			&p.Email,
			&p.UserID,
			&p.InviteStatus,
			&p.ShareAmount,
			&p.SharePaid,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, dberr.Wrap(ErrScanRow, "GetByReservationID - scan row", err)
		}

		p.CreatedAt = createdAt.Time
		p.UpdatedAt = updatedAt.Time

		participants = append(participants, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(ErrScanRow, "GetByReservationID - rows error", err)
	}

	return participants, nil
}

// UpdateInviteStatus обновляет статус приглашения
// При принятии приглашения привязывает пользователя к участнику
func (r *Repository) UpdateInviteStatus(ctx context.Context, id int64, status domain.InviteStatus, userID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("participants").
		Set("invite_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if userID != nil {
		updateBuilder = updateBuilder.Set("user_id", *userID)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateInviteStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return dberr.Wrap(ErrExecQuery, "UpdateInviteStatus - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return dberr.Wrap(ErrExecQuery, "UpdateInviteStatus - get rows affected", err)
	}

	if rowsAffected == 0 {
		return ErrParticipantNotFound
	}

	return nil
}

// MarkSharePaid помечает долю участника оплаченной
func (r *Repository) MarkSharePaid(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("participants").
		Set("share_paid", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkSharePaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return dberr.Wrap(ErrExecQuery, "MarkSharePaid - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return dberr.Wrap(ErrExecQuery, "MarkSharePaid - get rows affected", err)
	}

	if rowsAffected == 0 {
		return ErrParticipantNotFound
	}

	return nil
}

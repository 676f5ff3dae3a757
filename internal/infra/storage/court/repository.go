package court

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

var courtColumns = []string{
	"id",
	"club_id",
	"name",
	"sport",
	"capacity",
	"hourly_rate",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с кортами
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория кортов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый корт
func (r *Repository) Create(ctx context.Context, court *domain.Court) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("courts").
		Columns(
			"club_id",
			"name",
			"sport",
			"capacity",
			"hourly_rate",
			"status",
		).
		Values(
			court.ClubID,
			court.Name,
			court.Sport,
			court.Capacity,
			court.HourlyRate,
			court.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&court.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(ErrExecQuery, "Create - execute insert", err)
	}

	court.CreatedAt = createdAt.Time
	court.UpdatedAt = updatedAt.Time

	return court, nil
}

// GetByID получает корт по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(courtColumns...).
		From("courts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var court domain.Court
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&court.ID,
		&court.ClubID,
		&court.Name,
		&court.Sport,
		&court.Capacity,
		&court.HourlyRate,
		&court.Status,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(ErrScanRow, "GetByID - scan court", err)
	}

	court.CreatedAt = createdAt.Time
	court.UpdatedAt = updatedAt.Time

	return &court, nil
}

// ListByClub получает корты клуба
// onlyActive = true исключает корты на обслуживании из результата целиком
// (резолвер доступности не должен видеть их вообще, не просто помечать занятыми)
func (r *Repository) ListByClub(ctx context.Context, clubID int64, sport *domain.Sport, onlyActive bool) ([]*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(courtColumns...).
		From("courts").
		Where(squirrel.Eq{"club_id": clubID}).
		OrderBy("id ASC")

	if sport != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"sport": *sport})
	}
	if onlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.CourtStatusActive})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClub - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(ErrExecQuery, "ListByClub - execute query", err)
	}
	defer rows.Close()

	courts := make([]*domain.Court, 0)

	for rows.Next() {
		var court domain.Court
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&court.ID,
			&court.ClubID,
			&court.Name,
			&court.Sport,
			&court.Capacity,
			&court.HourlyRate,
			&court.Status,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, dberr.Wrap(ErrScanRow, "ListByClub - scan row", err)
		}

		court.CreatedAt = createdAt.Time
		court.UpdatedAt = updatedAt.Time

		courts = append(courts, &court)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(ErrScanRow, "ListByClub - rows error", err)
	}

	return courts, nil
}

// UpdateStatus переключает операционный статус корта (active / maintenance)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.CourtStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("courts").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return dberr.Wrap(ErrExecQuery, "UpdateStatus - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return dberr.Wrap(ErrExecQuery, "UpdateStatus - get rows affected", err)
	}

	if rowsAffected == 0 {
		return ErrCourtNotFound
	}

	return nil
}

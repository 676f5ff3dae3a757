package settings

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

var settingsColumns = []string{
	"id",
	"club_id",
	"open_time",
	"close_time",
	"slot_granularity_minutes",
	"session_duration_minutes",
	"advance_booking_days",
	"cancellation_fee_rate",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с настройками клубов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByClubID получает настройки клуба
// Если у клуба нет своей строки настроек, возвращает ErrSettingsNotFound -
// вызывающий код подставляет domain.DefaultClubSettings
func (r *Repository) GetByClubID(ctx context.Context, clubID int64) (*domain.ClubSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(settingsColumns...).
		From("club_settings").
		Where(squirrel.Eq{"club_id": clubID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByClubID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.ClubSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.ClubID,
		&s.OpenTime,
		&s.CloseTime,
		&s.SlotGranularityMinutes,
		&s.SessionDurationMinutes,
		&s.AdvanceBookingDays,
		&s.CancellationFeeRate,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(ErrScanRow, "GetByClubID - scan settings", err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// Upsert создает или обновляет настройки клуба
func (r *Repository) Upsert(ctx context.Context, s *domain.ClubSettings) (*domain.ClubSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("club_settings").
		Columns(
			"club_id",
			"open_time",
			"close_time",
			"slot_granularity_minutes",
			"session_duration_minutes",
			"advance_booking_days",
			"cancellation_fee_rate",
		).
		Values(
			s.ClubID,
			s.OpenTime,
			s.CloseTime,
			s.SlotGranularityMinutes,
			s.SessionDurationMinutes,
			s.AdvanceBookingDays,
			s.CancellationFeeRate,
		).
		Suffix(`ON CONFLICT (club_id) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			session_duration_minutes = EXCLUDED.session_duration_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			cancellation_fee_rate = EXCLUDED.cancellation_fee_rate,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(ErrExecQuery, "Upsert - execute upsert", err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

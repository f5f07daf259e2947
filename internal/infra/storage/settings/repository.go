package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Ivand14/TurnoYa-sub000/internal/domain"
	"github.com/Ivand14/TurnoYa-sub000/pkg/dbmetrics"
	"github.com/Ivand14/TurnoYa-sub000/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с настройками расписания бизнеса
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusinessID получает настройки расписания бизнеса вместе с blackout-датами
func (r *Repository) GetByBusinessID(ctx context.Context, businessID int64) (*domain.ScheduleSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"slot_duration_minutes",
		"break_between_slots_minutes",
		"default_capacity",
		"capacity_mode",
		"allow_overflow",
		"advance_booking_days",
		"min_booking_notice_minutes",
		"created_at",
		"updated_at",
	).
		From("schedule_settings").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.ScheduleSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.BusinessID,
		&s.SlotDurationMinutes,
		&s.BreakBetweenSlotsMinutes,
		&s.DefaultCapacity,
		&s.CapacityMode,
		&s.AllowOverflow,
		&s.AdvanceBookingDays,
		&s.MinBookingNoticeMinutes,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessID - scan settings: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	blackouts, err := r.getBlackoutDates(ctx, businessID)
	if err != nil {
		return nil, err
	}
	s.BlackoutDates = blackouts

	return &s, nil
}

// Upsert создает или обновляет настройки расписания бизнеса
// Blackout-даты заменяются целиком на переданный список
func (r *Repository) Upsert(ctx context.Context, s *domain.ScheduleSettings) (*domain.ScheduleSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedule_settings").
		Columns(
			"business_id",
			"slot_duration_minutes",
			"break_between_slots_minutes",
			"default_capacity",
			"capacity_mode",
			"allow_overflow",
			"advance_booking_days",
			"min_booking_notice_minutes",
		).
		Values(
			s.BusinessID,
			s.SlotDurationMinutes,
			s.BreakBetweenSlotsMinutes,
			s.DefaultCapacity,
			s.CapacityMode,
			s.AllowOverflow,
			s.AdvanceBookingDays,
			s.MinBookingNoticeMinutes,
		).
		Suffix(`ON CONFLICT (business_id) DO UPDATE SET
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			break_between_slots_minutes = EXCLUDED.break_between_slots_minutes,
			default_capacity = EXCLUDED.default_capacity,
			capacity_mode = EXCLUDED.capacity_mode,
			allow_overflow = EXCLUDED.allow_overflow,
			advance_booking_days = EXCLUDED.advance_booking_days,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	if err := r.replaceBlackoutDates(ctx, s.BusinessID, s.BlackoutDates); err != nil {
		return nil, err
	}

	return s, nil
}

// getBlackoutDates получает blackout-даты бизнеса, отсортированные по дате
func (r *Repository) getBlackoutDates(ctx context.Context, businessID int64) ([]domain.BlackoutDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("blackout_date", "reason").
		From("business_blackout_dates").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("blackout_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getBlackoutDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getBlackoutDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blackouts := make([]domain.BlackoutDate, 0)
	for rows.Next() {
		var b domain.BlackoutDate
		var date sql.NullTime

		if err := rows.Scan(&date, &b.Reason); err != nil {
			return nil, fmt.Errorf("%w: getBlackoutDates - scan row: %v", ErrScanRow, err)
		}

		b.Date = date.Time.Format(domain.DateFormat)
		blackouts = append(blackouts, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getBlackoutDates - rows error: %v", ErrScanRow, err)
	}

	return blackouts, nil
}

// replaceBlackoutDates заменяет blackout-даты бизнеса на переданный список
func (r *Repository) replaceBlackoutDates(ctx context.Context, businessID int64, blackouts []domain.BlackoutDate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("business_blackout_dates").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: replaceBlackoutDates - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceBlackoutDates - execute delete: %v", ErrExecQuery, err)
	}

	if len(blackouts) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("business_blackout_dates").
		Columns("business_id", "blackout_date", "reason")

	for _, b := range blackouts {
		insertBuilder = insertBuilder.Values(businessID, b.Date, b.Reason)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceBlackoutDates - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceBlackoutDates - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	"github.com/totalboostmarketing/reservation-system/pkg/dbmetrics"
	"github.com/totalboostmarketing/reservation-system/pkg/psqlbuilder"
)

// Repository репозиторий салонов: сам салон, режим работы, выходные и мастера
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория салонов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает салон по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Store, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "address", "phone", "email", "bed_count", "is_active").
		From("stores").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Store
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.Name,
		&s.Address,
		&s.Phone,
		&s.Email,
		&s.BedCount,
		&s.IsActive,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan store: %w", ErrScanRow, err)
	}

	return &s, nil
}

// GetBusinessHour получает режим работы салона на день недели
func (r *Repository) GetBusinessHour(ctx context.Context, storeID int64, day time.Weekday) (*domain.BusinessHour, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("store_id", "day_of_week", "open_time", "close_time", "is_open").
		From("business_hours").
		Where(squirrel.Eq{"store_id": storeID, "day_of_week": int(day)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHour - build select query: %v", ErrBuildQuery, err)
	}

	var (
		bh        domain.BusinessHour
		dayOfWeek int
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&bh.StoreID,
		&dayOfWeek,
		&bh.OpenTime,
		&bh.CloseTime,
		&bh.IsOpen,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessHourNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHour - scan business hour: %w", ErrScanRow, err)
	}

	bh.DayOfWeek = time.Weekday(dayOfWeek)
	return &bh, nil
}

// IsHoliday проверяет, является ли дата выходным днем салона
func (r *Repository) IsHoliday(ctx context.Context, storeID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("holidays").
		Where(squirrel.Eq{"store_id": storeID, "date": date.Format(domain.DateFormat)}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: IsHoliday - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: IsHoliday - execute query: %w", ErrExecQuery, err)
	}

	return true, nil
}

// ListActiveStaff получает активных мастеров салона в порядке отображения
func (r *Repository) ListActiveStaff(ctx context.Context, storeID int64) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "store_id", "name", "is_active", "display_order").
		From("staff").
		Where(squirrel.Eq{"store_id": storeID, "is_active": true}).
		OrderBy("display_order ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaff - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	staff := make([]*domain.Staff, 0)
	for rows.Next() {
		var s domain.Staff
		if err := rows.Scan(&s.ID, &s.StoreID, &s.Name, &s.IsActive, &s.DisplayOrder); err != nil {
			return nil, fmt.Errorf("%w: ListActiveStaff - scan row: %w", ErrScanRow, err)
		}
		staff = append(staff, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaff - rows error: %w", ErrScanRow, err)
	}

	return staff, nil
}

// GetStaff получает мастера по ID (включая неактивных)
func (r *Repository) GetStaff(ctx context.Context, id int64) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "store_id", "name", "is_active", "display_order").
		From("staff").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Staff
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.StoreID, &s.Name, &s.IsActive, &s.DisplayOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - scan staff: %w", ErrScanRow, err)
	}

	return &s, nil
}

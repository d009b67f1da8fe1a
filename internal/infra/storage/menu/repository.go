package menu

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	"github.com/totalboostmarketing/reservation-system/pkg/dbmetrics"
	"github.com/totalboostmarketing/reservation-system/pkg/psqlbuilder"
)

// Repository репозиторий меню (услуг)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория меню
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает меню по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Menu, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"price",
		"tax_rate",
		"duration",
		"buffer_before",
		"buffer_after",
		"is_active",
	).
		From("menus").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var m domain.Menu
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&m.ID,
		&m.Name,
		&m.Price,
		&m.TaxRate,
		&m.Duration,
		&m.BufferBefore,
		&m.BufferAfter,
		&m.IsActive,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan menu: %w", ErrScanRow, err)
	}

	return &m, nil
}

package discount

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	"github.com/totalboostmarketing/reservation-system/pkg/dbmetrics"
	"github.com/totalboostmarketing/reservation-system/pkg/psqlbuilder"
)

// Repository репозиторий купонов и кампаний
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория скидок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetCouponByCode получает купон по коду (без учета регистра) вместе с областью действия
func (r *Repository) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"c.id",
		"c.code",
		"c.name",
		"c.discount_type",
		"c.discount_value",
		"c.start_date",
		"c.end_date",
		"c.is_active",
		"c.max_usage_total",
		"c.usage_count",
		"c.min_purchase",
		"ARRAY(SELECT cs.store_id FROM coupon_stores cs WHERE cs.coupon_id = c.id ORDER BY cs.store_id)",
		"ARRAY(SELECT cm.menu_id FROM coupon_menus cm WHERE cm.coupon_id = c.id ORDER BY cm.menu_id)",
	).
		From("coupons c").
		Where(squirrel.Eq{"UPPER(c.code)": strings.ToUpper(strings.TrimSpace(code))}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCouponByCode - build select query: %v", ErrBuildQuery, err)
	}

	var (
		c                 domain.Coupon
		maxUsage, minBuy  sql.NullInt64
		storeIDs, menuIDs pq.Int64Array
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.Code,
		&c.Name,
		&c.DiscountType,
		&c.DiscountValue,
		&c.StartDate,
		&c.EndDate,
		&c.IsActive,
		&maxUsage,
		&c.UsageCount,
		&minBuy,
		&storeIDs,
		&menuIDs,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCouponByCode - scan coupon: %w", ErrScanRow, err)
	}

	if maxUsage.Valid {
		c.MaxUsageTotal = &maxUsage.Int64
	}
	if minBuy.Valid {
		c.MinPurchase = &minBuy.Int64
	}
	c.StoreIDs = []int64(storeIDs)
	c.MenuIDs = []int64(menuIDs)

	return &c, nil
}

// RedeemCoupon атомарно увеличивает счетчик использований купона.
// Условие в WHERE не дает превысить max_usage_total при конкурентных бронированиях:
// если лимит уже исчерпан, возвращает false и ничего не меняет.
func (r *Repository) RedeemCoupon(ctx context.Context, couponID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("coupons").
		Set("usage_count", squirrel.Expr("usage_count + 1")).
		Where(squirrel.Eq{"id": couponID}).
		Where(squirrel.Or{
			squirrel.Eq{"max_usage_total": nil},
			squirrel.Expr("usage_count < max_usage_total"),
		}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: RedeemCoupon - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: RedeemCoupon - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: RedeemCoupon - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected == 1, nil
}

// ListActiveCampaigns получает активные кампании, действующие в момент now
func (r *Repository) ListActiveCampaigns(ctx context.Context, now time.Time) ([]*domain.Campaign, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"c.id",
		"c.name",
		"c.discount_type",
		"c.discount_value",
		"c.start_date",
		"c.end_date",
		"c.is_active",
		"c.created_at",
		"ARRAY(SELECT cs.store_id FROM campaign_stores cs WHERE cs.campaign_id = c.id ORDER BY cs.store_id)",
		"ARRAY(SELECT cm.menu_id FROM campaign_menus cm WHERE cm.campaign_id = c.id ORDER BY cm.menu_id)",
	).
		From("campaigns c").
		Where(squirrel.Eq{"c.is_active": true}).
		Where(squirrel.LtOrEq{"c.start_date": now}).
		Where(squirrel.GtOrEq{"c.end_date": now}).
		OrderBy("c.discount_value DESC", "c.created_at DESC", "c.id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveCampaigns - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveCampaigns - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	campaigns := make([]*domain.Campaign, 0)
	for rows.Next() {
		var (
			c                 domain.Campaign
			storeIDs, menuIDs pq.Int64Array
		)
		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.DiscountType,
			&c.DiscountValue,
			&c.StartDate,
			&c.EndDate,
			&c.IsActive,
			&c.CreatedAt,
			&storeIDs,
			&menuIDs,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveCampaigns - scan row: %w", ErrScanRow, err)
		}
		c.StoreIDs = []int64(storeIDs)
		c.MenuIDs = []int64(menuIDs)
		campaigns = append(campaigns, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveCampaigns - rows error: %w", ErrScanRow, err)
	}

	return campaigns, nil
}

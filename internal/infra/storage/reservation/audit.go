package reservation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	"github.com/totalboostmarketing/reservation-system/pkg/dbmetrics"
	"github.com/totalboostmarketing/reservation-system/pkg/psqlbuilder"
)

// InsertAuditLog добавляет запись в журнал изменений бронирования
func (r *Repository) InsertAuditLog(ctx context.Context, entry *domain.AuditLog) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("%w: InsertAuditLog - marshal changes: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("reservation_audit_logs").
		Columns("reservation_id", "action", "changes", "performed_by").
		Values(entry.ReservationID, entry.Action, changes, entry.PerformedBy).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: InsertAuditLog - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt); err != nil {
		return fmt.Errorf("%w: InsertAuditLog - execute insert: %w", ErrExecQuery, err)
	}
	entry.CreatedAt = createdAt.Time

	return nil
}

// ListAuditLogs получает журнал изменений бронирования в хронологическом порядке
func (r *Repository) ListAuditLogs(ctx context.Context, reservationID int64) ([]*domain.AuditLog, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "reservation_id", "action", "changes", "performed_by", "created_at").
		From("reservation_audit_logs").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListAuditLogs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAuditLogs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	logs := make([]*domain.AuditLog, 0)
	for rows.Next() {
		var (
			entry   domain.AuditLog
			changes []byte
		)
		if err := rows.Scan(&entry.ID, &entry.ReservationID, &entry.Action, &changes, &entry.PerformedBy, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListAuditLogs - scan row: %w", ErrScanRow, err)
		}
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &entry.Changes); err != nil {
				return nil, fmt.Errorf("%w: ListAuditLogs - unmarshal changes: %w", ErrScanRow, err)
			}
		}
		logs = append(logs, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAuditLogs - rows error: %w", ErrScanRow, err)
	}

	return logs, nil
}

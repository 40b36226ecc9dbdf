// Package ledger_repo provides the PostgreSQL implementation of the
// stock movement ledger. Inserts only; the table has no UPDATE or DELETE
// path in the application role.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/ledger"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres"
)

const movementTable = "reg_stock_movements"

// Compile-time check.
var _ ledger.Repository = (*MovementRepo)(nil)

// MovementRepo implements ledger.Repository.
type MovementRepo struct {
	postgres.Repo
	cols  []string
	batch *postgres.BatchInserter
}

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(tm *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		Repo:  postgres.NewRepo(tm),
		cols:  postgres.ExtractDBColumns[ledger.Movement](),
		batch: postgres.NewBatchInserter(tm),
	}
}

// Record batch inserts movements via the COPY protocol. Must run inside
// the same transaction as the state change that produced them.
func (r *MovementRepo) Record(ctx context.Context, movements []ledger.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(movements))
	for i := range movements {
		data := postgres.StructToMap(&movements[i])
		row := make([]any, len(r.cols))
		for j, col := range r.cols {
			row[j] = data[col]
		}
		rows = append(rows, row)
	}

	n, err := r.batch.CopyFromSlice(ctx, movementTable, r.cols, rows)
	if err != nil {
		return fmt.Errorf("copy movements: %w", err)
	}
	if n != int64(len(movements)) {
		return fmt.Errorf("copy movements: expected %d rows, wrote %d", len(movements), n)
	}
	return nil
}

func (r *MovementRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.cols...).From(movementTable)
}

// ListByIMEI returns the full movement history for an IMEI in
// chronological order.
func (r *MovementRepo) ListByIMEI(ctx context.Context, im imei.IMEI) ([]ledger.Movement, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"imei": im.String()}).
		OrderBy("occurred_at ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []ledger.Movement
	if err := pgxscan.Select(ctx, r.Querier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements by imei: %w", err)
	}
	return movements, nil
}

// SumQuantityByIMEI replays the quantity changes for an IMEI.
func (r *MovementRepo) SumQuantityByIMEI(ctx context.Context, im imei.IMEI) (int64, error) {
	sql, args, err := r.Builder().
		Select("COALESCE(SUM(quantity_change), 0)").
		From(movementTable).
		Where(squirrel.Eq{"imei": im.String()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var sum int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

// List returns movements matching the filter, newest first.
func (r *MovementRepo) List(ctx context.Context, filter ledger.Filter) ([]ledger.Movement, error) {
	q := r.baseSelect()
	if filter.IMEI != nil {
		q = q.Where(squirrel.Eq{"imei": filter.IMEI.String()})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"movement_type": string(*filter.Type)})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"occurred_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"occurred_at": *filter.ToDate})
	}
	q = q.OrderBy("occurred_at DESC", "created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []ledger.Movement
	if err := pgxscan.Select(ctx, r.Querier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}

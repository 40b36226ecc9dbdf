// Package inventory_repo provides the PostgreSQL implementation of the
// inventory unit repository.
package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/inventory"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres"
)

const unitTable = "inv_units"

// Compile-time check.
var _ inventory.Repository = (*UnitRepo)(nil)

// UnitRepo implements inventory.Repository.
type UnitRepo struct {
	postgres.Repo
	cols  []string
	batch *postgres.BatchInserter
}

// NewUnitRepo creates a new unit repository.
func NewUnitRepo(tm *postgres.TxManager) *UnitRepo {
	return &UnitRepo{
		Repo:  postgres.NewRepo(tm),
		cols:  postgres.ExtractDBColumns[inventory.Unit](),
		batch: postgres.NewBatchInserter(tm),
	}
}

// CreateBatch inserts newly received units via the COPY protocol. Must run
// inside the intake transaction.
func (r *UnitRepo) CreateBatch(ctx context.Context, units []*inventory.Unit) error {
	if len(units) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(units))
	for _, u := range units {
		data := postgres.StructToMap(u)
		row := make([]any, len(r.cols))
		for i, col := range r.cols {
			row[i] = data[col]
		}
		rows = append(rows, row)
	}

	n, err := r.batch.CopyFromSlice(ctx, unitTable, r.cols, rows)
	if err != nil {
		return fmt.Errorf("copy units: %w", err)
	}
	if n != int64(len(units)) {
		return fmt.Errorf("copy units: expected %d rows, wrote %d", len(units), n)
	}
	return nil
}

func (r *UnitRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.cols...).From(unitTable)
}

func (r *UnitRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key any) (*inventory.Unit, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u inventory.Unit
	if err := pgxscan.Get(ctx, r.Querier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory unit", key)
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &u, nil
}

// GetByID retrieves a unit by primary key.
func (r *UnitRepo) GetByID(ctx context.Context, unitID id.ID) (*inventory.Unit, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": unitID}).Limit(1)
	return r.getOne(ctx, q, unitID.String())
}

// GetByIMEI retrieves a unit by its IMEI.
func (r *UnitRepo) GetByIMEI(ctx context.Context, im imei.IMEI) (*inventory.Unit, error) {
	q := r.baseSelect().Where(squirrel.Eq{"imei": im.String()}).Limit(1)
	return r.getOne(ctx, q, im.String())
}

// GetByIMEIs bulk-reads units for a set of IMEIs in one query.
func (r *UnitRepo) GetByIMEIs(ctx context.Context, ims []imei.IMEI) (map[imei.IMEI]*inventory.Unit, error) {
	result := make(map[imei.IMEI]*inventory.Unit, len(ims))
	if len(ims) == 0 {
		return result, nil
	}

	raw := make([]string, len(ims))
	for i, im := range ims {
		raw[i] = im.String()
	}

	sql, args, err := r.baseSelect().Where(squirrel.Eq{"imei": raw}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var units []*inventory.Unit
	if err := pgxscan.Select(ctx, r.Querier(ctx), &units, sql, args...); err != nil {
		return nil, fmt.Errorf("get units by imeis: %w", err)
	}
	for _, u := range units {
		result[u.IMEI] = u
	}
	return result, nil
}

// GetForUpdate retrieves a unit with a row lock.
func (r *UnitRepo) GetForUpdate(ctx context.Context, unitID id.ID) (*inventory.Unit, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": unitID}).Suffix("FOR UPDATE").Limit(1)
	return r.getOne(ctx, q, unitID.String())
}

// GetForUpdateByIMEI retrieves a unit by IMEI with a row lock.
func (r *UnitRepo) GetForUpdateByIMEI(ctx context.Context, im imei.IMEI) (*inventory.Unit, error) {
	q := r.baseSelect().Where(squirrel.Eq{"imei": im.String()}).Suffix("FOR UPDATE").Limit(1)
	return r.getOne(ctx, q, im.String())
}

// Update writes a modified unit with optimistic locking.
func (r *UnitRepo) Update(ctx context.Context, unit *inventory.Unit) error {
	return r.UpdateWithVersion(ctx, unitTable, r.cols, unit)
}

// List retrieves units with filtering and pagination.
func (r *UnitRepo) List(ctx context.Context, filter inventory.ListFilter) (inventory.ListResult, error) {
	result := inventory.ListResult{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	apply := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.Status != nil {
			q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
		}
		if filter.ProductID != nil {
			q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
		}
		if filter.Location != "" {
			q = q.Where(squirrel.Eq{"current_location": filter.Location})
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			q = q.Where(squirrel.Or{
				squirrel.ILike{"imei": pattern},
				squirrel.ILike{"product_name": pattern},
				squirrel.ILike{"sku": pattern},
			})
		}
		return q
	}

	countSQL, countArgs, err := apply(r.Builder().Select("COUNT(*)").From(unitTable)).ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := r.Querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count units: %w", err)
	}

	q := apply(r.baseSelect()).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list units: %w", err)
	}

	return result, nil
}

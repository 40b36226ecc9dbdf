// Package order_repo provides PostgreSQL implementations for the intake
// and sales order repositories.
package order_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/intake"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres"
)

const (
	poTable     = "doc_purchase_orders"
	poLineTable = "doc_purchase_order_lines"
)

// Compile-time check.
var _ intake.Repository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implements intake.Repository.
type PurchaseOrderRepo struct {
	postgres.Repo
	cols []string
}

// NewPurchaseOrderRepo creates a new purchase order repository.
func NewPurchaseOrderRepo(tm *postgres.TxManager) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{
		Repo: postgres.NewRepo(tm),
		cols: postgres.ExtractDBColumns[intake.PurchaseOrder](),
	}
}

// Create inserts the purchase order header and its lines.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *intake.PurchaseOrder) error {
	if err := r.Insert(ctx, poTable, r.cols, po); err != nil {
		return err
	}

	for _, line := range po.Lines {
		sql, args, err := r.Builder().
			Insert(poLineTable).
			Columns("id", "purchase_order_id", "line_no", "product_id", "variant_id", "unit_cost", "quantity").
			Values(line.ID, po.ID, line.LineNo, line.ProductID, line.VariantID, line.UnitCost, line.Quantity).
			ToSql()
		if err != nil {
			return fmt.Errorf("build line insert: %w", err)
		}
		if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert purchase order line: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a purchase order with lines. Line IMEIs are
// reconstructed from the unit records the order spawned.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, poID id.ID) (*intake.PurchaseOrder, error) {
	sql, args, err := r.Builder().
		Select(r.cols...).
		From(poTable).
		Where(squirrel.Eq{"id": poID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var po intake.PurchaseOrder
	if err := pgxscan.Get(ctx, r.Querier(ctx), &po, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase order", poID.String())
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}

	lineSQL, lineArgs, err := r.Builder().
		Select("id", "line_no", "product_id", "variant_id", "unit_cost", "quantity").
		From(poLineTable).
		Where(squirrel.Eq{"purchase_order_id": poID}).
		OrderBy("line_no ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &po.Lines, lineSQL, lineArgs...); err != nil {
		return nil, fmt.Errorf("get purchase order lines: %w", err)
	}

	if err := r.fillLineIMEIs(ctx, &po); err != nil {
		return nil, err
	}

	return &po, nil
}

// fillLineIMEIs loads the IMEIs of the units spawned by the order and
// distributes them back onto the matching variant lines.
func (r *PurchaseOrderRepo) fillLineIMEIs(ctx context.Context, po *intake.PurchaseOrder) error {
	sql, args, err := r.Builder().
		Select("imei", "product_id", "variant_id").
		From("inv_units").
		Where(squirrel.Eq{"purchase_order_id": po.ID}).
		OrderBy("imei ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build units query: %w", err)
	}

	var rows []struct {
		IMEI      imei.IMEI `db:"imei"`
		ProductID id.ID     `db:"product_id"`
		VariantID id.ID     `db:"variant_id"`
	}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &rows, sql, args...); err != nil {
		return fmt.Errorf("get order units: %w", err)
	}

	for _, row := range rows {
		for i := range po.Lines {
			if po.Lines[i].ProductID == row.ProductID && po.Lines[i].VariantID == row.VariantID {
				po.Lines[i].IMEIs = append(po.Lines[i].IMEIs, row.IMEI)
				break
			}
		}
	}
	return nil
}

// List retrieves purchase orders, newest first.
func (r *PurchaseOrderRepo) List(ctx context.Context, filter intake.ListFilter) (intake.ListResult, error) {
	result := intake.ListResult{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	apply := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.Supplier != "" {
			q = q.Where(squirrel.ILike{"supplier_name": "%" + filter.Supplier + "%"})
		}
		return q
	}

	countSQL, countArgs, err := apply(r.Builder().Select("COUNT(*)").From(poTable)).ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := r.Querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count purchase orders: %w", err)
	}

	sql, args, err := apply(r.Builder().Select(r.cols...).From(poTable)).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list purchase orders: %w", err)
	}

	return result, nil
}

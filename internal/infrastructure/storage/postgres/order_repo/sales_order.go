package order_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/sales"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres"
)

const (
	soTable     = "doc_sales_orders"
	soLineTable = "doc_sales_order_lines"
)

// Compile-time check.
var _ sales.Repository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implements sales.Repository.
type SalesOrderRepo struct {
	postgres.Repo
	cols     []string
	lineCols []string
}

// NewSalesOrderRepo creates a new sales order repository.
func NewSalesOrderRepo(tm *postgres.TxManager) *SalesOrderRepo {
	return &SalesOrderRepo{
		Repo:     postgres.NewRepo(tm),
		cols:     postgres.ExtractDBColumns[sales.SalesOrder](),
		lineCols: postgres.ExtractDBColumns[sales.Line](),
	}
}

// Create inserts the order header and its lines. Orders are immutable
// after this point.
func (r *SalesOrderRepo) Create(ctx context.Context, order *sales.SalesOrder) error {
	if !order.Totals().Consistent() {
		return apperror.NewValidation("order totals are inconsistent").
			WithDetail("number", order.Number)
	}

	if err := r.Insert(ctx, soTable, r.cols, order); err != nil {
		return err
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		data := postgres.StructToMap(line)
		data["sales_order_id"] = order.ID

		sql, args, err := r.Builder().Insert(soLineTable).SetMap(data).ToSql()
		if err != nil {
			return fmt.Errorf("build line insert: %w", err)
		}
		if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert sales order line: %w", err)
		}
	}

	return nil
}

// GetByID retrieves an order with lines.
func (r *SalesOrderRepo) GetByID(ctx context.Context, orderID id.ID) (*sales.SalesOrder, error) {
	sql, args, err := r.Builder().
		Select(r.cols...).
		From(soTable).
		Where(squirrel.Eq{"id": orderID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var order sales.SalesOrder
	if err := pgxscan.Get(ctx, r.Querier(ctx), &order, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sales order", orderID.String())
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}

	lineSQL, lineArgs, err := r.Builder().
		Select(r.lineCols...).
		From(soLineTable).
		Where(squirrel.Eq{"sales_order_id": orderID}).
		OrderBy("line_no ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &order.Lines, lineSQL, lineArgs...); err != nil {
		return nil, fmt.Errorf("get sales order lines: %w", err)
	}

	return &order, nil
}

// List retrieves orders, newest first.
func (r *SalesOrderRepo) List(ctx context.Context, filter sales.ListFilter) (sales.ListResult, error) {
	result := sales.ListResult{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	apply := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.CustomerID != nil {
			q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
		}
		if filter.FromDate != nil {
			q = q.Where(squirrel.GtOrEq{"sale_date": *filter.FromDate})
		}
		if filter.ToDate != nil {
			q = q.Where(squirrel.LtOrEq{"sale_date": *filter.ToDate})
		}
		return q
	}

	countSQL, countArgs, err := apply(r.Builder().Select("COUNT(*)").From(soTable)).ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := r.Querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count sales orders: %w", err)
	}

	sql, args, err := apply(r.Builder().Select(r.cols...).From(soTable)).
		OrderBy("sale_date DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list sales orders: %w", err)
	}

	return result, nil
}

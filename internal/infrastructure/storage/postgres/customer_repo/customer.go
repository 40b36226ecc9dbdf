// Package customer_repo provides the PostgreSQL implementation of the
// customer aggregate repository.
package customer_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/customer"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres"
)

const (
	customerTable      = "cat_customers"
	returnHistoryTable = "cat_customer_return_history"
)

// Compile-time check.
var _ customer.Repository = (*CustomerRepo)(nil)

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	postgres.Repo
	cols []string
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(tm *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		Repo: postgres.NewRepo(tm),
		cols: postgres.ExtractDBColumns[customer.Customer](),
	}
}

// Create inserts a new customer.
func (r *CustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	return r.Insert(ctx, customerTable, r.cols, c)
}

func (r *CustomerRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key any) (*customer.Customer, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c customer.Customer
	if err := pgxscan.Get(ctx, r.Querier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("customer", key)
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.cols...).From(customerTable)
}

// GetByID retrieves a customer by primary key.
func (r *CustomerRepo) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": customerID}).Limit(1)
	return r.getOne(ctx, q, customerID.String())
}

// FindByPhone retrieves a customer by phone number.
func (r *CustomerRepo) FindByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	q := r.baseSelect().Where(squirrel.Eq{"phone": phone}).Limit(1)
	return r.getOne(ctx, q, phone)
}

// GetForUpdate retrieves a customer with a row lock for the aggregate
// read-modify-write inside the sale transaction.
func (r *CustomerRepo) GetForUpdate(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": customerID}).Suffix("FOR UPDATE").Limit(1)
	return r.getOne(ctx, q, customerID.String())
}

// Update writes a modified customer with optimistic locking.
func (r *CustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	return r.UpdateWithVersion(ctx, customerTable, r.cols, c)
}

// AppendReturnHistory records an approved return for the customer.
func (r *CustomerRepo) AppendReturnHistory(ctx context.Context, entry customer.ReturnHistoryEntry) error {
	data := postgres.StructToMap(&entry)

	sql, args, err := r.Builder().Insert(returnHistoryTable).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert return history: %w", err)
	}
	return nil
}

// Package return_repo provides the PostgreSQL implementation of the
// return request repository.
package return_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/returns"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres"
)

const requestTable = "doc_return_requests"

// Compile-time check.
var _ returns.Repository = (*RequestRepo)(nil)

// RequestRepo implements returns.Repository.
type RequestRepo struct {
	postgres.Repo
	cols []string
}

// NewRequestRepo creates a new return request repository.
func NewRequestRepo(tm *postgres.TxManager) *RequestRepo {
	return &RequestRepo{
		Repo: postgres.NewRepo(tm),
		cols: postgres.ExtractDBColumns[returns.Request](),
	}
}

// Create inserts a new pending request.
func (r *RequestRepo) Create(ctx context.Context, req *returns.Request) error {
	return r.Insert(ctx, requestTable, r.cols, req)
}

func (r *RequestRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.cols...).From(requestTable)
}

func (r *RequestRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key any) (*returns.Request, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var req returns.Request
	if err := pgxscan.Get(ctx, r.Querier(ctx), &req, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("return request", key)
		}
		return nil, fmt.Errorf("get return request: %w", err)
	}
	return &req, nil
}

// GetByID retrieves a request by primary key.
func (r *RequestRepo) GetByID(ctx context.Context, reqID id.ID) (*returns.Request, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": reqID}).Limit(1)
	return r.getOne(ctx, q, reqID.String())
}

// GetForUpdate retrieves a request with a row lock for processing.
func (r *RequestRepo) GetForUpdate(ctx context.Context, reqID id.ID) (*returns.Request, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": reqID}).Suffix("FOR UPDATE").Limit(1)
	return r.getOne(ctx, q, reqID.String())
}

// HasPendingForIMEI reports whether a pending request already exists for
// the IMEI.
func (r *RequestRepo) HasPendingForIMEI(ctx context.Context, im imei.IMEI) (bool, error) {
	sql, args, err := r.Builder().
		Select("COUNT(*)").
		From(requestTable).
		Where(squirrel.Eq{"imei": im.String()}).
		Where(squirrel.Eq{"status": string(returns.StatusPending)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var count int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("count pending requests: %w", err)
	}
	return count > 0, nil
}

// Update writes a processed request with optimistic locking.
func (r *RequestRepo) Update(ctx context.Context, req *returns.Request) error {
	return r.UpdateWithVersion(ctx, requestTable, r.cols, req)
}

// List retrieves requests, newest first.
func (r *RequestRepo) List(ctx context.Context, filter returns.ListFilter) (returns.ListResult, error) {
	result := returns.ListResult{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	apply := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.Status != nil {
			q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
		}
		if filter.IMEI != nil {
			q = q.Where(squirrel.Eq{"imei": filter.IMEI.String()})
		}
		return q
	}

	countSQL, countArgs, err := apply(r.Builder().Select("COUNT(*)").From(requestTable)).ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := r.Querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count return requests: %w", err)
	}

	sql, args, err := apply(r.baseSelect()).
		OrderBy("requested_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list return requests: %w", err)
	}

	return result, nil
}

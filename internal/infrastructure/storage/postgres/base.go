package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
)

// Repo is the embeddable base for table repositories: squirrel builder
// plus transaction-aware querier resolution.
type Repo struct {
	tm *TxManager
}

// NewRepo creates a repo base bound to a transaction manager.
func NewRepo(tm *TxManager) Repo {
	return Repo{tm: tm}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r Repo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Querier returns the active transaction from context, or the pool.
func (r Repo) Querier(ctx context.Context) Querier {
	return r.tm.GetQuerier(ctx)
}

// TxManager returns the underlying transaction manager.
func (r Repo) TxManager() *TxManager {
	return r.tm
}

// Insert writes a new row using the entity's "db" tags, restricted to the
// known column set.
func (r Repo) Insert(ctx context.Context, table string, cols []string, entity any) error {
	data := StructToMap(entity)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	filtered := make(map[string]any, len(cols))
	for _, col := range cols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.Builder().Insert(table).SetMap(filtered).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// UpdateWithVersion writes a modified row with optimistic locking. The
// caller has already bumped the entity version (Touch); the previous
// version is the lock expectation in the WHERE clause.
func (r Repo) UpdateWithVersion(ctx context.Context, table string, cols []string, entity any) error {
	data := StructToMap(entity)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	entityID, ok := data["id"]
	if !ok {
		return fmt.Errorf("entity has no 'id' field with db tag")
	}
	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("entity has no 'version' field or it is not an int")
	}

	filtered := make(map[string]any, len(cols))
	for _, col := range cols {
		if col == "id" {
			continue // never update ID
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.Builder().
		Update(table).
		SetMap(filtered).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"version": version - 1}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(table, entityID)
	}
	return nil
}

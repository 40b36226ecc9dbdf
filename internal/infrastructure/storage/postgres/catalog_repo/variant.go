// Package catalog_repo provides the PostgreSQL-backed variant directory.
// The catalog tables are owned by the storefront; this repository only
// reads the descriptor fields the inventory core snapshots.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/catalog"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ catalog.Directory = (*VariantRepo)(nil)

// VariantRepo implements catalog.Directory over the catalog tables.
type VariantRepo struct {
	postgres.Repo
}

// NewVariantRepo creates a new variant directory repository.
func NewVariantRepo(tm *postgres.TxManager) *VariantRepo {
	return &VariantRepo{Repo: postgres.NewRepo(tm)}
}

// ResolveVariant returns the descriptor for (productID, variantID).
func (r *VariantRepo) ResolveVariant(ctx context.Context, productID, variantID id.ID) (catalog.VariantDescriptor, error) {
	sql, args, err := r.Builder().
		Select(
			"p.id AS product_id",
			"v.id AS variant_id",
			"p.name AS product_name",
			"v.sku",
			"v.color",
			"v.storage_capacity",
			"v.retail_price",
		).
		From("cat_product_variants v").
		Join("cat_products p ON p.id = v.product_id").
		Where(squirrel.Eq{"v.id": variantID}).
		Where(squirrel.Eq{"v.product_id": productID}).
		Limit(1).
		ToSql()
	if err != nil {
		return catalog.VariantDescriptor{}, fmt.Errorf("build query: %w", err)
	}

	var desc catalog.VariantDescriptor
	if err := pgxscan.Get(ctx, r.Querier(ctx), &desc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return catalog.VariantDescriptor{}, apperror.NewNotFound("product variant", variantID.String())
		}
		return catalog.VariantDescriptor{}, fmt.Errorf("resolve variant: %w", err)
	}

	return desc, nil
}

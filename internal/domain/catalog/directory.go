// Package catalog defines the boundary to the product catalog service.
// The catalog itself is an external collaborator; the inventory core only
// reads variant descriptors from it at intake and sale time and snapshots
// them into its own records.
package catalog

import (
	"context"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/types"
)

// VariantDescriptor is the point-in-time view of a product variant used
// for denormalization. A missing product or variant is a hard validation
// failure for intake and sale.
type VariantDescriptor struct {
	ProductID       id.ID            `db:"product_id" json:"productId"`
	VariantID       id.ID            `db:"variant_id" json:"variantId"`
	ProductName     string           `db:"product_name" json:"productName"`
	SKU             string           `db:"sku" json:"sku"`
	Color           string           `db:"color" json:"color"`
	StorageCapacity string           `db:"storage_capacity" json:"storageCapacity"`
	RetailPrice     types.MinorUnits `db:"retail_price" json:"retailPrice"`
}

// Directory resolves variant descriptors.
type Directory interface {
	// ResolveVariant returns the descriptor for (productID, variantID).
	// Returns a NOT_FOUND AppError when either is unknown.
	ResolveVariant(ctx context.Context, productID, variantID id.ID) (VariantDescriptor, error)
}

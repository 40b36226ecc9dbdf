// Package inventory provides the inventory unit aggregate.
// One record exists per physical device, keyed by IMEI, and carries the
// unit through its lifecycle: received, in stock, sold, possibly returned.
package inventory

import (
	"context"
	"time"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/entity"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/types"
)

// Status is the lifecycle state of an inventory unit.
type Status string

const (
	StatusInStock Status = "IN_STOCK"
	StatusSold    Status = "SOLD"

	// Declared taxonomy without transition logic in the current core.
	// They parse, persist, and block the wired transitions, but no
	// operation produces them yet.
	StatusReturnedAvailable Status = "RETURNED_AVAILABLE"
	StatusDefective         Status = "DEFECTIVE"
	StatusUnderRepair       Status = "UNDER_REPAIR"
	StatusWarrantyOut       Status = "WARRANTY_OUT"
	StatusWarrantyIn        Status = "WARRANTY_IN"
)

// knownStatuses is the full declared taxonomy.
var knownStatuses = map[Status]struct{}{
	StatusInStock:           {},
	StatusSold:              {},
	StatusReturnedAvailable: {},
	StatusDefective:         {},
	StatusUnderRepair:       {},
	StatusWarrantyOut:       {},
	StatusWarrantyIn:        {},
}

// ParseStatus validates a status string against the declared taxonomy.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := knownStatuses[st]; !ok {
		return "", apperror.NewValidation("unknown unit status").WithDetail("status", s)
	}
	return st, nil
}

// BlocksIntake reports whether a live unit in this status rejects
// re-intake of the same IMEI outright.
func (s Status) BlocksIntake() bool {
	return s == StatusInStock || s == StatusSold
}

// ReintakeNeedsConfirmation reports whether re-intake of an IMEI last seen
// in this status is allowed only with explicit operator confirmation.
func (s Status) ReintakeNeedsConfirmation() bool {
	return s == StatusReturnedAvailable
}

// Unit is one physical device tracked individually by IMEI.
type Unit struct {
	entity.BaseRecord

	// Identity: globally unique, immutable after intake.
	IMEI imei.IMEI `db:"imei" json:"imei"`

	// Owning catalog entries (external).
	ProductID id.ID `db:"product_id" json:"productId"`
	VariantID id.ID `db:"variant_id" json:"variantId"`

	// Descriptors copied from the catalog at intake time. Later catalog
	// edits do not retroactively change these.
	ProductName     string `db:"product_name" json:"productName"`
	SKU             string `db:"sku" json:"sku"`
	Color           string `db:"color" json:"color,omitempty"`
	StorageCapacity string `db:"storage_capacity" json:"storageCapacity,omitempty"`

	// Pricing snapshot (minor units).
	EntryPrice          types.MinorUnits `db:"entry_price" json:"entryPrice"`
	OriginalRetailPrice types.MinorUnits `db:"original_retail_price" json:"originalRetailPrice"`
	CurrentRetailPrice  types.MinorUnits `db:"current_retail_price" json:"currentRetailPrice"`

	// Lifecycle.
	Status          Status `db:"status" json:"status"`
	CurrentLocation string `db:"current_location" json:"currentLocation,omitempty"`
	Condition       string `db:"condition" json:"condition,omitempty"`

	// Sale linkage, populated only while Status == SOLD.
	SalesOrderID      *id.ID            `db:"sales_order_id" json:"salesOrderId,omitempty"`
	SaleDate          *time.Time        `db:"sale_date" json:"saleDate,omitempty"`
	ActualSalePrice   *types.MinorUnits `db:"actual_sale_price" json:"actualSalePrice,omitempty"`
	WarrantyStartDate *time.Time        `db:"warranty_start_date" json:"warrantyStartDate,omitempty"`

	// Provenance.
	PurchaseOrderID id.ID  `db:"purchase_order_id" json:"purchaseOrderId"`
	SupplierName    string `db:"supplier_name" json:"supplierName,omitempty"`
}

// Validate implements entity.Validatable.
func (u *Unit) Validate(ctx context.Context) error {
	if !imei.Valid(u.IMEI.String()) {
		return apperror.NewMalformedIMEI(u.IMEI.String())
	}
	if id.IsNil(u.ProductID) {
		return apperror.NewValidation("product is required").WithDetail("field", "productId")
	}
	if id.IsNil(u.VariantID) {
		return apperror.NewValidation("variant is required").WithDetail("field", "variantId")
	}
	if _, ok := knownStatuses[u.Status]; !ok {
		return apperror.NewValidation("unknown unit status").WithDetail("status", string(u.Status))
	}
	if u.EntryPrice.IsNegative() || !u.CurrentRetailPrice.IsPositive() {
		return apperror.NewValidation("unit prices must be positive").
			WithDetail("imei", u.IMEI.String())
	}
	return nil
}

// Sellable checks the IN_STOCK precondition for a sale. The check is run
// against a row read inside the sale transaction, never a cached value.
func (u *Unit) Sellable() error {
	if u.Status != StatusInStock {
		return apperror.NewUnitStatusConflict(u.IMEI.String(), string(StatusInStock), string(u.Status))
	}
	return nil
}

// Returnable checks the SOLD precondition for opening or approving a return.
func (u *Unit) Returnable() error {
	if u.Status != StatusSold {
		return apperror.NewUnitStatusConflict(u.IMEI.String(), string(StatusSold), string(u.Status))
	}
	if u.SalesOrderID == nil {
		return apperror.NewConflict("sold unit has no sales order linkage").
			WithDetail("imei", u.IMEI.String())
	}
	return nil
}

// MarkSold flips the unit to SOLD and stamps the sale linkage fields.
// Warranty starts on the sale date.
func (u *Unit) MarkSold(orderID id.ID, salePrice types.MinorUnits, at time.Time, actorID string) {
	u.Status = StatusSold
	u.SalesOrderID = &orderID
	u.SaleDate = &at
	u.ActualSalePrice = &salePrice
	u.WarrantyStartDate = &at
	u.UpdatedBy = actorID
	u.Touch()
}

// MarkReturned reverts an approved return to sellable stock and clears
// every sale linkage field.
func (u *Unit) MarkReturned(actorID string) {
	u.Status = StatusInStock
	u.SalesOrderID = nil
	u.SaleDate = nil
	u.ActualSalePrice = nil
	u.WarrantyStartDate = nil
	u.UpdatedBy = actorID
	u.Touch()
}

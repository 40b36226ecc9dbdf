// Package intake provides the stock intake pipeline: validating and
// committing a purchase order batch of newly received units.
package intake

import (
	"context"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/entity"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/types"
)

// PurchaseOrder groups the intake lines committed in one batch.
// Created atomically with the inventory units it spawns.
type PurchaseOrder struct {
	entity.BaseRecord

	// Number is auto-generated ("PO-2026-00001").
	Number string `db:"number" json:"number"`

	SupplierName string `db:"supplier_name" json:"supplierName"`

	// Totals calculated from lines.
	TotalQuantity int              `db:"total_quantity" json:"totalQuantity"`
	TotalCost     types.MinorUnits `db:"total_cost" json:"totalCost"`

	// Table part: one line per product variant group.
	Lines []PurchaseOrderLine `db:"-" json:"lines"`
}

// PurchaseOrderLine groups M units of one product variant at one cost.
type PurchaseOrderLine struct {
	ID     id.ID `db:"id" json:"id"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`
	VariantID id.ID `db:"variant_id" json:"variantId"`

	UnitCost types.MinorUnits `db:"unit_cost" json:"unitCost"`
	Quantity int              `db:"quantity" json:"quantity"`

	// IMEIs carried in memory during commit; the persisted unit records
	// reference the purchase order, so lines store only the quantity.
	IMEIs []imei.IMEI `db:"-" json:"imeis,omitempty"`
}

// Validate implements entity.Validatable.
func (p *PurchaseOrder) Validate(ctx context.Context) error {
	if p.SupplierName == "" {
		return apperror.NewValidation("supplier is required").WithDetail("field", "supplierName")
	}
	if len(p.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").WithDetail("field", "lines")
	}
	for i, line := range p.Lines {
		if id.IsNil(line.ProductID) || id.IsNil(line.VariantID) {
			return apperror.NewValidation("product and variant are required").
				WithDetail("field", "lines").WithDetail("lineNo", i+1)
		}
		if !line.UnitCost.IsPositive() {
			return apperror.NewValidation("unit cost must be positive").
				WithDetail("field", "lines").WithDetail("lineNo", i+1)
		}
		if len(line.IMEIs) == 0 {
			return apperror.NewValidation("at least one IMEI per line is required").
				WithDetail("field", "lines").WithDetail("lineNo", i+1)
		}
	}
	return nil
}

// Input describes one intake batch.
type Input struct {
	SupplierName string       `json:"supplierName"`
	Location     string       `json:"location"`
	Groups       []GroupInput `json:"groups"`

	// AllowReintake is the explicit operator confirmation required to
	// re-admit IMEIs whose last known status is a returned state.
	AllowReintake bool `json:"allowReintake"`
}

// GroupInput is one (variant, cost, IMEIs) group.
type GroupInput struct {
	ProductID id.ID            `json:"productId"`
	VariantID id.ID            `json:"variantId"`
	UnitCost  types.MinorUnits `json:"unitCost"`
	IMEIs     []string         `json:"imeis"`
}

// CheckResult classifies one IMEI during pre-flight validation.
type CheckResult string

const (
	CheckValidNew           CheckResult = "valid_new"
	CheckMalformed          CheckResult = "malformed"
	CheckDuplicateInBatch   CheckResult = "duplicate_in_batch"
	CheckExistsBlocking     CheckResult = "exists_blocking"
	CheckExistsNeedsConfirm CheckResult = "exists_requires_confirmation"
)

// IMEICheck is the per-IMEI classification returned by the pre-flight
// check operation exposed to the UI layer.
type IMEICheck struct {
	IMEI          string      `json:"imei"`
	Result        CheckResult `json:"result"`
	CurrentStatus string      `json:"currentStatus,omitempty"`
}

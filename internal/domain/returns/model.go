// Package returns provides the return request workflow: a sold unit is
// brought back, a request is opened against its sales order, and an
// approval puts the unit back into sellable stock.
package returns

import (
	"context"
	"time"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/entity"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/types"
)

// Status of a return request. Pending requests are the only mutable ones;
// approval and rejection are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is one return case for one unit. At most one pending request
// may exist per IMEI at any time.
type Request struct {
	entity.BaseRecord

	// Number is auto-generated ("RET-2026-00001").
	Number string `db:"number" json:"number"`

	// The unit coming back and the sale it came from.
	IMEI         imei.IMEI `db:"imei" json:"imei"`
	UnitID       id.ID     `db:"unit_id" json:"unitId"`
	SalesOrderID id.ID     `db:"sales_order_id" json:"salesOrderId"`

	// Buyer snapshot copied from the originating order.
	CustomerID    *id.ID `db:"customer_id" json:"customerId,omitempty"`
	CustomerName  string `db:"customer_name" json:"customerName,omitempty"`
	CustomerPhone string `db:"customer_phone" json:"customerPhone,omitempty"`

	// Unit snapshot for display on the request itself.
	ProductName string           `db:"product_name" json:"productName"`
	SKU         string           `db:"sku" json:"sku"`
	SalePrice   types.MinorUnits `db:"sale_price" json:"salePrice"`

	Reason string `db:"reason" json:"reason"`
	Status Status `db:"status" json:"status"`

	RequestedAt time.Time  `db:"requested_at" json:"requestedAt"`
	ProcessedAt *time.Time `db:"processed_at" json:"processedAt,omitempty"`
	ProcessedBy string     `db:"processed_by" json:"processedBy,omitempty"`
}

// Validate implements entity.Validatable.
func (r *Request) Validate(ctx context.Context) error {
	if !imei.Valid(r.IMEI.String()) {
		return apperror.NewMalformedIMEI(r.IMEI.String())
	}
	if id.IsNil(r.UnitID) || id.IsNil(r.SalesOrderID) {
		return apperror.NewValidation("return request requires unit and sales order linkage").
			WithDetail("imei", r.IMEI.String())
	}
	if r.Reason == "" {
		return apperror.NewValidation("return reason is required").WithDetail("field", "reason")
	}
	return nil
}

// CanProcess checks the pending precondition for approval or rejection.
func (r *Request) CanProcess() error {
	if r.Status != StatusPending {
		return apperror.NewConflict("return request is already processed").
			WithDetail("number", r.Number).WithDetail("status", string(r.Status))
	}
	return nil
}

// MarkApproved stamps the terminal approved state.
func (r *Request) MarkApproved(at time.Time, actorID string) {
	r.Status = StatusApproved
	r.ProcessedAt = &at
	r.ProcessedBy = actorID
	r.UpdatedBy = actorID
	r.Touch()
}

// MarkRejected stamps the terminal rejected state.
func (r *Request) MarkRejected(at time.Time, actorID string) {
	r.Status = StatusRejected
	r.ProcessedAt = &at
	r.ProcessedBy = actorID
	r.UpdatedBy = actorID
	r.Touch()
}

// CreateInput opens a return case.
type CreateInput struct {
	IMEI   string `json:"imei"`
	Reason string `json:"reason"`
}

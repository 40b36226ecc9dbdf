// Package customer provides the customer aggregate maintained by the sale
// transaction engine. Only the running purchase statistics and return
// history live here; the rest of the customer profile belongs to the
// external customer directory and is left untouched.
package customer

import (
	"context"
	"time"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/entity"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/types"
)

// Customer holds identity plus the aggregate purchase statistics.
// The aggregate fields are updated only inside the same transaction as
// sales order creation, via read-modify-write on a locked row.
type Customer struct {
	entity.BaseRecord

	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone"` // lookup key for walk-ins
	Email string `db:"email" json:"email,omitempty"`

	TotalOrders       int              `db:"total_orders" json:"totalOrders"`
	TotalSpent        types.MinorUnits `db:"total_spent" json:"totalSpent"`
	AverageOrderValue types.MinorUnits `db:"average_order_value" json:"averageOrderValue"`
	FirstPurchaseDate *time.Time       `db:"first_purchase_date" json:"firstPurchaseDate,omitempty"`
	LastPurchaseDate  *time.Time       `db:"last_purchase_date" json:"lastPurchaseDate,omitempty"`
}

// New creates a customer record for a walk-in buyer.
func New(name, phone, actorID string) *Customer {
	return &Customer{
		BaseRecord: entity.NewBaseRecord(actorID),
		Name:       name,
		Phone:      phone,
	}
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("customer name is required").WithDetail("field", "name")
	}
	if c.Phone == "" {
		return apperror.NewValidation("customer phone is required").WithDetail("field", "phone")
	}
	return nil
}

// ApplySale folds one completed sale into the aggregate statistics.
// Must be called on a row read inside the sale transaction so concurrent
// sales to the same customer cannot lose an update.
func (c *Customer) ApplySale(total types.MinorUnits, at time.Time, actorID string) {
	c.TotalOrders++
	c.TotalSpent += total
	c.AverageOrderValue = types.MinorUnits(int64(c.TotalSpent) / int64(c.TotalOrders))
	if c.FirstPurchaseDate == nil || at.Before(*c.FirstPurchaseDate) {
		t := at
		c.FirstPurchaseDate = &t
	}
	if c.LastPurchaseDate == nil || at.After(*c.LastPurchaseDate) {
		t := at
		c.LastPurchaseDate = &t
	}
	c.UpdatedBy = actorID
	c.Touch()
}

// ReturnHistoryEntry records one approved return against the customer.
// Approval appends here but intentionally does not reverse TotalOrders or
// TotalSpent: a return is treated as a separate event, not an order
// cancellation (observed behavior, preserved as-is).
type ReturnHistoryEntry struct {
	ID              id.ID     `db:"id" json:"id"`
	CustomerID      id.ID     `db:"customer_id" json:"customerId"`
	IMEI            imei.IMEI `db:"imei" json:"imei"`
	SalesOrderID    id.ID     `db:"sales_order_id" json:"salesOrderId"`
	ReturnRequestID id.ID     `db:"return_request_id" json:"returnRequestId"`
	Reason          string    `db:"reason" json:"reason,omitempty"`
	OccurredAt      time.Time `db:"occurred_at" json:"occurredAt"`
}

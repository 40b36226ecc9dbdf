// Package sales provides the sale transaction engine: checkout of a cart
// of individually identified units as one atomic order.
package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/entity"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/types"
)

// PaymentMethod for a sales order.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCard        PaymentMethod = "card"
	PaymentTransfer    PaymentMethod = "transfer"
	PaymentInstallment PaymentMethod = "installment"
)

var knownPayments = map[PaymentMethod]struct{}{
	PaymentCash:        {},
	PaymentCard:        {},
	PaymentTransfer:    {},
	PaymentInstallment: {},
}

// ParsePaymentMethod validates a payment method string.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	pm := PaymentMethod(s)
	if _, ok := knownPayments[pm]; !ok {
		return "", apperror.NewValidation("unknown payment method").WithDetail("paymentMethod", s)
	}
	return pm, nil
}

// SalesOrder is one completed checkout. Orders are created already
// completed; there is no draft state in the current core.
type SalesOrder struct {
	entity.BaseRecord

	// Number is auto-generated ("SO-2026-00001").
	Number string `db:"number" json:"number"`

	// Buyer snapshot. CustomerID is nil only when aggregate tracking was
	// skipped; name and phone are copied for display regardless.
	CustomerID    *id.ID `db:"customer_id" json:"customerId,omitempty"`
	CustomerName  string `db:"customer_name" json:"customerName"`
	CustomerPhone string `db:"customer_phone" json:"customerPhone"`

	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`

	// Financials. Total = Subtotal + TaxAmount - DiscountAmount + ShippingFee.
	Subtotal       types.MinorUnits `db:"subtotal" json:"subtotal"`
	TaxRate        decimal.Decimal  `db:"tax_rate" json:"taxRate"`
	TaxAmount      types.MinorUnits `db:"tax_amount" json:"taxAmount"`
	DiscountAmount types.MinorUnits `db:"discount_amount" json:"discountAmount"`
	ShippingFee    types.MinorUnits `db:"shipping_fee" json:"shippingFee"`
	Total          types.MinorUnits `db:"total" json:"total"`

	SaleDate time.Time `db:"sale_date" json:"saleDate"`

	// Table part: one line per unit sold.
	Lines []Line `db:"-" json:"lines"`
}

// Line is one sold unit inside an order. Quantity is always 1: units are
// identified individually, never pooled.
type Line struct {
	ID     id.ID `db:"id" json:"id"`
	LineNo int   `db:"line_no" json:"lineNo"`

	UnitID id.ID     `db:"unit_id" json:"unitId"`
	IMEI   imei.IMEI `db:"imei" json:"imei"`

	// Descriptors copied from the unit at sale time.
	ProductName string `db:"product_name" json:"productName"`
	SKU         string `db:"sku" json:"sku"`

	SalePrice types.MinorUnits `db:"sale_price" json:"salePrice"`
	Quantity  int              `db:"quantity" json:"quantity"`
}

// Validate implements entity.Validatable.
func (o *SalesOrder) Validate(ctx context.Context) error {
	if len(o.Lines) == 0 {
		return apperror.NewValidation("order must contain at least one line").WithDetail("field", "lines")
	}
	if _, ok := knownPayments[o.PaymentMethod]; !ok {
		return apperror.NewValidation("unknown payment method").
			WithDetail("paymentMethod", string(o.PaymentMethod))
	}
	if o.DiscountAmount.IsNegative() || o.ShippingFee.IsNegative() {
		return apperror.NewValidation("discount and shipping must be non-negative")
	}
	if !o.Totals().Consistent() {
		return apperror.NewValidation("order totals are inconsistent").
			WithDetail("number", o.Number)
	}
	for _, line := range o.Lines {
		if line.Quantity != 1 {
			return apperror.NewValidation("line quantity must be 1").
				WithDetail("imei", line.IMEI.String())
		}
	}
	return nil
}

// Totals returns the order financials as an identity-checkable value.
func (o *SalesOrder) Totals() types.OrderTotals {
	return types.OrderTotals{
		Subtotal: o.Subtotal,
		TaxRate:  o.TaxRate,
		Tax:      o.TaxAmount,
		Discount: o.DiscountAmount,
		Shipping: o.ShippingFee,
		Total:    o.Total,
	}
}

// CartItem references one unit the operator scanned into the cart.
type CartItem struct {
	UnitID id.ID  `json:"unitId"`
	IMEI   string `json:"imei"`
}

// WalkIn identifies a buyer with no existing customer record.
type WalkIn struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CartInput describes one checkout request.
type CartInput struct {
	Items         []CartItem       `json:"items"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
	TaxRate       decimal.Decimal  `json:"taxRate"`
	Discount      types.MinorUnits `json:"discount"`
	Shipping      types.MinorUnits `json:"shipping"`

	// Exactly one of CustomerID and WalkIn identifies the buyer.
	CustomerID *id.ID  `json:"customerId,omitempty"`
	WalkIn     *WalkIn `json:"walkIn,omitempty"`
}

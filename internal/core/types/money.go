// Package types provides common monetary type utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// MinorUnits represents a monetary value in minor currency units.
// For VND there is no fractional unit, so MinorUnits is whole dong.
// Storage: int64 - sufficient for ±9.2 quintillion units.
type MinorUnits int64

func (m MinorUnits) IsZero() bool     { return m == 0 }
func (m MinorUnits) IsPositive() bool { return m > 0 }
func (m MinorUnits) IsNegative() bool { return m < 0 }
func (m MinorUnits) Neg() MinorUnits  { return -m }
func (m MinorUnits) Abs() MinorUnits {
	if m < 0 {
		return -m
	}
	return m
}

// Decimal converts to decimal.Decimal for rate arithmetic.
func (m MinorUnits) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

// TaxRate is a fractional tax rate (0.1 == 10%).
// decimal.Decimal keeps the multiplication exact before rounding.
type TaxRate = decimal.Decimal

// MustRate parses a decimal rate string, panicking on error.
// Use only for constants and tests.
func MustRate(s string) TaxRate {
	return decimal.RequireFromString(s)
}

// ApplyTax computes the tax amount on a subtotal, rounded half-up to a
// whole minor unit.
func ApplyTax(subtotal MinorUnits, rate TaxRate) MinorUnits {
	if rate.IsZero() {
		return 0
	}
	tax := subtotal.Decimal().Mul(rate).Round(0)
	return MinorUnits(tax.IntPart())
}

// OrderTotals captures the financial identity of a sales order:
// Total == Subtotal + Tax - Discount + Shipping.
type OrderTotals struct {
	Subtotal MinorUnits
	TaxRate  TaxRate
	Tax      MinorUnits
	Discount MinorUnits
	Shipping MinorUnits
	Total    MinorUnits
}

// ComputeTotals derives tax and total from the inputs.
func ComputeTotals(subtotal MinorUnits, rate TaxRate, discount, shipping MinorUnits) OrderTotals {
	tax := ApplyTax(subtotal, rate)
	return OrderTotals{
		Subtotal: subtotal,
		TaxRate:  rate,
		Tax:      tax,
		Discount: discount,
		Shipping: shipping,
		Total:    subtotal + tax - discount + shipping,
	}
}

// Consistent re-checks the financial identity. Repos call this before
// persisting an order as a last line of defense.
func (t OrderTotals) Consistent() bool {
	return t.Total == t.Subtotal+t.Tax-t.Discount+t.Shipping
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyTax(t *testing.T) {
	tests := []struct {
		name     string
		subtotal MinorUnits
		rate     string
		want     MinorUnits
	}{
		{name: "ten percent", subtotal: 35_000_000, rate: "0.1", want: 3_500_000},
		{name: "zero rate", subtotal: 35_000_000, rate: "0", want: 0},
		{name: "half rounds up", subtotal: 5, rate: "0.1", want: 1},
		{name: "below half rounds down", subtotal: 4, rate: "0.1", want: 0},
		{name: "eight percent", subtotal: 12_990_000, rate: "0.08", want: 1_039_200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyTax(tt.subtotal, MustRate(tt.rate))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeTotals(t *testing.T) {
	totals := ComputeTotals(35_000_000, MustRate("0.1"), 0, 0)

	assert.Equal(t, MinorUnits(35_000_000), totals.Subtotal)
	assert.Equal(t, MinorUnits(3_500_000), totals.Tax)
	assert.Equal(t, MinorUnits(38_500_000), totals.Total)
	assert.True(t, totals.Consistent())
}

func TestComputeTotals_DiscountAndShipping(t *testing.T) {
	totals := ComputeTotals(10_000_000, MustRate("0.1"), 500_000, 200_000)

	assert.Equal(t, MinorUnits(1_000_000), totals.Tax)
	assert.Equal(t, MinorUnits(10_700_000), totals.Total)
	assert.True(t, totals.Consistent())
}

func TestOrderTotals_Consistent(t *testing.T) {
	totals := ComputeTotals(10_000_000, MustRate("0.1"), 0, 0)
	assert.True(t, totals.Consistent())

	totals.Total += 1
	assert.False(t, totals.Consistent())
}

func TestMinorUnits_Helpers(t *testing.T) {
	assert.True(t, MinorUnits(0).IsZero())
	assert.True(t, MinorUnits(5).IsPositive())
	assert.True(t, MinorUnits(-5).IsNegative())
	assert.Equal(t, MinorUnits(5), MinorUnits(-5).Abs())
	assert.Equal(t, MinorUnits(-5), MinorUnits(5).Neg())
}

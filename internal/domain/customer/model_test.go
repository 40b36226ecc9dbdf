package customer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySale_Aggregates(t *testing.T) {
	c := New("Nguyen Van A", "0901234567", "cashier")
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := time.Date(2026, 4, 15, 14, 30, 0, 0, time.UTC)

	c.ApplySale(38_500_000, first, "cashier")

	assert.Equal(t, 1, c.TotalOrders)
	assert.EqualValues(t, 38_500_000, c.TotalSpent)
	assert.EqualValues(t, 38_500_000, c.AverageOrderValue)
	require.NotNil(t, c.FirstPurchaseDate)
	assert.Equal(t, first, *c.FirstPurchaseDate)
	require.NotNil(t, c.LastPurchaseDate)
	assert.Equal(t, first, *c.LastPurchaseDate)

	c.ApplySale(10_000_000, second, "cashier")

	assert.Equal(t, 2, c.TotalOrders)
	assert.EqualValues(t, 48_500_000, c.TotalSpent)
	assert.EqualValues(t, 24_250_000, c.AverageOrderValue)
	assert.Equal(t, first, *c.FirstPurchaseDate)
	assert.Equal(t, second, *c.LastPurchaseDate)
}

func TestApplySale_AverageTruncates(t *testing.T) {
	c := New("Nguyen Van A", "0901234567", "cashier")
	now := time.Now().UTC()

	c.ApplySale(10, now, "cashier")
	c.ApplySale(10, now, "cashier")
	c.ApplySale(11, now, "cashier")

	// 31 / 3 truncates to 10 whole minor units
	assert.EqualValues(t, 10, c.AverageOrderValue)
}

func TestApplySale_BumpsVersion(t *testing.T) {
	c := New("Nguyen Van A", "0901234567", "cashier")
	assert.Equal(t, 1, c.Version)

	c.ApplySale(1_000_000, time.Now().UTC(), "cashier")
	assert.Equal(t, 2, c.Version)
}

func TestCustomer_Validate(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, New("Nguyen Van A", "0901234567", "cashier").Validate(ctx))
	assert.Error(t, New("", "0901234567", "cashier").Validate(ctx))
	assert.Error(t, New("Nguyen Van A", "", "cashier").Validate(ctx))
}

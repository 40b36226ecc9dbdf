package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/entity"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
)

func stockUnit() *Unit {
	return &Unit{
		BaseRecord:          entity.NewBaseRecord("tester"),
		IMEI:                imei.MustParse("356938035643809"),
		ProductID:           id.New(),
		VariantID:           id.New(),
		ProductName:         "iPhone 15 Pro",
		SKU:                 "IP15P-256-BLK",
		EntryPrice:          20_000_000,
		OriginalRetailPrice: 28_990_000,
		CurrentRetailPrice:  28_990_000,
		Status:              StatusInStock,
		CurrentLocation:     "main",
		Condition:           "new",
		PurchaseOrderID:     id.New(),
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"IN_STOCK", "SOLD", "RETURNED_AVAILABLE", "DEFECTIVE", "UNDER_REPAIR", "WARRANTY_OUT", "WARRANTY_IN"} {
		_, err := ParseStatus(s)
		assert.NoError(t, err, s)
	}

	_, err := ParseStatus("LOST")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestStatus_IntakePolicy(t *testing.T) {
	assert.True(t, StatusInStock.BlocksIntake())
	assert.True(t, StatusSold.BlocksIntake())
	assert.False(t, StatusReturnedAvailable.BlocksIntake())

	assert.True(t, StatusReturnedAvailable.ReintakeNeedsConfirmation())
	assert.False(t, StatusInStock.ReintakeNeedsConfirmation())
	assert.False(t, StatusDefective.ReintakeNeedsConfirmation())
}

func TestUnit_Sellable(t *testing.T) {
	u := stockUnit()
	assert.NoError(t, u.Sellable())

	u.Status = StatusSold
	err := u.Sellable()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnitStatusConflict, appErr.Code)
}

func TestUnit_Returnable(t *testing.T) {
	u := stockUnit()

	// not sold yet
	err := u.Returnable()
	require.Error(t, err)

	orderID := id.New()
	u.MarkSold(orderID, 28_990_000, time.Now().UTC(), "cashier")
	assert.NoError(t, u.Returnable())

	// sold but missing linkage is a data conflict, not a status conflict
	u.SalesOrderID = nil
	err = u.Returnable()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestUnit_MarkSold(t *testing.T) {
	u := stockUnit()
	orderID := id.New()
	at := time.Now().UTC()

	u.MarkSold(orderID, 27_500_000, at, "cashier")

	assert.Equal(t, StatusSold, u.Status)
	require.NotNil(t, u.SalesOrderID)
	assert.Equal(t, orderID, *u.SalesOrderID)
	require.NotNil(t, u.ActualSalePrice)
	assert.EqualValues(t, 27_500_000, *u.ActualSalePrice)
	require.NotNil(t, u.SaleDate)
	assert.Equal(t, at, *u.SaleDate)
	require.NotNil(t, u.WarrantyStartDate)
	assert.Equal(t, at, *u.WarrantyStartDate)
	assert.Equal(t, "cashier", u.UpdatedBy)
	assert.Equal(t, 2, u.Version)
}

func TestUnit_MarkReturned(t *testing.T) {
	u := stockUnit()
	u.MarkSold(id.New(), 27_500_000, time.Now().UTC(), "cashier")

	u.MarkReturned("manager")

	assert.Equal(t, StatusInStock, u.Status)
	assert.Nil(t, u.SalesOrderID)
	assert.Nil(t, u.SaleDate)
	assert.Nil(t, u.ActualSalePrice)
	assert.Nil(t, u.WarrantyStartDate)
	assert.Equal(t, 3, u.Version)
}

func TestUnit_Validate(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, stockUnit().Validate(ctx))

	u := stockUnit()
	u.IMEI = "123"
	assert.Error(t, u.Validate(ctx))

	u = stockUnit()
	u.ProductID = id.Nil()
	assert.Error(t, u.Validate(ctx))

	u = stockUnit()
	u.Status = "LOST"
	assert.Error(t, u.Validate(ctx))

	u = stockUnit()
	u.CurrentRetailPrice = 0
	assert.Error(t, u.Validate(ctx))
}

package sales

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/entity"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/types"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/customer"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/inventory"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/ledger"
)

// --- In-memory fakes ---

type stubTxManager struct{}

func (stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (stubTxManager) Serializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubNumbers struct{ n int }

func (s *stubNumbers) NextNumber(ctx context.Context, prefix string, period time.Time) (string, error) {
	s.n++
	return fmt.Sprintf("%s-%d-%05d", prefix, period.Year(), s.n), nil
}

type fakeUnitRepo struct {
	byID    map[id.ID]*inventory.Unit
	updated []*inventory.Unit
}

func newFakeUnitRepo(units ...*inventory.Unit) *fakeUnitRepo {
	r := &fakeUnitRepo{byID: make(map[id.ID]*inventory.Unit)}
	for _, u := range units {
		r.byID[u.ID] = u
	}
	return r
}

func (r *fakeUnitRepo) CreateBatch(ctx context.Context, units []*inventory.Unit) error {
	for _, u := range units {
		r.byID[u.ID] = u
	}
	return nil
}

func (r *fakeUnitRepo) GetByID(ctx context.Context, unitID id.ID) (*inventory.Unit, error) {
	if u, ok := r.byID[unitID]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("inventory unit", unitID)
}

func (r *fakeUnitRepo) GetByIMEI(ctx context.Context, im imei.IMEI) (*inventory.Unit, error) {
	for _, u := range r.byID {
		if u.IMEI == im {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("inventory unit", im.String())
}

func (r *fakeUnitRepo) GetByIMEIs(ctx context.Context, ims []imei.IMEI) (map[imei.IMEI]*inventory.Unit, error) {
	out := make(map[imei.IMEI]*inventory.Unit)
	for _, im := range ims {
		if u, err := r.GetByIMEI(ctx, im); err == nil {
			out[im] = u
		}
	}
	return out, nil
}

func (r *fakeUnitRepo) GetForUpdate(ctx context.Context, unitID id.ID) (*inventory.Unit, error) {
	return r.GetByID(ctx, unitID)
}

func (r *fakeUnitRepo) GetForUpdateByIMEI(ctx context.Context, im imei.IMEI) (*inventory.Unit, error) {
	return r.GetByIMEI(ctx, im)
}

func (r *fakeUnitRepo) Update(ctx context.Context, unit *inventory.Unit) error {
	r.byID[unit.ID] = unit
	r.updated = append(r.updated, unit)
	return nil
}

func (r *fakeUnitRepo) List(ctx context.Context, filter inventory.ListFilter) (inventory.ListResult, error) {
	return inventory.ListResult{}, nil
}

type fakeCustomerRepo struct {
	byID    map[id.ID]*customer.Customer
	created []*customer.Customer
	updated []*customer.Customer
	history []customer.ReturnHistoryEntry
}

func newFakeCustomerRepo(customers ...*customer.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{byID: make(map[id.ID]*customer.Customer)}
	for _, c := range customers {
		r.byID[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	r.byID[c.ID] = c
	r.created = append(r.created, c)
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	if c, ok := r.byID[customerID]; ok {
		return c, nil
	}
	return nil, apperror.NewNotFound("customer", customerID)
}

func (r *fakeCustomerRepo) FindByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	for _, c := range r.byID {
		if c.Phone == phone {
			return c, nil
		}
	}
	return nil, apperror.NewNotFound("customer", phone)
}

func (r *fakeCustomerRepo) GetForUpdate(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	return r.GetByID(ctx, customerID)
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	r.byID[c.ID] = c
	r.updated = append(r.updated, c)
	return nil
}

func (r *fakeCustomerRepo) AppendReturnHistory(ctx context.Context, entry customer.ReturnHistoryEntry) error {
	r.history = append(r.history, entry)
	return nil
}

type fakeMovementRepo struct {
	movements []ledger.Movement
}

func (r *fakeMovementRepo) Record(ctx context.Context, movements []ledger.Movement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *fakeMovementRepo) ListByIMEI(ctx context.Context, im imei.IMEI) ([]ledger.Movement, error) {
	var out []ledger.Movement
	for _, m := range r.movements {
		if m.IMEI == im {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) SumQuantityByIMEI(ctx context.Context, im imei.IMEI) (int64, error) {
	var sum int64
	for _, m := range r.movements {
		if m.IMEI == im {
			sum += int64(m.QuantityChange)
		}
	}
	return sum, nil
}

func (r *fakeMovementRepo) List(ctx context.Context, filter ledger.Filter) ([]ledger.Movement, error) {
	return r.movements, nil
}

type fakeOrderRepo struct {
	created []*SalesOrder
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *SalesOrder) error {
	r.created = append(r.created, order)
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, orderID id.ID) (*SalesOrder, error) {
	for _, o := range r.created {
		if o.ID == orderID {
			return o, nil
		}
	}
	return nil, apperror.NewNotFound("sales order", orderID)
}

func (r *fakeOrderRepo) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	return ListResult{Items: r.created}, nil
}

// --- Fixtures ---

func stockUnit(im string, price types.MinorUnits) *inventory.Unit {
	return &inventory.Unit{
		BaseRecord:          entity.NewBaseRecord("tester"),
		IMEI:                imei.MustParse(im),
		ProductID:           id.New(),
		VariantID:           id.New(),
		ProductName:         "iPhone 15 Pro",
		SKU:                 "IP15P-256-BLK",
		EntryPrice:          price - 5_000_000,
		OriginalRetailPrice: price,
		CurrentRetailPrice:  price,
		Status:              inventory.StatusInStock,
		CurrentLocation:     "main",
		PurchaseOrderID:     id.New(),
	}
}

type salesFixture struct {
	service   *Service
	orders    *fakeOrderRepo
	units     *fakeUnitRepo
	customers *fakeCustomerRepo
	ledger    *fakeMovementRepo
}

func newSalesFixture(units []*inventory.Unit, customers ...*customer.Customer) *salesFixture {
	f := &salesFixture{
		orders:    &fakeOrderRepo{},
		units:     newFakeUnitRepo(units...),
		customers: newFakeCustomerRepo(customers...),
		ledger:    &fakeMovementRepo{},
	}
	f.service = NewService(
		f.orders,
		f.units,
		f.customers,
		ledger.NewService(f.ledger),
		&stubNumbers{},
		stubTxManager{},
	)
	return f
}

// --- Tests ---

func TestCheckout_WalkInBuyer(t *testing.T) {
	u1 := stockUnit("356938035643801", 20_000_000)
	u2 := stockUnit("356938035643802", 15_000_000)
	f := newSalesFixture([]*inventory.Unit{u1, u2})

	order, err := f.service.Checkout(context.Background(), CartInput{
		Items: []CartItem{
			{UnitID: u1.ID, IMEI: "356938035643801"},
			{UnitID: u2.ID},
		},
		PaymentMethod: PaymentCash,
		TaxRate:       types.MustRate("0.1"),
		WalkIn:        &WalkIn{Name: "Nguyen Van A", Phone: "0901234567"},
	})
	require.NoError(t, err)

	assert.Equal(t, "SO-2026-00001", order.Number)
	assert.EqualValues(t, 35_000_000, order.Subtotal)
	assert.EqualValues(t, 3_500_000, order.TaxAmount)
	assert.EqualValues(t, 38_500_000, order.Total)
	assert.Equal(t, "Nguyen Van A", order.CustomerName)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, 1, order.Lines[0].Quantity)
	assert.EqualValues(t, 20_000_000, order.Lines[0].SalePrice)

	// Both units flipped to SOLD with sale linkage.
	require.Len(t, f.units.updated, 2)
	for _, u := range f.units.updated {
		assert.Equal(t, inventory.StatusSold, u.Status)
		require.NotNil(t, u.SalesOrderID)
		assert.Equal(t, order.ID, *u.SalesOrderID)
		require.NotNil(t, u.WarrantyStartDate)
	}

	// One -1 sale movement per unit.
	require.Len(t, f.ledger.movements, 2)
	for _, m := range f.ledger.movements {
		assert.Equal(t, ledger.TypeSale, m.Type)
		assert.Equal(t, -1, m.QuantityChange)
		assert.Equal(t, "IN_STOCK", m.PreviousStatus)
		assert.Equal(t, "SOLD", m.NewStatus)
		assert.Equal(t, "main", m.FromLocation)
	}

	// Walk-in buyer registered and aggregates applied.
	require.Len(t, f.customers.created, 1)
	require.Len(t, f.customers.updated, 1)
	c := f.customers.updated[0]
	assert.Equal(t, 1, c.TotalOrders)
	assert.EqualValues(t, 38_500_000, c.TotalSpent)
	assert.EqualValues(t, 38_500_000, c.AverageOrderValue)
	require.NotNil(t, order.CustomerID)
	assert.Equal(t, c.ID, *order.CustomerID)
}

func TestCheckout_ExistingCustomerAccumulates(t *testing.T) {
	u := stockUnit("356938035643801", 10_000_000)
	cust := customer.New("Tran Thi B", "0907654321", "tester")
	cust.ApplySale(10_000_000, time.Now().UTC(), "tester")
	f := newSalesFixture([]*inventory.Unit{u}, cust)

	custID := cust.ID
	order, err := f.service.Checkout(context.Background(), CartInput{
		Items:         []CartItem{{UnitID: u.ID}},
		PaymentMethod: PaymentCard,
		TaxRate:       types.MustRate("0"),
		CustomerID:    &custID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 10_000_000, order.Total)

	assert.Equal(t, 2, cust.TotalOrders)
	assert.EqualValues(t, 20_000_000, cust.TotalSpent)
	assert.EqualValues(t, 10_000_000, cust.AverageOrderValue)
	assert.Empty(t, f.customers.created)
}

func TestCheckout_WalkInMatchedByPhone(t *testing.T) {
	u := stockUnit("356938035643801", 10_000_000)
	cust := customer.New("Tran Thi B", "0907654321", "tester")
	f := newSalesFixture([]*inventory.Unit{u}, cust)

	_, err := f.service.Checkout(context.Background(), CartInput{
		Items:         []CartItem{{UnitID: u.ID}},
		PaymentMethod: PaymentCash,
		WalkIn:        &WalkIn{Name: "Tran Thi B", Phone: "0907654321"},
	})
	require.NoError(t, err)

	// Repeat buyer keeps one aggregate record.
	assert.Empty(t, f.customers.created)
	assert.Equal(t, 1, cust.TotalOrders)
}

func TestCheckout_UnsellableUnitRejectsWholeCart(t *testing.T) {
	good := stockUnit("356938035643801", 20_000_000)
	sold := stockUnit("356938035643802", 15_000_000)
	sold.MarkSold(id.New(), 15_000_000, time.Now().UTC(), "tester")
	f := newSalesFixture([]*inventory.Unit{good, sold})

	_, err := f.service.Checkout(context.Background(), CartInput{
		Items: []CartItem{
			{UnitID: good.ID},
			{UnitID: sold.ID},
		},
		PaymentMethod: PaymentCash,
		WalkIn:        &WalkIn{Name: "Nguyen Van A", Phone: "0901234567"},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnitStatusConflict, appErr.Code)

	// No writes at all: order, units, movements, customer untouched.
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.units.updated)
	assert.Empty(t, f.ledger.movements)
	assert.Empty(t, f.customers.created)
	assert.Equal(t, inventory.StatusInStock, good.Status)
}

func TestCheckout_ScannedIMEIMismatch(t *testing.T) {
	u := stockUnit("356938035643801", 20_000_000)
	f := newSalesFixture([]*inventory.Unit{u})

	_, err := f.service.Checkout(context.Background(), CartInput{
		Items:         []CartItem{{UnitID: u.ID, IMEI: "356938035643899"}},
		PaymentMethod: PaymentCash,
		WalkIn:        &WalkIn{Name: "Nguyen Van A", Phone: "0901234567"},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
	assert.Empty(t, f.orders.created)
}

func TestCheckout_CartShape(t *testing.T) {
	u := stockUnit("356938035643801", 20_000_000)
	f := newSalesFixture([]*inventory.Unit{u})
	ctx := context.Background()
	walkIn := &WalkIn{Name: "Nguyen Van A", Phone: "0901234567"}

	_, err := f.service.Checkout(ctx, CartInput{PaymentMethod: PaymentCash, WalkIn: walkIn})
	assert.Error(t, err, "empty cart")

	_, err = f.service.Checkout(ctx, CartInput{
		Items: []CartItem{{UnitID: u.ID}}, PaymentMethod: "bitcoin", WalkIn: walkIn,
	})
	assert.Error(t, err, "unknown payment method")

	_, err = f.service.Checkout(ctx, CartInput{
		Items: []CartItem{{UnitID: u.ID}}, PaymentMethod: PaymentCash,
	})
	assert.Error(t, err, "no buyer")

	custID := id.New()
	_, err = f.service.Checkout(ctx, CartInput{
		Items: []CartItem{{UnitID: u.ID}}, PaymentMethod: PaymentCash,
		CustomerID: &custID, WalkIn: walkIn,
	})
	assert.Error(t, err, "two buyers")

	_, err = f.service.Checkout(ctx, CartInput{
		Items: []CartItem{{UnitID: u.ID}, {UnitID: u.ID}},
		PaymentMethod: PaymentCash, WalkIn: walkIn,
	})
	assert.Error(t, err, "duplicate unit in cart")

	_, err = f.service.Checkout(ctx, CartInput{
		Items: []CartItem{{UnitID: u.ID}}, PaymentMethod: PaymentCash,
		Discount: -1, WalkIn: walkIn,
	})
	assert.Error(t, err, "negative discount")
}

func TestParsePaymentMethod(t *testing.T) {
	for _, s := range []string{"cash", "card", "transfer", "installment"} {
		_, err := ParsePaymentMethod(s)
		assert.NoError(t, err, s)
	}
	_, err := ParsePaymentMethod("barter")
	assert.Error(t, err)
}

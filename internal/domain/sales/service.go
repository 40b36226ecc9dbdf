package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/appctx"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/entity"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/tx"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/types"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/customer"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/inventory"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/ledger"
	"github.com/NguyenTrunggg/phone-store-management-sub000/pkg/logger"
)

// Numberer allocates sequential document numbers.
type Numberer interface {
	NextNumber(ctx context.Context, prefix string, period time.Time) (string, error)
}

// NumberPrefix for sales orders.
const NumberPrefix = "SO"

// Service is the sale transaction engine. Checkout converts a cart into
// an order, flips every unit to SOLD, appends sale movements and updates
// the customer aggregate, all in one serializable transaction.
type Service struct {
	repo      Repository
	units     inventory.Repository
	customers customer.Repository
	movements *ledger.Service
	numbers   Numberer
	txManager tx.SerializableManager
	retry     tx.RetryConfig
}

// NewService creates a new sales service.
func NewService(
	repo Repository,
	units inventory.Repository,
	customers customer.Repository,
	movements *ledger.Service,
	numbers Numberer,
	txManager tx.SerializableManager,
) *Service {
	return &Service{
		repo:      repo,
		units:     units,
		customers: customers,
		movements: movements,
		numbers:   numbers,
		txManager: txManager,
		retry:     tx.DefaultRetryConfig(),
	}
}

// Checkout processes one cart. All-or-nothing: one unsellable unit
// anywhere in the cart rejects the whole cart with no writes.
func (s *Service) Checkout(ctx context.Context, input CartInput) (*SalesOrder, error) {
	if err := s.validateCart(input); err != nil {
		return nil, err
	}

	var order *SalesOrder
	err := tx.WithRetry(ctx, s.retry, func(ctx context.Context) error {
		order = nil
		return s.txManager.Serializable(ctx, func(ctx context.Context) error {
			var txErr error
			order, txErr = s.checkoutTx(ctx, input)
			return txErr
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale completed",
		"number", order.Number,
		"units", len(order.Lines),
		"total", order.Total)

	return order, nil
}

// validateCart checks the shape of the request. Pure, no I/O.
func (s *Service) validateCart(input CartInput) error {
	if len(input.Items) == 0 {
		return apperror.NewValidation("cart is empty").WithDetail("field", "items")
	}
	if _, ok := knownPayments[input.PaymentMethod]; !ok {
		return apperror.NewValidation("unknown payment method").
			WithDetail("paymentMethod", string(input.PaymentMethod))
	}
	if input.TaxRate.IsNegative() {
		return apperror.NewValidation("tax rate must be non-negative").WithDetail("field", "taxRate")
	}
	if input.Discount.IsNegative() || input.Shipping.IsNegative() {
		return apperror.NewValidation("discount and shipping must be non-negative")
	}
	if input.CustomerID == nil && input.WalkIn == nil {
		return apperror.NewValidation("customer or walk-in buyer is required")
	}
	if input.CustomerID != nil && input.WalkIn != nil {
		return apperror.NewValidation("provide either customer or walk-in buyer, not both")
	}
	if input.WalkIn != nil && (input.WalkIn.Name == "" || input.WalkIn.Phone == "") {
		return apperror.NewValidation("walk-in buyer needs name and phone")
	}

	seen := make(map[id.ID]struct{}, len(input.Items))
	for _, item := range input.Items {
		if id.IsNil(item.UnitID) {
			return apperror.NewValidation("cart item without unit id")
		}
		if _, dup := seen[item.UnitID]; dup {
			return apperror.NewValidation("duplicate unit in cart").
				WithDetail("unitId", item.UnitID)
		}
		seen[item.UnitID] = struct{}{}
		if item.IMEI != "" && !imei.Valid(imei.Normalize(item.IMEI)) {
			return apperror.NewMalformedIMEI(item.IMEI)
		}
	}
	return nil
}

// checkoutTx is the transactional engine: read and lock everything, then
// validate against the in-transaction snapshot, then write.
func (s *Service) checkoutTx(ctx context.Context, input CartInput) (*SalesOrder, error) {
	actorID := appctx.ActorID(ctx)
	now := time.Now().UTC()

	// Read phase: lock every unit and re-check sellability on the locked rows.
	locked := make([]*inventory.Unit, 0, len(input.Items))
	for _, item := range input.Items {
		unit, err := s.units.GetForUpdate(ctx, item.UnitID)
		if err != nil {
			return nil, err
		}
		if item.IMEI != "" && unit.IMEI != imei.IMEI(imei.Normalize(item.IMEI)) {
			return nil, apperror.NewConflict("scanned IMEI does not match the unit").
				WithDetail("unitId", item.UnitID).WithDetail("imei", item.IMEI)
		}
		if err := unit.Sellable(); err != nil {
			return nil, err
		}
		locked = append(locked, unit)
	}

	cust, err := s.resolveCustomer(ctx, input, actorID)
	if err != nil {
		return nil, err
	}

	// Compute phase: line prices come from the locked snapshot.
	var subtotal types.MinorUnits
	lines := make([]Line, 0, len(locked))
	for i, unit := range locked {
		lines = append(lines, Line{
			ID:          id.New(),
			LineNo:      i + 1,
			UnitID:      unit.ID,
			IMEI:        unit.IMEI,
			ProductName: unit.ProductName,
			SKU:         unit.SKU,
			SalePrice:   unit.CurrentRetailPrice,
			Quantity:    1,
		})
		subtotal += unit.CurrentRetailPrice
	}
	totals := types.ComputeTotals(subtotal, input.TaxRate, input.Discount, input.Shipping)

	number, err := s.numbers.NextNumber(ctx, NumberPrefix, now)
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}

	order := &SalesOrder{
		BaseRecord:     entity.NewBaseRecord(actorID),
		Number:         number,
		CustomerName:   cust.Name,
		CustomerPhone:  cust.Phone,
		PaymentMethod:  input.PaymentMethod,
		Subtotal:       totals.Subtotal,
		TaxRate:        totals.TaxRate,
		TaxAmount:      totals.Tax,
		DiscountAmount: totals.Discount,
		ShippingFee:    totals.Shipping,
		Total:          totals.Total,
		SaleDate:       now,
		Lines:          lines,
	}
	custID := cust.ID
	order.CustomerID = &custID

	if err := order.Validate(ctx); err != nil {
		return nil, err
	}

	// Write phase.
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	movements := make([]ledger.Movement, 0, len(locked))
	for i, unit := range locked {
		prevStatus := string(unit.Status)
		unit.MarkSold(order.ID, lines[i].SalePrice, now, actorID)
		if err := s.units.Update(ctx, unit); err != nil {
			return nil, fmt.Errorf("mark unit %s sold: %w", unit.IMEI, err)
		}
		m := ledger.New(ctx, unit.ID, unit.IMEI, ledger.TypeSale, -1, prevStatus, string(inventory.StatusSold)).
			WithOrder(order.ID).
			WithLocations(unit.CurrentLocation, "")
		movements = append(movements, m)
	}
	if err := s.movements.Record(ctx, movements); err != nil {
		return nil, err
	}

	cust.ApplySale(totals.Total, now, actorID)
	if err := s.customers.Update(ctx, cust); err != nil {
		return nil, fmt.Errorf("update customer aggregate: %w", err)
	}

	return order, nil
}

// resolveCustomer locks the existing customer row or registers the
// walk-in buyer. Walk-ins are matched by phone first so repeat buyers
// keep one aggregate record.
func (s *Service) resolveCustomer(ctx context.Context, input CartInput, actorID string) (*customer.Customer, error) {
	if input.CustomerID != nil {
		return s.customers.GetForUpdate(ctx, *input.CustomerID)
	}

	existing, err := s.customers.FindByPhone(ctx, input.WalkIn.Phone)
	switch {
	case err == nil:
		return s.customers.GetForUpdate(ctx, existing.ID)
	case apperror.IsNotFound(err):
		cust := customer.New(input.WalkIn.Name, input.WalkIn.Phone, actorID)
		if err := cust.Validate(ctx); err != nil {
			return nil, err
		}
		if err := s.customers.Create(ctx, cust); err != nil {
			return nil, fmt.Errorf("create walk-in customer: %w", err)
		}
		return cust, nil
	default:
		return nil, err
	}
}

// GetByID retrieves a sales order with lines.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*SalesOrder, error) {
	return s.repo.GetByID(ctx, orderID)
}

// List retrieves sales orders.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

package returns

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
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/customer"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/inventory"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/ledger"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/sales"
	"github.com/NguyenTrunggg/phone-store-management-sub000/pkg/logger"
)

// Numberer allocates sequential document numbers.
type Numberer interface {
	NextNumber(ctx context.Context, prefix string, period time.Time) (string, error)
}

// NumberPrefix for return requests.
const NumberPrefix = "RET"

// Service runs the return workflow. Creation and approval both re-check
// the unit state from rows read inside their own transaction, so a stale
// screen can never approve a unit that already moved on.
type Service struct {
	repo      Repository
	units     inventory.Repository
	orders    sales.Repository
	customers customer.Repository
	movements *ledger.Service
	numbers   Numberer
	txManager tx.SerializableManager
	retry     tx.RetryConfig
}

// NewService creates a new returns service.
func NewService(
	repo Repository,
	units inventory.Repository,
	orders sales.Repository,
	customers customer.Repository,
	movements *ledger.Service,
	numbers Numberer,
	txManager tx.SerializableManager,
) *Service {
	return &Service{
		repo:      repo,
		units:     units,
		orders:    orders,
		customers: customers,
		movements: movements,
		numbers:   numbers,
		txManager: txManager,
		retry:     tx.DefaultRetryConfig(),
	}
}

// Create opens a pending return request for a sold unit.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Request, error) {
	im, err := imei.Parse(input.IMEI)
	if err != nil {
		return nil, err
	}
	if input.Reason == "" {
		return nil, apperror.NewValidation("return reason is required").WithDetail("field", "reason")
	}

	var req *Request
	err = tx.WithRetry(ctx, s.retry, func(ctx context.Context) error {
		req = nil
		return s.txManager.Serializable(ctx, func(ctx context.Context) error {
			var txErr error
			req, txErr = s.createTx(ctx, im, input.Reason)
			return txErr
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "return request opened",
		"number", req.Number,
		"imei", req.IMEI)

	return req, nil
}

func (s *Service) createTx(ctx context.Context, im imei.IMEI, reason string) (*Request, error) {
	unit, err := s.units.GetByIMEI(ctx, im)
	if err != nil {
		return nil, err
	}
	if err := unit.Returnable(); err != nil {
		return nil, err
	}

	pending, err := s.repo.HasPendingForIMEI(ctx, im)
	if err != nil {
		return nil, fmt.Errorf("check pending requests: %w", err)
	}
	if pending {
		return nil, apperror.NewDuplicatePendingReturn(im.String())
	}

	order, err := s.orders.GetByID(ctx, *unit.SalesOrderID)
	if err != nil {
		return nil, err
	}

	salePrice := order.Subtotal
	for _, line := range order.Lines {
		if line.IMEI == im {
			salePrice = line.SalePrice
			break
		}
	}
	if unit.ActualSalePrice != nil {
		salePrice = *unit.ActualSalePrice
	}

	actorID := appctx.ActorID(ctx)
	now := time.Now().UTC()

	number, err := s.numbers.NextNumber(ctx, NumberPrefix, now)
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}

	req := &Request{
		BaseRecord:    entity.NewBaseRecord(actorID),
		Number:        number,
		IMEI:          im,
		UnitID:        unit.ID,
		SalesOrderID:  order.ID,
		CustomerID:    order.CustomerID,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		ProductName:   unit.ProductName,
		SKU:           unit.SKU,
		SalePrice:     salePrice,
		Reason:        reason,
		Status:        StatusPending,
		RequestedAt:   now,
	}
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create return request: %w", err)
	}

	return req, nil
}

// Approve accepts a pending request: the unit goes back to sellable
// stock, a return movement is appended and the case lands in the
// customer's return history.
func (s *Service) Approve(ctx context.Context, reqID id.ID) (*Request, error) {
	var req *Request
	err := tx.WithRetry(ctx, s.retry, func(ctx context.Context) error {
		req = nil
		return s.txManager.Serializable(ctx, func(ctx context.Context) error {
			var txErr error
			req, txErr = s.approveTx(ctx, reqID)
			return txErr
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "return request approved",
		"number", req.Number,
		"imei", req.IMEI)

	return req, nil
}

func (s *Service) approveTx(ctx context.Context, reqID id.ID) (*Request, error) {
	req, err := s.repo.GetForUpdate(ctx, reqID)
	if err != nil {
		return nil, err
	}
	if err := req.CanProcess(); err != nil {
		return nil, err
	}

	// The unit must still be SOLD on the locked row. A concurrent or
	// repeated approval sees IN_STOCK here and fails cleanly.
	unit, err := s.units.GetForUpdateByIMEI(ctx, req.IMEI)
	if err != nil {
		return nil, err
	}
	if err := unit.Returnable(); err != nil {
		return nil, err
	}

	actorID := appctx.ActorID(ctx)
	now := time.Now().UTC()
	prevStatus := string(unit.Status)

	unit.MarkReturned(actorID)
	if err := s.units.Update(ctx, unit); err != nil {
		return nil, fmt.Errorf("restock unit %s: %w", unit.IMEI, err)
	}

	m := ledger.New(ctx, unit.ID, unit.IMEI, ledger.TypeReturn, 1, prevStatus, string(inventory.StatusInStock)).
		WithOrder(req.SalesOrderID)
	if err := s.movements.Record(ctx, []ledger.Movement{m}); err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		entry := customer.ReturnHistoryEntry{
			ID:              id.New(),
			CustomerID:      *req.CustomerID,
			IMEI:            req.IMEI,
			SalesOrderID:    req.SalesOrderID,
			ReturnRequestID: req.ID,
			Reason:          req.Reason,
			OccurredAt:      now,
		}
		if err := s.customers.AppendReturnHistory(ctx, entry); err != nil {
			return nil, fmt.Errorf("append return history: %w", err)
		}
	}

	req.MarkApproved(now, actorID)
	if err := s.repo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("update return request: %w", err)
	}

	return req, nil
}

// Reject closes a pending request without touching the unit.
func (s *Service) Reject(ctx context.Context, reqID id.ID) (*Request, error) {
	var req *Request
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := s.repo.GetForUpdate(ctx, reqID)
		if err != nil {
			return err
		}
		if err := r.CanProcess(); err != nil {
			return err
		}
		r.MarkRejected(time.Now().UTC(), appctx.ActorID(ctx))
		if err := s.repo.Update(ctx, r); err != nil {
			return fmt.Errorf("update return request: %w", err)
		}
		req = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "return request rejected",
		"number", req.Number,
		"imei", req.IMEI)

	return req, nil
}

// GetByID retrieves a return request.
func (s *Service) GetByID(ctx context.Context, reqID id.ID) (*Request, error) {
	return s.repo.GetByID(ctx, reqID)
}

// List retrieves return requests.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

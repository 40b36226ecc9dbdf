package intake

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
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/catalog"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/inventory"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/ledger"
	"github.com/NguyenTrunggg/phone-store-management-sub000/pkg/logger"
)

// Numberer allocates sequential document numbers.
type Numberer interface {
	NextNumber(ctx context.Context, prefix string, period time.Time) (string, error)
}

// NumberPrefix for purchase orders.
const NumberPrefix = "PO"

// Service commits intake batches. One commit creates the purchase order,
// its lines, one inventory unit per IMEI and one intake movement per
// unit, all in a single serializable transaction.
type Service struct {
	repo      Repository
	units     inventory.Repository
	movements *ledger.Service
	directory catalog.Directory
	numbers   Numberer
	txManager tx.SerializableManager
	retry     tx.RetryConfig
}

// NewService creates a new intake service.
func NewService(
	repo Repository,
	units inventory.Repository,
	movements *ledger.Service,
	directory catalog.Directory,
	numbers Numberer,
	txManager tx.SerializableManager,
) *Service {
	return &Service{
		repo:      repo,
		units:     units,
		movements: movements,
		directory: directory,
		numbers:   numbers,
		txManager: txManager,
		retry:     tx.DefaultRetryConfig(),
	}
}

// ValidateIMEIs classifies a raw IMEI list without committing anything.
// Advisory: the commit re-runs every check inside its own transaction,
// so a clean pre-flight never guarantees a clean commit.
func (s *Service) ValidateIMEIs(ctx context.Context, raws []string) ([]IMEICheck, error) {
	checks := make([]IMEICheck, 0, len(raws))
	seen := make(map[imei.IMEI]struct{}, len(raws))
	lookup := make([]imei.IMEI, 0, len(raws))

	for _, raw := range raws {
		im, err := imei.Parse(raw)
		if err != nil {
			checks = append(checks, IMEICheck{IMEI: raw, Result: CheckMalformed})
			continue
		}
		if _, dup := seen[im]; dup {
			checks = append(checks, IMEICheck{IMEI: im.String(), Result: CheckDuplicateInBatch})
			continue
		}
		seen[im] = struct{}{}
		lookup = append(lookup, im)
		checks = append(checks, IMEICheck{IMEI: im.String(), Result: CheckValidNew})
	}

	if len(lookup) > 0 {
		existing, err := s.units.GetByIMEIs(ctx, lookup)
		if err != nil {
			return nil, fmt.Errorf("check existing units: %w", err)
		}
		for i := range checks {
			if checks[i].Result != CheckValidNew {
				continue
			}
			unit, ok := existing[imei.IMEI(checks[i].IMEI)]
			if !ok {
				continue
			}
			checks[i].CurrentStatus = string(unit.Status)
			if unit.Status.ReintakeNeedsConfirmation() {
				checks[i].Result = CheckExistsNeedsConfirm
			} else {
				checks[i].Result = CheckExistsBlocking
			}
		}
	}

	return checks, nil
}

// Commit runs the intake pipeline for one batch. All-or-nothing: a single
// bad IMEI anywhere in the batch rejects the whole batch with no writes.
func (s *Service) Commit(ctx context.Context, input Input) (*PurchaseOrder, error) {
	// Pass 1: format and in-batch uniqueness. Pure, no I/O.
	groups, all, err := s.parseGroups(input)
	if err != nil {
		return nil, err
	}

	var po *PurchaseOrder
	err = tx.WithRetry(ctx, s.retry, func(ctx context.Context) error {
		po = nil
		return s.txManager.Serializable(ctx, func(ctx context.Context) error {
			var txErr error
			po, txErr = s.commitTx(ctx, input, groups, all)
			return txErr
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "intake committed",
		"number", po.Number,
		"supplier", po.SupplierName,
		"units", po.TotalQuantity)

	return po, nil
}

type parsedGroup struct {
	GroupInput
	imeis []imei.IMEI
}

// parseGroups validates the shape of the input and parses every IMEI.
// Uniqueness is enforced across the whole batch, not per group.
func (s *Service) parseGroups(input Input) ([]parsedGroup, []imei.IMEI, error) {
	if input.SupplierName == "" {
		return nil, nil, apperror.NewValidation("supplier is required").WithDetail("field", "supplierName")
	}
	if len(input.Groups) == 0 {
		return nil, nil, apperror.NewValidation("at least one group is required").WithDetail("field", "groups")
	}

	groups := make([]parsedGroup, 0, len(input.Groups))
	all := make([]imei.IMEI, 0)
	seen := make(map[imei.IMEI]struct{})

	for i, g := range input.Groups {
		if !g.UnitCost.IsPositive() {
			return nil, nil, apperror.NewValidation("unit cost must be positive").
				WithDetail("field", "groups").WithDetail("group", i+1)
		}
		if len(g.IMEIs) == 0 {
			return nil, nil, apperror.NewValidation("at least one IMEI per group is required").
				WithDetail("field", "groups").WithDetail("group", i+1)
		}
		pg := parsedGroup{GroupInput: g, imeis: make([]imei.IMEI, 0, len(g.IMEIs))}
		for _, raw := range g.IMEIs {
			im, err := imei.Parse(raw)
			if err != nil {
				return nil, nil, err
			}
			if _, dup := seen[im]; dup {
				return nil, nil, apperror.NewValidation("duplicate IMEI within batch").
					WithDetail("imei", im.String())
			}
			seen[im] = struct{}{}
			pg.imeis = append(pg.imeis, im)
			all = append(all, im)
		}
		groups = append(groups, pg)
	}

	return groups, all, nil
}

// commitTx is the transactional part of the pipeline: existence checks,
// catalog resolution and all writes against one consistent snapshot.
func (s *Service) commitTx(ctx context.Context, input Input, groups []parsedGroup, all []imei.IMEI) (*PurchaseOrder, error) {
	// Pass 2: existence against live units, re-intake policy.
	existing, err := s.units.GetByIMEIs(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("check existing units: %w", err)
	}
	for _, im := range all {
		unit, ok := existing[im]
		if !ok {
			continue
		}
		if unit.Status.ReintakeNeedsConfirmation() {
			if !input.AllowReintake {
				return nil, apperror.NewReintakeConfirmation(im.String())
			}
			continue
		}
		return nil, apperror.NewDuplicateIMEI(im.String(), string(unit.Status))
	}

	// Pass 3: catalog resolution. Descriptors are snapshotted onto units.
	descriptors := make([]catalog.VariantDescriptor, len(groups))
	for i, g := range groups {
		desc, err := s.directory.ResolveVariant(ctx, g.ProductID, g.VariantID)
		if err != nil {
			return nil, err
		}
		descriptors[i] = desc
	}

	// Pass 4: writes.
	actorID := appctx.ActorID(ctx)
	now := time.Now().UTC()

	number, err := s.numbers.NextNumber(ctx, NumberPrefix, now)
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}

	po := &PurchaseOrder{
		BaseRecord:   entity.NewBaseRecord(actorID),
		Number:       number,
		SupplierName: input.SupplierName,
	}

	newUnits := make([]*inventory.Unit, 0, len(all))
	movements := make([]ledger.Movement, 0, len(all))

	for i, g := range groups {
		desc := descriptors[i]
		line := PurchaseOrderLine{
			ID:        id.New(),
			LineNo:    i + 1,
			ProductID: g.ProductID,
			VariantID: g.VariantID,
			UnitCost:  g.UnitCost,
			Quantity:  len(g.imeis),
			IMEIs:     g.imeis,
		}
		po.Lines = append(po.Lines, line)
		po.TotalQuantity += line.Quantity
		po.TotalCost += g.UnitCost * types.MinorUnits(line.Quantity)

		for _, im := range g.imeis {
			if prev, ok := existing[im]; ok {
				// Confirmed re-intake: the historical record is
				// repurposed in place so the IMEI stays unique.
				prevStatus := string(prev.Status)
				s.readmitUnit(prev, po, input, g, desc, actorID)
				if err := prev.Validate(ctx); err != nil {
					return nil, err
				}
				if err := s.units.Update(ctx, prev); err != nil {
					return nil, fmt.Errorf("re-intake unit %s: %w", im, err)
				}
				m := ledger.New(ctx, prev.ID, im, ledger.TypeIntake, 1, prevStatus, string(inventory.StatusInStock)).
					WithOrder(po.ID).
					WithLocations("", input.Location)
				movements = append(movements, m)
				continue
			}

			unit := s.buildUnit(po, input, g, desc, im, actorID)
			if err := unit.Validate(ctx); err != nil {
				return nil, err
			}
			newUnits = append(newUnits, unit)
			m := ledger.New(ctx, unit.ID, im, ledger.TypeIntake, 1, "", string(inventory.StatusInStock)).
				WithOrder(po.ID).
				WithLocations("", input.Location)
			movements = append(movements, m)
		}
	}

	if err := po.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, po); err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}
	if len(newUnits) > 0 {
		if err := s.units.CreateBatch(ctx, newUnits); err != nil {
			return nil, fmt.Errorf("create units: %w", err)
		}
	}
	if err := s.movements.Record(ctx, movements); err != nil {
		return nil, err
	}

	return po, nil
}

// buildUnit materializes a fresh inventory unit from the intake group and
// the catalog descriptor snapshot.
func (s *Service) buildUnit(po *PurchaseOrder, input Input, g parsedGroup, desc catalog.VariantDescriptor, im imei.IMEI, actorID string) *inventory.Unit {
	return &inventory.Unit{
		BaseRecord:          entity.NewBaseRecord(actorID),
		IMEI:                im,
		ProductID:           g.ProductID,
		VariantID:           g.VariantID,
		ProductName:         desc.ProductName,
		SKU:                 desc.SKU,
		Color:               desc.Color,
		StorageCapacity:     desc.StorageCapacity,
		EntryPrice:          g.UnitCost,
		OriginalRetailPrice: desc.RetailPrice,
		CurrentRetailPrice:  desc.RetailPrice,
		Status:              inventory.StatusInStock,
		CurrentLocation:     input.Location,
		Condition:           "new",
		PurchaseOrderID:     po.ID,
		SupplierName:        input.SupplierName,
	}
}

// readmitUnit rewrites an existing record for a confirmed re-intake: new
// provenance, fresh pricing snapshot, sale linkage cleared.
func (s *Service) readmitUnit(u *inventory.Unit, po *PurchaseOrder, input Input, g parsedGroup, desc catalog.VariantDescriptor, actorID string) {
	u.ProductID = g.ProductID
	u.VariantID = g.VariantID
	u.ProductName = desc.ProductName
	u.SKU = desc.SKU
	u.Color = desc.Color
	u.StorageCapacity = desc.StorageCapacity
	u.EntryPrice = g.UnitCost
	u.OriginalRetailPrice = desc.RetailPrice
	u.CurrentRetailPrice = desc.RetailPrice
	u.Status = inventory.StatusInStock
	u.CurrentLocation = input.Location
	u.Condition = "refurbished"
	u.SalesOrderID = nil
	u.SaleDate = nil
	u.ActualSalePrice = nil
	u.WarrantyStartDate = nil
	u.PurchaseOrderID = po.ID
	u.SupplierName = input.SupplierName
	u.UpdatedBy = actorID
	u.Touch()
}

// GetByID retrieves a purchase order with lines.
func (s *Service) GetByID(ctx context.Context, poID id.ID) (*PurchaseOrder, error) {
	return s.repo.GetByID(ctx, poID)
}

// List retrieves purchase orders.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

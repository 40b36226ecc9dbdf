package inventory

import (
	"context"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
)

// Repository defines persistence operations for inventory units.
// Units are never physically deleted; status changes model their life.
type Repository interface {
	// CreateBatch inserts newly received units (intake commit pass).
	CreateBatch(ctx context.Context, units []*Unit) error

	// GetByID retrieves a unit by primary key.
	GetByID(ctx context.Context, unitID id.ID) (*Unit, error)

	// GetByIMEI retrieves a unit by its IMEI.
	GetByIMEI(ctx context.Context, im imei.IMEI) (*Unit, error)

	// GetByIMEIs bulk-reads units for a set of IMEIs in one query.
	// Missing IMEIs are simply absent from the result map.
	GetByIMEIs(ctx context.Context, ims []imei.IMEI) (map[imei.IMEI]*Unit, error)

	// GetForUpdate retrieves a unit with a row lock, for status flips
	// performed inside a transaction.
	GetForUpdate(ctx context.Context, unitID id.ID) (*Unit, error)

	// GetForUpdateByIMEI retrieves a unit by IMEI with a row lock.
	GetForUpdateByIMEI(ctx context.Context, im imei.IMEI) (*Unit, error)

	// Update writes a modified unit with optimistic locking.
	Update(ctx context.Context, unit *Unit) error

	// List retrieves units with filtering and pagination.
	List(ctx context.Context, filter ListFilter) (ListResult, error)
}

// ListFilter contains filtering options for unit listings.
type ListFilter struct {
	Status    *Status
	ProductID *id.ID
	Location  string
	Search    string // matches IMEI, product name, SKU
	Limit     int
	Offset    int
}

// ListResult contains paginated units.
type ListResult struct {
	Items      []*Unit `json:"items"`
	TotalCount int64   `json:"totalCount"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}

package intake

import (
	"context"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
)

// Repository defines persistence operations for purchase orders.
type Repository interface {
	// Create inserts the purchase order header and its lines.
	Create(ctx context.Context, po *PurchaseOrder) error

	// GetByID retrieves a purchase order with lines.
	GetByID(ctx context.Context, poID id.ID) (*PurchaseOrder, error)

	// List retrieves purchase orders, newest first.
	List(ctx context.Context, filter ListFilter) (ListResult, error)
}

// ListFilter contains filtering options for purchase order listings.
type ListFilter struct {
	Supplier string
	Limit    int
	Offset   int
}

// ListResult contains paginated purchase orders.
type ListResult struct {
	Items      []*PurchaseOrder `json:"items"`
	TotalCount int64            `json:"totalCount"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}

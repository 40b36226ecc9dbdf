package sales

import (
	"context"
	"time"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
)

// Repository defines persistence operations for sales orders.
// Orders are immutable once created; there are no update operations.
type Repository interface {
	// Create inserts the order header and its lines.
	Create(ctx context.Context, order *SalesOrder) error

	// GetByID retrieves an order with lines.
	GetByID(ctx context.Context, orderID id.ID) (*SalesOrder, error)

	// List retrieves orders, newest first.
	List(ctx context.Context, filter ListFilter) (ListResult, error)
}

// ListFilter contains filtering options for order listings.
type ListFilter struct {
	CustomerID *id.ID
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}

// ListResult contains paginated orders.
type ListResult struct {
	Items      []*SalesOrder `json:"items"`
	TotalCount int64         `json:"totalCount"`
	Limit      int           `json:"limit"`
	Offset     int           `json:"offset"`
}

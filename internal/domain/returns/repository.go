package returns

import (
	"context"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
)

// Repository defines persistence operations for return requests.
type Repository interface {
	// Create inserts a new pending request.
	Create(ctx context.Context, req *Request) error

	// GetByID retrieves a request by primary key.
	GetByID(ctx context.Context, reqID id.ID) (*Request, error)

	// GetForUpdate retrieves a request with a row lock for processing.
	GetForUpdate(ctx context.Context, reqID id.ID) (*Request, error)

	// HasPendingForIMEI reports whether a pending request already exists
	// for the IMEI. Must be called inside the creating transaction.
	HasPendingForIMEI(ctx context.Context, im imei.IMEI) (bool, error)

	// Update writes a processed request with optimistic locking.
	Update(ctx context.Context, req *Request) error

	// List retrieves requests, newest first.
	List(ctx context.Context, filter ListFilter) (ListResult, error)
}

// ListFilter contains filtering options for request listings.
type ListFilter struct {
	Status *Status
	IMEI   *imei.IMEI
	Limit  int
	Offset int
}

// ListResult contains paginated requests.
type ListResult struct {
	Items      []*Request `json:"items"`
	TotalCount int64      `json:"totalCount"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}

package customer

import (
	"context"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
)

// Repository defines persistence operations for customers.
type Repository interface {
	// Create inserts a new customer (walk-in path of the sale engine).
	Create(ctx context.Context, c *Customer) error

	// GetByID retrieves a customer by primary key.
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)

	// FindByPhone retrieves a customer by phone number, or a NOT_FOUND
	// AppError when no record matches.
	FindByPhone(ctx context.Context, phone string) (*Customer, error)

	// GetForUpdate retrieves a customer with a row lock for the
	// aggregate read-modify-write inside the sale transaction.
	GetForUpdate(ctx context.Context, customerID id.ID) (*Customer, error)

	// Update writes a modified customer with optimistic locking.
	Update(ctx context.Context, c *Customer) error

	// AppendReturnHistory records an approved return for the customer.
	AppendReturnHistory(ctx context.Context, entry ReturnHistoryEntry) error
}

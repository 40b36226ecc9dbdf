package ledger

import (
	"context"
	"time"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
)

// Repository defines operations for the movement ledger.
// The ledger is append-only: there are no update or delete operations.
type Repository interface {
	// Record batch inserts movements. Must be called inside the same
	// transaction as the state change that produced them.
	Record(ctx context.Context, movements []Movement) error

	// ListByIMEI returns the full movement history for an IMEI in
	// chronological order.
	ListByIMEI(ctx context.Context, im imei.IMEI) ([]Movement, error)

	// SumQuantityByIMEI replays the quantity changes for an IMEI.
	SumQuantityByIMEI(ctx context.Context, im imei.IMEI) (int64, error)

	// List returns movements matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]Movement, error)
}

// Filter for movement queries and exports.
type Filter struct {
	IMEI     *imei.IMEI
	Type     *MovementType
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

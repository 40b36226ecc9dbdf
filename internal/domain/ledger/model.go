// Package ledger provides the append-only stock movement ledger.
// Every unit status or location transition writes exactly one movement in
// the same transaction as the change itself. Movements are never updated
// or deleted; the ledger is the audit trail the rest of the system can be
// reconciled against.
package ledger

import (
	"context"
	"time"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/appctx"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
)

// MovementType classifies a transition.
type MovementType string

const (
	TypeIntake     MovementType = "intake"
	TypeSale       MovementType = "sale"
	TypeReturn     MovementType = "return"
	TypeAdjustment MovementType = "adjustment"
)

var knownTypes = map[MovementType]struct{}{
	TypeIntake:     {},
	TypeSale:       {},
	TypeReturn:     {},
	TypeAdjustment: {},
}

// Movement is one immutable audit record of a unit transition.
type Movement struct {
	// ID is unique identifier for this ledger line (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	UnitID id.ID     `db:"unit_id" json:"unitId"`
	IMEI   imei.IMEI `db:"imei" json:"imei"` // denormalized for ledger-only queries

	Type       MovementType `db:"movement_type" json:"movementType"`
	OccurredAt time.Time    `db:"occurred_at" json:"occurredAt"`

	// QuantityChange is +1 or -1. Replaying the changes for an IMEI must
	// yield exactly the unit's current presence: 1 live, 0 otherwise.
	QuantityChange int `db:"quantity_change" json:"quantityChange"`

	PreviousStatus string `db:"previous_status" json:"previousStatus,omitempty"`
	NewStatus      string `db:"new_status" json:"newStatus"`

	FromLocation string `db:"from_location" json:"fromLocation,omitempty"`
	ToLocation   string `db:"to_location" json:"toLocation,omitempty"`

	ActorID        string `db:"actor_id" json:"actorId,omitempty"`
	RelatedOrderID *id.ID `db:"related_order_id" json:"relatedOrderId,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// New creates a movement stamped with the acting operator from context.
func New(ctx context.Context, unitID id.ID, im imei.IMEI, mt MovementType, qty int, prevStatus, newStatus string) Movement {
	now := time.Now().UTC()
	return Movement{
		ID:             id.New(),
		UnitID:         unitID,
		IMEI:           im,
		Type:           mt,
		OccurredAt:     now,
		QuantityChange: qty,
		PreviousStatus: prevStatus,
		NewStatus:      newStatus,
		ActorID:        appctx.ActorID(ctx),
		CreatedAt:      now,
	}
}

// WithOrder links the movement to the order that caused it.
func (m Movement) WithOrder(orderID id.ID) Movement {
	m.RelatedOrderID = &orderID
	return m
}

// WithLocations records the location change.
func (m Movement) WithLocations(from, to string) Movement {
	m.FromLocation = from
	m.ToLocation = to
	return m
}

// Validate checks the append-only record invariants before insert.
func (m *Movement) Validate() error {
	if _, ok := knownTypes[m.Type]; !ok {
		return apperror.NewValidation("unknown movement type").WithDetail("type", string(m.Type))
	}
	if m.QuantityChange != 1 && m.QuantityChange != -1 {
		return apperror.NewValidation("quantity change must be +1 or -1").
			WithDetail("imei", m.IMEI.String())
	}
	if id.IsNil(m.UnitID) {
		return apperror.NewValidation("unit id is required")
	}
	if !imei.Valid(m.IMEI.String()) {
		return apperror.NewMalformedIMEI(m.IMEI.String())
	}
	return nil
}

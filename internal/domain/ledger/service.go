package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
	"github.com/NguyenTrunggg/phone-store-management-sub000/pkg/logger"
)

// Service provides operations over the movement ledger.
type Service struct {
	repo Repository
}

// NewService creates a new ledger service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record validates and appends movements. Callers must already be inside
// the transaction that performs the corresponding state change.
func (s *Service) Record(ctx context.Context, movements []Movement) error {
	if len(movements) == 0 {
		return nil
	}
	for i := range movements {
		if err := movements[i].Validate(); err != nil {
			return fmt.Errorf("movement %d: %w", i, err)
		}
	}
	if err := s.repo.Record(ctx, movements); err != nil {
		return fmt.Errorf("record movements: %w", err)
	}
	return nil
}

// HistoryForIMEI returns the chronological movement history for an IMEI.
func (s *Service) HistoryForIMEI(ctx context.Context, raw string) ([]Movement, error) {
	im, err := imei.Parse(raw)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByIMEI(ctx, im)
}

// Reconcile replays the ledger for an IMEI and returns the net quantity.
// The invariant: 1 while the unit exists and is not disposed, 0 otherwise.
func (s *Service) Reconcile(ctx context.Context, raw string) (int64, error) {
	im, err := imei.Parse(raw)
	if err != nil {
		return 0, err
	}
	return s.repo.SumQuantityByIMEI(ctx, im)
}

// ExportNDJSON streams movements matching the filter as gzip-compressed
// NDJSON, newest first. Intended for audit extracts consumed offline.
func (s *Service) ExportNDJSON(ctx context.Context, w io.Writer, filter Filter) error {
	movements, err := s.repo.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list movements: %w", err)
	}

	gz := gzip.NewWriter(w)
	enc := json.NewEncoder(gz)
	for i := range movements {
		if err := enc.Encode(&movements[i]); err != nil {
			_ = gz.Close()
			return fmt.Errorf("encode movement: %w", err)
		}
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}

	logger.Info(ctx, "exported movement ledger", "count", len(movements))
	return nil
}

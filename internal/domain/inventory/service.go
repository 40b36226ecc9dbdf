package inventory

import (
	"context"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
)

// Service provides read operations over inventory units. Mutations go
// through the intake, sales, and returns services, which own the
// transactions that keep units, orders, and the ledger consistent.
type Service struct {
	repo Repository
}

// NewService creates a new inventory query service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByIMEI retrieves a unit by IMEI.
func (s *Service) GetByIMEI(ctx context.Context, raw string) (*Unit, error) {
	im, err := imei.Parse(raw)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByIMEI(ctx, im)
}

// List retrieves units with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

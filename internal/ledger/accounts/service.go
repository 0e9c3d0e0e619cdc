package accounts

import (
	"context"

	"github.com/google/uuid"

	"github.com/pharmeo/pharmeo/internal/ledger"
)

// Service exposes the chart of accounts contract consumed by reporting.
type Service struct {
	repo Repository
}

// NewService constructs the chart of accounts service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetDetailAccounts returns the tenant's active detail accounts ordered by
// code ascending. Header accounts never appear here.
func (s *Service) GetDetailAccounts(ctx context.Context, tenantID uuid.UUID) ([]ledger.Account, error) {
	return s.repo.ListDetail(ctx, tenantID)
}

// GetAccount resolves a single account by code.
// Returns ledger.ErrAccountNotFound when the code is unknown; callers must
// surface that rather than ignore it, since an unresolvable code on a posted
// line means the totals are corrupt.
func (s *Service) GetAccount(ctx context.Context, tenantID uuid.UUID, code string) (ledger.Account, error) {
	return s.repo.GetByCode(ctx, tenantID, code)
}

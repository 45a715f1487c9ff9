// Package earning exposes the platform's commission ledger.
package earning

import (
	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
)

type Service struct {
	store *ledger.Store
}

func NewService(store *ledger.Store) *Service {
	return &Service{store: store}
}

func (s *Service) List() []ledger.AdminEarning {
	return s.store.Earnings()
}

func (s *Service) Total() float64 {
	return s.store.EarningsTotal()
}

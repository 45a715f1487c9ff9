// Package correction lets stores ask the admin to amend a past purchase and
// lets the admin resolve those requests.
package correction

import (
	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
)

type Service struct {
	store *ledger.Store
}

func NewService(store *ledger.Store) *Service {
	return &Service{store: store}
}

// File records a pending correction request.
func (s *Service) File(storeID, customerID, message string) ledger.CorrectionRequest {
	return s.store.AddCorrectionRequest(storeID, customerID, message)
}

// Resolve marks the request resolved; the ledger notifies both parties.
func (s *Service) Resolve(requestID string) bool {
	return s.store.ResolveCorrectionRequest(requestID)
}

// ListFor returns the requests visible to the caller: stores see what they
// filed, the admin sees everything.
func (s *Service) ListFor(role ledger.Role, userID string) []ledger.CorrectionRequest {
	if role == ledger.RoleStore {
		return s.store.CorrectionsByStore(userID)
	}
	return s.store.Corrections()
}

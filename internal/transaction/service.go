// Package transaction records purchases against the ledger and serves the
// per-role transaction history.
package transaction

import (
	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
)

type Service struct {
	store *ledger.Store
}

func NewService(store *ledger.Store) *Service {
	return &Service{store: store}
}

// Add records a purchase for a customer at a store. Points derive from the
// amount. A non-empty voucherID consumes that voucher.
func (s *Service) Add(customerID, storeID string, amount float64, voucherID string) ledger.Transaction {
	return s.store.AddTransaction(customerID, storeID, amount, voucherID)
}

// Amend replaces a transaction's amount; points are recomputed.
func (s *Service) Amend(transactionID string, newAmount float64) bool {
	return s.store.UpdateTransaction(transactionID, newAmount)
}

// ListFor returns the history visible to the caller: customers see their
// purchases, stores the purchases they recorded, the admin everything.
func (s *Service) ListFor(role ledger.Role, userID string) []ledger.Transaction {
	switch role {
	case ledger.RoleCustomer:
		return s.store.TransactionsByCustomer(userID)
	case ledger.RoleStore:
		return s.store.TransactionsByStore(userID)
	default:
		return s.store.Transactions()
	}
}

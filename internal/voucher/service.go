// Package voucher handles redemption requests and the voucher lifecycle.
package voucher

import (
	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
)

type Service struct {
	store *ledger.Store
}

func NewService(store *ledger.Store) *Service {
	return &Service{store: store}
}

// Request files a pending voucher for the customer at the given store. The
// commission earning is created by the ledger in the same mutation. Point
// sufficiency is not checked; redeemed points simply go negative in the
// balance until new purchases cover them.
func (s *Service) Request(customerID, storeID string, points int) ledger.Voucher {
	return s.store.RequestVoucher(customerID, storeID, points)
}

// SetStatus moves a voucher to active or used.
func (s *Service) SetStatus(voucherID string, status ledger.VoucherStatus) bool {
	return s.store.UpdateVoucherStatus(voucherID, status)
}

// ListFor returns the vouchers visible to the caller.
func (s *Service) ListFor(role ledger.Role, userID string) []ledger.Voucher {
	switch role {
	case ledger.RoleCustomer:
		return s.store.VouchersByCustomer(userID)
	case ledger.RoleStore:
		return s.store.VouchersByStore(userID)
	default:
		return s.store.Vouchers()
	}
}

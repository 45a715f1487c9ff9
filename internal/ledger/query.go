package ledger

// Read-side helpers backing the role dashboards. All of them are linear
// scans over the snapshot; collections stay small in practice.

// UserByID resolves a user reference, or nil.
func (s *Store) UserByID(id string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.data.Users {
		if u.ID == id {
			found := u
			return &found
		}
	}
	return nil
}

// UserByMobile resolves a user by mobile number, or nil.
func (s *Store) UserByMobile(mobile string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.data.Users {
		if u.Mobile == mobile {
			found := u
			return &found
		}
	}
	return nil
}

// Customers returns every customer account.
func (s *Store) Customers() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []User{}
	for _, u := range s.data.Users {
		if u.Role == RoleCustomer {
			out = append(out, u)
		}
	}
	return out
}

// CustomersOfStore returns the customers a store created.
func (s *Store) CustomersOfStore(storeID string) []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []User{}
	for _, u := range s.data.Users {
		if u.Role == RoleCustomer && u.CreatedByStoreID == storeID {
			out = append(out, u)
		}
	}
	return out
}

// Transactions returns a copy of the full transaction history.
func (s *Store) Transactions() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Transaction, len(s.data.Transactions))
	copy(out, s.data.Transactions)
	return out
}

// TransactionsByCustomer returns a customer's purchases.
func (s *Store) TransactionsByCustomer(customerID string) []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Transaction{}
	for _, t := range s.data.Transactions {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out
}

// TransactionsByStore returns the purchases a store recorded.
func (s *Store) TransactionsByStore(storeID string) []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Transaction{}
	for _, t := range s.data.Transactions {
		if t.StoreID == storeID {
			out = append(out, t)
		}
	}
	return out
}

// Vouchers returns a copy of all vouchers.
func (s *Store) Vouchers() []Voucher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Voucher, len(s.data.Vouchers))
	copy(out, s.data.Vouchers)
	return out
}

// VouchersByCustomer returns a customer's redemption vouchers.
func (s *Store) VouchersByCustomer(customerID string) []Voucher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Voucher{}
	for _, v := range s.data.Vouchers {
		if v.CustomerID == customerID {
			out = append(out, v)
		}
	}
	return out
}

// VouchersByStore returns the vouchers issued against a store.
func (s *Store) VouchersByStore(storeID string) []Voucher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Voucher{}
	for _, v := range s.data.Vouchers {
		if v.StoreID == storeID {
			out = append(out, v)
		}
	}
	return out
}

// PointsBalance is a customer's earned points minus everything already
// committed to vouchers. Pending and active vouchers count as committed;
// points leave the balance at request time.
func (s *Store) PointsBalance(customerID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	balance := 0
	for _, t := range s.data.Transactions {
		if t.CustomerID == customerID {
			balance += t.Points
		}
	}
	for _, v := range s.data.Vouchers {
		if v.CustomerID == customerID {
			balance -= v.PointsRedeemed
		}
	}
	return balance
}

// Corrections returns a copy of all correction requests.
func (s *Store) Corrections() []CorrectionRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CorrectionRequest, len(s.data.CorrectionRequests))
	copy(out, s.data.CorrectionRequests)
	return out
}

// CorrectionsByStore returns the requests a store filed.
func (s *Store) CorrectionsByStore(storeID string) []CorrectionRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []CorrectionRequest{}
	for _, r := range s.data.CorrectionRequests {
		if r.StoreID == storeID {
			out = append(out, r)
		}
	}
	return out
}

// NotificationsFor returns a user's notifications, unread and read alike.
func (s *Store) NotificationsFor(userID string) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Notification{}
	for _, n := range s.data.Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// UnreadCount returns the number of unread notifications for a user.
func (s *Store) UnreadCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.data.Notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count
}

// Earnings returns a copy of the commission history.
func (s *Store) Earnings() []AdminEarning {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AdminEarning, len(s.data.AdminEarnings))
	copy(out, s.data.AdminEarnings)
	return out
}

// EarningsTotal sums all commission amounts.
func (s *Store) EarningsTotal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, e := range s.data.AdminEarnings {
		total += e.Amount
	}
	return total
}

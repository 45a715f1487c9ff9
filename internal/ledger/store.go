package ledger

import (
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"
)

// Persister receives the full aggregate after every successful mutation.
type Persister interface {
	Save(data AppData) error
}

// Rates holds the point arithmetic constants. EGPPerPoint is the currency
// spend required to earn one point, DiscountPerPoint the currency value of
// one redeemed point, CommissionRate the platform's cut of a voucher's
// discount value.
type Rates struct {
	EGPPerPoint      float64
	DiscountPerPoint float64
	CommissionRate   float64
}

// DefaultRates matches the deployed configuration.
func DefaultRates() Rates {
	return Rates{EGPPerPoint: 100, DiscountPerPoint: 0.25, CommissionRate: 0.40}
}

// PasswordResult reports the outcome of a password change.
type PasswordResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Store is the single mutable handle over the aggregate. All writes go
// through it: each operation validates, produces a new snapshot
// copy-on-write style, and hands the result to the persister before
// returning. The mutex makes the single-writer assumption explicit; the
// system is not designed for concurrent multi-writer use.
type Store struct {
	mu      sync.RWMutex
	data    AppData
	persist Persister
	clock   Clock
	ids     *IDGenerator
	rates   Rates
	logger  *slog.Logger
}

func NewStore(initial AppData, persist Persister, clock Clock, rates Rates, logger *slog.Logger) *Store {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		data:    initial.Normalize(),
		persist: persist,
		clock:   clock,
		ids:     NewIDGenerator(clock),
		rates:   rates,
		logger:  logger,
	}
}

// Rates returns the arithmetic constants the store was built with.
func (s *Store) Rates() Rates { return s.rates }

// Snapshot returns a deep copy of the current aggregate.
func (s *Store) Snapshot() AppData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Replace swaps the whole aggregate for an imported one and persists it.
func (s *Store) Replace(data AppData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data.Normalize()
	s.persistLocked()
}

// persistLocked writes the aggregate to durable storage. Persistence
// failures are logged, never surfaced as operation failures: the in-memory
// state is already committed.
func (s *Store) persistLocked() {
	if s.persist == nil {
		return
	}
	if err := s.persist.Save(s.data.Clone()); err != nil {
		s.logger.Error("persist snapshot failed", slog.Any("error", err))
	}
}

func (s *Store) now() string {
	return s.clock.Now().UTC().Format(time.RFC3339)
}

// nextCustomerID returns max existing numeric customer ID + 1, starting at 1.
// Only IDs in the customer subset count; non-numeric IDs are skipped.
func (s *Store) nextCustomerID() string {
	maxID := 0
	for _, u := range s.data.Users {
		if u.Role != RoleCustomer {
			continue
		}
		if n, err := strconv.Atoi(u.ID); err == nil && n > maxID {
			maxID = n
		}
	}
	return strconv.Itoa(maxID + 1)
}

// RegisterUser appends a user with a generated ID. Customers get sequential
// integer IDs scoped to the customer subset; every other role gets a
// "<role>-<epochMillis>" ID. Returns nil when the mobile number is taken.
func (s *Store) RegisterUser(newUser User) *User {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.data.Users {
		if u.Mobile == newUser.Mobile {
			return nil
		}
	}

	if newUser.Role == RoleCustomer {
		newUser.ID = s.nextCustomerID()
	} else {
		newUser.ID = s.ids.Next(string(newUser.Role))
	}

	users := make([]User, len(s.data.Users), len(s.data.Users)+1)
	copy(users, s.data.Users)
	s.data.Users = append(users, newUser)
	s.persistLocked()
	return &newUser
}

// AddCustomer registers a store-created customer. The account starts without
// a password and with an incomplete profile; the customer fills both in via
// CompleteCustomerProfile.
func (s *Store) AddCustomer(name, mobile, storeID string) *User {
	return s.RegisterUser(User{
		Name:             name,
		Mobile:           mobile,
		Role:             RoleCustomer,
		CreatedByStoreID: storeID,
	})
}

// CompleteCustomerProfile sets address and password on the incomplete
// customer with the given mobile and marks the profile complete. Returns
// false when no such customer exists.
func (s *Store) CompleteCustomerProfile(mobile, address, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := false
	users := make([]User, len(s.data.Users))
	copy(users, s.data.Users)
	for i, u := range users {
		if u.Mobile == mobile && u.Role == RoleCustomer && !u.IsProfileComplete {
			u.Address = address
			u.Password = password
			u.IsProfileComplete = true
			users[i] = u
			updated = true
		}
	}
	if !updated {
		return false
	}
	s.data.Users = users
	s.persistLocked()
	return true
}

// AddTransaction records a purchase. Points always derive from the amount;
// a caller never supplies its own point value. When voucherIDToUse is
// non-empty that voucher is marked used without checking its prior status.
func (s *Store) AddTransaction(customerID, storeID string, amount float64, voucherIDToUse string) Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn := Transaction{
		ID:         s.ids.Next("txn"),
		CustomerID: customerID,
		StoreID:    storeID,
		Amount:     amount,
		Points:     s.pointsFor(amount),
		Date:       s.now(),
	}

	txns := make([]Transaction, len(s.data.Transactions), len(s.data.Transactions)+1)
	copy(txns, s.data.Transactions)
	s.data.Transactions = append(txns, txn)

	if voucherIDToUse != "" {
		vouchers := make([]Voucher, len(s.data.Vouchers))
		copy(vouchers, s.data.Vouchers)
		for i, v := range vouchers {
			if v.ID == voucherIDToUse {
				v.Status = VoucherUsed
				vouchers[i] = v
			}
		}
		s.data.Vouchers = vouchers
	}

	s.persistLocked()
	return txn
}

func (s *Store) pointsFor(amount float64) int {
	return int(math.Floor(amount / s.rates.EGPPerPoint))
}

// UpdateTransaction replaces the amount and recomputes points for the
// matching transaction. No-op when the ID is unknown.
func (s *Store) UpdateTransaction(transactionID string, newAmount float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	txns := make([]Transaction, len(s.data.Transactions))
	copy(txns, s.data.Transactions)
	for i, t := range txns {
		if t.ID == transactionID {
			t.Amount = newAmount
			t.Points = s.pointsFor(newAmount)
			txns[i] = t
			found = true
		}
	}
	if !found {
		return false
	}
	s.data.Transactions = txns
	s.persistLocked()
	return true
}

// RequestVoucher appends a pending voucher and its paired commission
// earning, both dated now. Point sufficiency is not checked here; clients
// gate what they offer.
func (s *Store) RequestVoucher(customerID, storeID string, pointsToRedeem int) Voucher {
	s.mu.Lock()
	defer s.mu.Unlock()

	discount := float64(pointsToRedeem) * s.rates.DiscountPerPoint
	voucher := Voucher{
		ID:             s.ids.Next("vcr"),
		CustomerID:     customerID,
		StoreID:        storeID,
		PointsRedeemed: pointsToRedeem,
		DiscountAmount: discount,
		Status:         VoucherPending,
		RequestDate:    s.now(),
	}
	earning := AdminEarning{
		ID:        s.ids.Next("earn"),
		VoucherID: voucher.ID,
		StoreID:   storeID,
		Amount:    discount * s.rates.CommissionRate,
		Date:      s.now(),
	}

	vouchers := make([]Voucher, len(s.data.Vouchers), len(s.data.Vouchers)+1)
	copy(vouchers, s.data.Vouchers)
	s.data.Vouchers = append(vouchers, voucher)

	earnings := make([]AdminEarning, len(s.data.AdminEarnings), len(s.data.AdminEarnings)+1)
	copy(earnings, s.data.AdminEarnings)
	s.data.AdminEarnings = append(earnings, earning)

	s.persistLocked()
	return voucher
}

// UpdateVoucherStatus moves a voucher to active or used. Activation stamps
// the activation date. Status never moves backward: a used voucher stays
// used. No-op when the ID is unknown or the transition would regress.
func (s *Store) UpdateVoucherStatus(voucherID string, status VoucherStatus) bool {
	if status != VoucherActive && status != VoucherUsed {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	vouchers := make([]Voucher, len(s.data.Vouchers))
	copy(vouchers, s.data.Vouchers)
	for i, v := range vouchers {
		if v.ID != voucherID {
			continue
		}
		if v.Status == VoucherUsed {
			return false
		}
		v.Status = status
		if status == VoucherActive {
			v.ActivationDate = s.now()
		}
		vouchers[i] = v
		changed = true
	}
	if !changed {
		return false
	}
	s.data.Vouchers = vouchers
	s.persistLocked()
	return true
}

// AddCorrectionRequest files a store's request to amend a past purchase.
func (s *Store) AddCorrectionRequest(storeID, customerID, message string) CorrectionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := CorrectionRequest{
		ID:         s.ids.Next("cr"),
		StoreID:    storeID,
		CustomerID: customerID,
		Message:    message,
		Date:       s.now(),
		Status:     CorrectionPending,
	}

	reqs := make([]CorrectionRequest, len(s.data.CorrectionRequests), len(s.data.CorrectionRequests)+1)
	copy(reqs, s.data.CorrectionRequests)
	s.data.CorrectionRequests = append(reqs, req)
	s.persistLocked()
	return req
}

// ResolveCorrectionRequest marks the request resolved and notifies both
// parties. The counterpart's name falls back to "unknown" when the referenced
// user no longer resolves. No-op when the request ID is unknown.
func (s *Store) ResolveCorrectionRequest(requestID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var resolved *CorrectionRequest
	reqs := make([]CorrectionRequest, len(s.data.CorrectionRequests))
	copy(reqs, s.data.CorrectionRequests)
	for i, r := range reqs {
		if r.ID == requestID {
			r.Status = CorrectionResolved
			reqs[i] = r
			resolved = &r
			break
		}
	}
	if resolved == nil {
		return false
	}
	s.data.CorrectionRequests = reqs

	storeName := "unknown"
	customerName := "unknown"
	var store, customer *User
	for i := range s.data.Users {
		switch s.data.Users[i].ID {
		case resolved.StoreID:
			store = &s.data.Users[i]
			storeName = store.Name
		case resolved.CustomerID:
			customer = &s.data.Users[i]
			customerName = customer.Name
		}
	}

	if store != nil {
		s.appendNotificationLocked(store.ID,
			`Your correction request regarding customer "`+customerName+`" has been processed.`)
	}
	if customer != nil {
		s.appendNotificationLocked(customer.ID,
			`Store "`+storeName+`" amended one of your purchases.`)
	}

	s.persistLocked()
	return true
}

func (s *Store) appendNotificationLocked(userID, message string) Notification {
	n := Notification{
		ID:      s.ids.Next("notif"),
		UserID:  userID,
		Message: message,
		Date:    s.now(),
		IsRead:  false,
	}
	notifs := make([]Notification, len(s.data.Notifications), len(s.data.Notifications)+1)
	copy(notifs, s.data.Notifications)
	s.data.Notifications = append(notifs, n)
	return n
}

// AddNotification appends an unread notification for the given user.
func (s *Store) AddNotification(userID, message string) Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.appendNotificationLocked(userID, message)
	s.persistLocked()
	return n
}

// MarkNotificationAsRead flips isRead; the flip is one-way. No-op when the
// ID is unknown.
func (s *Store) MarkNotificationAsRead(notificationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	notifs := make([]Notification, len(s.data.Notifications))
	copy(notifs, s.data.Notifications)
	for i, n := range notifs {
		if n.ID == notificationID {
			n.IsRead = true
			notifs[i] = n
			found = true
		}
	}
	if !found {
		return false
	}
	s.data.Notifications = notifs
	s.persistLocked()
	return true
}

// UpdateUserPassword verifies the current password before replacing it. The
// comparison is a plain equality check; credentials are stored as given.
func (s *Store) UpdateUserPassword(userID, oldPassword, newPassword string) PasswordResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, u := range s.data.Users {
		if u.ID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return PasswordResult{Success: false, Message: "user not found"}
	}
	if s.data.Users[idx].Password != oldPassword {
		return PasswordResult{Success: false, Message: "incorrect current password"}
	}

	users := make([]User, len(s.data.Users))
	copy(users, s.data.Users)
	users[idx].Password = newPassword
	s.data.Users = users
	s.persistLocked()
	return PasswordResult{Success: true, Message: "password updated"}
}

// UpdateUserAddress replaces the address field. No-op when the user is
// unknown.
func (s *Store) UpdateUserAddress(userID, newAddress string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	users := make([]User, len(s.data.Users))
	copy(users, s.data.Users)
	for i, u := range users {
		if u.ID == userID {
			u.Address = newAddress
			users[i] = u
			found = true
		}
	}
	if !found {
		return false
	}
	s.data.Users = users
	s.persistLocked()
	return true
}

// Authenticate returns the user matching mobile, password and role exactly,
// or nil. Read-only; sessions live outside the aggregate.
func (s *Store) Authenticate(mobile, password string, role Role) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.data.Users {
		if u.Mobile == mobile && u.Password == password && u.Role == role {
			found := u
			return &found
		}
	}
	return nil
}

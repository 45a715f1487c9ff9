// Package user exposes account operations over the shared ledger store:
// registration, sign-in, store-created customers, profile completion and
// profile edits.
package user

import (
	"errors"

	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrMobileExists       = errors.New("mobile number already registered")
	ErrInvalidCredentials = errors.New("invalid mobile, password or role")
)

type Service struct {
	store *ledger.Store
}

func NewService(store *ledger.Store) *Service {
	return &Service{store: store}
}

func (s *Service) Register(u ledger.User) (ledger.User, error) {
	created := s.store.RegisterUser(u)
	if created == nil {
		return ledger.User{}, ErrMobileExists
	}
	return *created, nil
}

func (s *Service) Authenticate(mobile, password string, role ledger.Role) (ledger.User, error) {
	u := s.store.Authenticate(mobile, password, role)
	if u == nil {
		return ledger.User{}, ErrInvalidCredentials
	}
	return *u, nil
}

func (s *Service) AddCustomer(name, mobile, storeID string) (ledger.User, error) {
	created := s.store.AddCustomer(name, mobile, storeID)
	if created == nil {
		return ledger.User{}, ErrMobileExists
	}
	return *created, nil
}

func (s *Service) CompleteProfile(mobile, address, password string) bool {
	return s.store.CompleteCustomerProfile(mobile, address, password)
}

func (s *Service) Profile(userID string) (ledger.User, error) {
	u := s.store.UserByID(userID)
	if u == nil {
		return ledger.User{}, ErrNotFound
	}
	return *u, nil
}

func (s *Service) ChangePassword(userID, oldPassword, newPassword string) ledger.PasswordResult {
	return s.store.UpdateUserPassword(userID, oldPassword, newPassword)
}

func (s *Service) ChangeAddress(userID, newAddress string) bool {
	return s.store.UpdateUserAddress(userID, newAddress)
}

// Customers returns the customer accounts visible to the caller: a store
// sees the customers it created, the admin sees all of them.
func (s *Service) Customers(role ledger.Role, userID string) []ledger.User {
	if role == ledger.RoleAdmin {
		return s.store.Customers()
	}
	return s.store.CustomersOfStore(userID)
}

// PointsBalance reports a customer's spendable points.
func (s *Service) PointsBalance(customerID string) int {
	return s.store.PointsBalance(customerID)
}

func sanitizeUser(u ledger.User) ledger.User {
	u.Password = ""
	return u
}

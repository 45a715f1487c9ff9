// Package ledger holds the canonical loyalty aggregate: users, purchase
// transactions, redemption vouchers, correction requests, notifications and
// the platform's commission earnings. Entities reference each other by string
// ID only; lookups are linear scans over the in-memory collections.
package ledger

// Role classifies a user account.
type Role string

const (
	RoleStore    Role = "store"
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// VoucherStatus progresses pending -> active -> used and never moves back.
type VoucherStatus string

const (
	VoucherPending VoucherStatus = "pending"
	VoucherActive  VoucherStatus = "active"
	VoucherUsed    VoucherStatus = "used"
)

// CorrectionStatus is pending until an admin resolves the request.
type CorrectionStatus string

const (
	CorrectionPending  CorrectionStatus = "pending"
	CorrectionResolved CorrectionStatus = "resolved"
)

type User struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Mobile            string `json:"mobile"`
	Password          string `json:"password,omitempty"`
	Role              Role   `json:"role"`
	Address           string `json:"address,omitempty"`
	IsProfileComplete bool   `json:"isProfileComplete,omitempty"`
	CreatedByStoreID  string `json:"createdByStoreId,omitempty"`
}

type Transaction struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customerId"`
	StoreID    string  `json:"storeId"`
	Amount     float64 `json:"amount"`
	Points     int     `json:"points"`
	Date       string  `json:"date"`
}

type Voucher struct {
	ID             string        `json:"id"`
	CustomerID     string        `json:"customerId"`
	StoreID        string        `json:"storeId"`
	PointsRedeemed int           `json:"pointsRedeemed"`
	DiscountAmount float64       `json:"discountAmount"`
	Status         VoucherStatus `json:"status"`
	RequestDate    string        `json:"requestDate"`
	ActivationDate string        `json:"activationDate,omitempty"`
}

type CorrectionRequest struct {
	ID         string           `json:"id"`
	StoreID    string           `json:"storeId"`
	CustomerID string           `json:"customerId"`
	Message    string           `json:"message"`
	Date       string           `json:"date"`
	Status     CorrectionStatus `json:"status"`
}

type Notification struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Message string `json:"message"`
	Date    string `json:"date"`
	IsRead  bool   `json:"isRead"`
}

// AdminEarning records the platform commission taken when a voucher is
// requested. Exactly one earning exists per voucher.
type AdminEarning struct {
	ID        string  `json:"id"`
	VoucherID string  `json:"voucherId"`
	StoreID   string  `json:"storeId"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
}

// AppData is the full aggregate. Slice order is insertion order and is kept
// for history display; correctness never depends on it.
type AppData struct {
	Users              []User              `json:"users"`
	Transactions       []Transaction       `json:"transactions"`
	Vouchers           []Voucher           `json:"vouchers"`
	CorrectionRequests []CorrectionRequest `json:"correctionRequests"`
	Notifications      []Notification      `json:"notifications"`
	AdminEarnings      []AdminEarning      `json:"adminEarnings"`
}

// Seeded admin credentials used when no snapshot exists yet.
const (
	SeedAdminID       = "admin-0"
	SeedAdminMobile   = "admin"
	SeedAdminPassword = "admin"
)

// Bootstrap returns the initial aggregate: one seeded admin account and
// empty collections.
func Bootstrap() AppData {
	return AppData{
		Users: []User{{
			ID:                SeedAdminID,
			Name:              "Admin",
			Mobile:            SeedAdminMobile,
			Password:          SeedAdminPassword,
			Role:              RoleAdmin,
			IsProfileComplete: true,
		}},
		Transactions:       []Transaction{},
		Vouchers:           []Voucher{},
		CorrectionRequests: []CorrectionRequest{},
		Notifications:      []Notification{},
		AdminEarnings:      []AdminEarning{},
	}
}

// Clone returns a deep copy of the aggregate. Entities are plain values, so
// copying the slices is enough.
func (d AppData) Clone() AppData {
	out := AppData{
		Users:              make([]User, len(d.Users)),
		Transactions:       make([]Transaction, len(d.Transactions)),
		Vouchers:           make([]Voucher, len(d.Vouchers)),
		CorrectionRequests: make([]CorrectionRequest, len(d.CorrectionRequests)),
		Notifications:      make([]Notification, len(d.Notifications)),
		AdminEarnings:      make([]AdminEarning, len(d.AdminEarnings)),
	}
	copy(out.Users, d.Users)
	copy(out.Transactions, d.Transactions)
	copy(out.Vouchers, d.Vouchers)
	copy(out.CorrectionRequests, d.CorrectionRequests)
	copy(out.Notifications, d.Notifications)
	copy(out.AdminEarnings, d.AdminEarnings)
	return out
}

// Normalize replaces nil collections with empty ones so older snapshots that
// predate correctionRequests, notifications or adminEarnings load cleanly.
func (d AppData) Normalize() AppData {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Transactions == nil {
		d.Transactions = []Transaction{}
	}
	if d.Vouchers == nil {
		d.Vouchers = []Voucher{}
	}
	if d.CorrectionRequests == nil {
		d.CorrectionRequests = []CorrectionRequest{}
	}
	if d.Notifications == nil {
		d.Notifications = []Notification{}
	}
	if d.AdminEarnings == nil {
		d.AdminEarnings = []AdminEarning{}
	}
	return d
}

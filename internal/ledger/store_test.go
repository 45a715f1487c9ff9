package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type countingPersister struct {
	saves []AppData
}

func (p *countingPersister) Save(data AppData) error {
	p.saves = append(p.saves, data)
	return nil
}

func testRates() Rates {
	return Rates{EGPPerPoint: 10, DiscountPerPoint: 0.5, CommissionRate: 0.40}
}

func newTestStore() (*Store, *countingPersister, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	persister := &countingPersister{}
	store := NewStore(Bootstrap(), persister, clock, testRates(), nil)
	return store, persister, clock
}

func TestRegisterUser_DuplicateMobileRejected(t *testing.T) {
	store, _, _ := newTestStore()

	first := store.RegisterUser(User{Name: "Shop A", Mobile: "0100", Password: "pw", Role: RoleStore})
	require.NotNil(t, first)

	before := len(store.Snapshot().Users)
	second := store.RegisterUser(User{Name: "Shop B", Mobile: "0100", Password: "pw", Role: RoleStore})
	require.Nil(t, second)
	require.Len(t, store.Snapshot().Users, before)
}

func TestRegisterUser_CustomerIDsSequential(t *testing.T) {
	store, _, _ := newTestStore()

	c1 := store.RegisterUser(User{Name: "C1", Mobile: "0111", Role: RoleCustomer})
	require.NotNil(t, c1)
	require.Equal(t, "1", c1.ID)

	// interleave a store registration; it must not consume a customer ID
	st := store.RegisterUser(User{Name: "S", Mobile: "0222", Role: RoleStore})
	require.NotNil(t, st)
	require.Contains(t, st.ID, "store-")

	c2 := store.RegisterUser(User{Name: "C2", Mobile: "0333", Role: RoleCustomer})
	require.NotNil(t, c2)
	require.Equal(t, "2", c2.ID)
}

func TestIDGenerator_NoSameMillisCollision(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	gen := NewIDGenerator(clock)

	a := gen.Next("txn")
	b := gen.Next("txn")
	require.NotEqual(t, a, b)
}

func TestAddCustomer_StartsIncomplete(t *testing.T) {
	store, _, _ := newTestStore()

	c := store.AddCustomer("Mona", "0100", "store-1")
	require.NotNil(t, c)
	require.Equal(t, RoleCustomer, c.Role)
	require.False(t, c.IsProfileComplete)
	require.Empty(t, c.Password)
	require.Equal(t, "store-1", c.CreatedByStoreID)
}

func TestCompleteCustomerProfile(t *testing.T) {
	store, _, _ := newTestStore()
	store.AddCustomer("Mona", "0100", "store-1")

	require.True(t, store.CompleteCustomerProfile("0100", "12 Nile St", "secret"))

	u := store.UserByMobile("0100")
	require.NotNil(t, u)
	require.True(t, u.IsProfileComplete)
	require.Equal(t, "12 Nile St", u.Address)
	require.Equal(t, "secret", u.Password)

	// already complete: second call is a no-op
	require.False(t, store.CompleteCustomerProfile("0100", "x", "y"))
	// unknown mobile
	require.False(t, store.CompleteCustomerProfile("0999", "x", "y"))
}

func TestAddTransaction_DerivesPoints(t *testing.T) {
	store, _, _ := newTestStore()

	txn := store.AddTransaction("1", "store-1", 257.5, "")
	require.Equal(t, 25, txn.Points) // floor(257.5 / 10)
	require.Equal(t, 257.5, txn.Amount)
	require.NotEmpty(t, txn.Date)

	data := store.Snapshot()
	require.Len(t, data.Transactions, 1)
}

func TestAddTransaction_MarksVoucherUsed(t *testing.T) {
	store, _, _ := newTestStore()

	v := store.RequestVoucher("1", "store-1", 20)
	require.Equal(t, VoucherPending, v.Status)

	// no status precondition: a pending voucher can be consumed directly
	store.AddTransaction("1", "store-1", 100, v.ID)

	vouchers := store.Vouchers()
	require.Len(t, vouchers, 1)
	require.Equal(t, VoucherUsed, vouchers[0].Status)
}

func TestUpdateTransaction_RecomputesPoints(t *testing.T) {
	store, _, _ := newTestStore()
	txn := store.AddTransaction("1", "store-1", 100, "")
	require.Equal(t, 10, txn.Points)

	require.True(t, store.UpdateTransaction(txn.ID, 55))
	got := store.Transactions()[0]
	require.Equal(t, 55.0, got.Amount)
	require.Equal(t, 5, got.Points)

	require.False(t, store.UpdateTransaction("txn-missing", 99))
}

func TestRequestVoucher_PairsEarning(t *testing.T) {
	store, _, _ := newTestStore()

	v := store.RequestVoucher("1", "store-1", 40)
	require.Equal(t, 20.0, v.DiscountAmount) // 40 * 0.5

	earnings := store.Earnings()
	require.Len(t, earnings, 1)
	require.Equal(t, v.ID, earnings[0].VoucherID)
	require.Equal(t, "store-1", earnings[0].StoreID)
	require.InDelta(t, 8.0, earnings[0].Amount, 1e-9) // 20 * 0.40
}

func TestUpdateVoucherStatus_ForwardOnly(t *testing.T) {
	store, _, _ := newTestStore()
	v := store.RequestVoucher("1", "store-1", 10)

	require.True(t, store.UpdateVoucherStatus(v.ID, VoucherActive))
	activated := store.Vouchers()[0]
	require.Equal(t, VoucherActive, activated.Status)
	require.NotEmpty(t, activated.ActivationDate)

	require.True(t, store.UpdateVoucherStatus(v.ID, VoucherUsed))
	require.Equal(t, VoucherUsed, store.Vouchers()[0].Status)

	// used is terminal
	require.False(t, store.UpdateVoucherStatus(v.ID, VoucherActive))
	require.Equal(t, VoucherUsed, store.Vouchers()[0].Status)

	// pending is never a valid target
	require.False(t, store.UpdateVoucherStatus(v.ID, VoucherPending))
	require.False(t, store.UpdateVoucherStatus("vcr-missing", VoucherActive))
}

func TestResolveCorrectionRequest_NotifiesBothParties(t *testing.T) {
	store, _, _ := newTestStore()
	st := store.RegisterUser(User{Name: "City Shop", Mobile: "0100", Role: RoleStore})
	cust := store.RegisterUser(User{Name: "Mona", Mobile: "0200", Role: RoleCustomer})

	req := store.AddCorrectionRequest(st.ID, cust.ID, "amount was wrong")
	require.Equal(t, CorrectionPending, req.Status)

	require.True(t, store.ResolveCorrectionRequest(req.ID))

	require.Equal(t, CorrectionResolved, store.Corrections()[0].Status)

	storeNotifs := store.NotificationsFor(st.ID)
	custNotifs := store.NotificationsFor(cust.ID)
	require.Len(t, storeNotifs, 1)
	require.Len(t, custNotifs, 1)
	require.Contains(t, storeNotifs[0].Message, "Mona")
	require.Contains(t, custNotifs[0].Message, "City Shop")
	require.False(t, storeNotifs[0].IsRead)

	require.False(t, store.ResolveCorrectionRequest("cr-missing"))
}

func TestResolveCorrectionRequest_UnknownCounterpartFallback(t *testing.T) {
	store, _, _ := newTestStore()
	st := store.RegisterUser(User{Name: "City Shop", Mobile: "0100", Role: RoleStore})

	// customer reference that never resolves
	req := store.AddCorrectionRequest(st.ID, "ghost", "typo")
	require.True(t, store.ResolveCorrectionRequest(req.ID))

	storeNotifs := store.NotificationsFor(st.ID)
	require.Len(t, storeNotifs, 1)
	require.Contains(t, storeNotifs[0].Message, "unknown")
	// no notification for the unresolvable customer
	require.Empty(t, store.NotificationsFor("ghost"))
}

func TestMarkNotificationAsRead(t *testing.T) {
	store, _, _ := newTestStore()
	n := store.AddNotification("1", "hello")
	require.False(t, n.IsRead)

	require.True(t, store.MarkNotificationAsRead(n.ID))
	require.True(t, store.NotificationsFor("1")[0].IsRead)

	require.False(t, store.MarkNotificationAsRead("notif-missing"))
}

func TestUpdateUserPassword(t *testing.T) {
	store, _, _ := newTestStore()

	res := store.UpdateUserPassword("nope", "a", "b")
	require.False(t, res.Success)
	require.Equal(t, "user not found", res.Message)

	res = store.UpdateUserPassword(SeedAdminID, "wrong", "b")
	require.False(t, res.Success)
	require.Equal(t, "incorrect current password", res.Message)
	require.Equal(t, SeedAdminPassword, store.UserByID(SeedAdminID).Password)

	res = store.UpdateUserPassword(SeedAdminID, SeedAdminPassword, "fresh")
	require.True(t, res.Success)
	require.Equal(t, "fresh", store.UserByID(SeedAdminID).Password)
}

func TestUpdateUserAddress(t *testing.T) {
	store, _, _ := newTestStore()
	c := store.RegisterUser(User{Name: "Mona", Mobile: "0100", Role: RoleCustomer})

	require.True(t, store.UpdateUserAddress(c.ID, "9 Tahrir Sq"))
	require.Equal(t, "9 Tahrir Sq", store.UserByID(c.ID).Address)
	require.False(t, store.UpdateUserAddress("missing", "x"))
}

func TestAuthenticate_ExactTripleMatch(t *testing.T) {
	store, _, _ := newTestStore()
	store.RegisterUser(User{Name: "Mona", Mobile: "0100", Password: "pw", Role: RoleCustomer})

	require.NotNil(t, store.Authenticate("0100", "pw", RoleCustomer))
	require.Nil(t, store.Authenticate("0100", "pw", RoleStore))
	require.Nil(t, store.Authenticate("0100", "bad", RoleCustomer))
	require.Nil(t, store.Authenticate("0999", "pw", RoleCustomer))
	require.NotNil(t, store.Authenticate(SeedAdminMobile, SeedAdminPassword, RoleAdmin))
}

func TestEveryMutationPersists(t *testing.T) {
	store, persister, _ := newTestStore()

	c := store.RegisterUser(User{Name: "Mona", Mobile: "0100", Role: RoleCustomer})
	store.CompleteCustomerProfile("0100", "addr", "pw")
	txn := store.AddTransaction(c.ID, "store-1", 100, "")
	store.UpdateTransaction(txn.ID, 50)
	v := store.RequestVoucher(c.ID, "store-1", 5)
	store.UpdateVoucherStatus(v.ID, VoucherActive)
	req := store.AddCorrectionRequest("store-1", c.ID, "msg")
	store.ResolveCorrectionRequest(req.ID)
	n := store.AddNotification(c.ID, "hi")
	store.MarkNotificationAsRead(n.ID)
	store.UpdateUserPassword(c.ID, "pw", "pw2")
	store.UpdateUserAddress(c.ID, "addr2")
	store.Replace(Bootstrap())

	require.Len(t, persister.saves, 13)

	// failed validation must not persist
	before := len(persister.saves)
	store.RegisterUser(User{Name: "Dup", Mobile: "0100", Role: RoleCustomer})
	store.UpdateTransaction("txn-missing", 1)
	require.Len(t, persister.saves, before)
}

func TestSnapshotIsACopy(t *testing.T) {
	store, _, _ := newTestStore()
	snap := store.Snapshot()
	snap.Users[0].Name = "tampered"
	require.Equal(t, "Admin", store.UserByID(SeedAdminID).Name)
}

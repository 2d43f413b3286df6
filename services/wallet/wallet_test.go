package wallet

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingRepo "servana/database/repository/booking"
	walletRepo "servana/database/repository/wallet"
	"servana/models"
	"servana/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeWalletRepo is an in-memory WalletRepository with the same
// all-or-nothing payment semantics as the Mongo transaction.
type fakeWalletRepo struct {
	mu      sync.Mutex
	wallets map[string]*models.Wallet
	ledger  []models.LedgerEntry
	paid    map[string]bool
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{
		wallets: make(map[string]*models.Wallet),
		paid:    make(map[string]bool),
	}
}

func (f *fakeWalletRepo) GetByUserID(_ context.Context, userID string) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[userID]
	if !ok {
		return nil, nil
	}
	copied := *w
	return &copied, nil
}

func (f *fakeWalletRepo) Create(_ context.Context, wallet *models.Wallet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *wallet
	f.wallets[wallet.UserID] = &copied
	return nil
}

func (f *fakeWalletRepo) Credit(_ context.Context, userID string, amount float64, narration string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.wallets[userID]
	w.Balance += amount
	f.ledger = append(f.ledger, models.LedgerEntry{
		ID: uuid.New().String(), WalletID: w.ID, UserID: userID,
		Type: models.LedgerCredit, Amount: amount, Balance: w.Balance,
		Narration: narration, CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (f *fakeWalletRepo) ListLedger(_ context.Context, userID string) ([]models.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.LedgerEntry
	for i := len(f.ledger) - 1; i >= 0; i-- {
		if f.ledger[i].UserID == userID {
			out = append(out, f.ledger[i])
		}
	}
	return out, nil
}

func (f *fakeWalletRepo) ApplyBookingPayment(_ context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	customer := f.wallets[booking.CustomerID]
	provider := f.wallets[booking.ProviderID]
	if customer.Balance < booking.TotalAmount {
		return walletRepo.ErrInsufficientFunds
	}
	now := time.Now().UTC()
	customer.Balance -= booking.TotalAmount
	f.ledger = append(f.ledger, models.LedgerEntry{
		ID: uuid.New().String(), WalletID: customer.ID, UserID: booking.CustomerID,
		BookingID: booking.ID, Type: models.LedgerDebit, Amount: booking.TotalAmount,
		Balance: customer.Balance, CreatedAt: now,
	})
	provider.Balance += booking.TotalAmount
	f.ledger = append(f.ledger, models.LedgerEntry{
		ID: uuid.New().String(), WalletID: provider.ID, UserID: booking.ProviderID,
		BookingID: booking.ID, Type: models.LedgerCredit, Amount: booking.TotalAmount,
		Balance: provider.Balance, CreatedAt: now,
	})
	f.paid[booking.ID] = true
	return nil
}

// fakeBookingStore implements only the lookups the wallet service touches.
type fakeBookingStore struct {
	bookingRepo.BookingRepository
	bookings map[string]*models.Booking
}

func (f *fakeBookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

type silentNotifier struct{}

func (silentNotifier) Notify(context.Context, string, string, string, map[string]string) {}

type walletEnv struct {
	svc      *DefaultWalletService
	repo     *fakeWalletRepo
	bookings *fakeBookingStore
}

func newWalletEnv() *walletEnv {
	repo := newFakeWalletRepo()
	bookings := &fakeBookingStore{bookings: make(map[string]*models.Booking)}
	svc := &DefaultWalletService{
		Repo:         repo,
		BookingRepo:  bookings,
		Notification: silentNotifier{},
		Logger:       zap.NewNop(),
	}
	return &walletEnv{svc: svc, repo: repo, bookings: bookings}
}

func (env *walletEnv) addBooking(id, customerID, providerID string, amount float64, status string) *models.Booking {
	b := &models.Booking{
		ID: id, CustomerID: customerID, ProviderID: providerID,
		Status: status, TotalAmount: amount, Currency: "NGN",
		PaymentStatus: models.PaymentUnpaid,
	}
	env.bookings.bookings[id] = b
	return b
}

func TestGetWalletCreatesOnFirstAccess(t *testing.T) {
	env := newWalletEnv()
	ctx := context.Background()

	w, err := env.svc.GetWallet(ctx, "cust-1")
	require.NoError(t, err)
	assert.Zero(t, w.Balance)

	again, err := env.svc.GetWallet(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, w.ID, again.ID)
}

func TestDeposit(t *testing.T) {
	env := newWalletEnv()
	ctx := context.Background()

	w, err := env.svc.Deposit(ctx, "cust-1", 10000, "top up")
	require.NoError(t, err)
	assert.Equal(t, 10000.0, w.Balance)

	_, err = env.svc.Deposit(ctx, "cust-1", 0, "")
	assert.Equal(t, utils.KindValidationFailed, utils.ErrorKindOf(err))
	_, err = env.svc.Deposit(ctx, "cust-1", -5, "")
	assert.Equal(t, utils.KindValidationFailed, utils.ErrorKindOf(err))

	entries, err := env.svc.ListLedger(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.LedgerCredit, entries[0].Type)
	assert.Equal(t, 10000.0, entries[0].Balance)
}

func TestPayForBookingMovesFundsAtomically(t *testing.T) {
	env := newWalletEnv()
	ctx := context.Background()

	_, err := env.svc.Deposit(ctx, "cust-1", 10000, "top up")
	require.NoError(t, err)
	env.addBooking("bk-1", "cust-1", "prov-1", 3000, models.StatusCompleted)

	paid, err := env.svc.PayForBooking(ctx, "bk-1", "cust-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	assert.True(t, env.repo.paid["bk-1"])

	customer, err := env.svc.GetWallet(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, 7000.0, customer.Balance)
	provider, err := env.svc.GetWallet(ctx, "prov-1")
	require.NoError(t, err)
	assert.Equal(t, 3000.0, provider.Balance)

	// Exactly one debit on the customer side, one credit on the provider side.
	custEntries, err := env.svc.ListLedger(ctx, "cust-1")
	require.NoError(t, err)
	var debits int
	for _, e := range custEntries {
		if e.BookingID == "bk-1" {
			assert.Equal(t, models.LedgerDebit, e.Type)
			debits++
		}
	}
	assert.Equal(t, 1, debits)

	provEntries, err := env.svc.ListLedger(ctx, "prov-1")
	require.NoError(t, err)
	require.Len(t, provEntries, 1)
	assert.Equal(t, models.LedgerCredit, provEntries[0].Type)
	assert.Equal(t, "bk-1", provEntries[0].BookingID)
}

func TestPayForBookingInsufficientFunds(t *testing.T) {
	env := newWalletEnv()
	ctx := context.Background()

	_, err := env.svc.Deposit(ctx, "cust-1", 1000, "top up")
	require.NoError(t, err)
	env.addBooking("bk-1", "cust-1", "prov-1", 3000, models.StatusCompleted)

	_, err = env.svc.PayForBooking(ctx, "bk-1", "cust-1")
	assert.Equal(t, utils.KindConflict, utils.ErrorKindOf(err))

	// Nothing moved and the booking stayed unpaid.
	customer, err := env.svc.GetWallet(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, customer.Balance)
	provider, err := env.svc.GetWallet(ctx, "prov-1")
	require.NoError(t, err)
	assert.Zero(t, provider.Balance)
	assert.False(t, env.repo.paid["bk-1"])

	provEntries, err := env.svc.ListLedger(ctx, "prov-1")
	require.NoError(t, err)
	assert.Empty(t, provEntries)
}

func TestPayForBookingGates(t *testing.T) {
	env := newWalletEnv()
	ctx := context.Background()
	_, err := env.svc.Deposit(ctx, "cust-1", 10000, "top up")
	require.NoError(t, err)

	_, err = env.svc.PayForBooking(ctx, "missing", "cust-1")
	assert.Equal(t, utils.KindNotFound, utils.ErrorKindOf(err))

	env.addBooking("bk-1", "cust-1", "prov-1", 3000, models.StatusCompleted)
	_, err = env.svc.PayForBooking(ctx, "bk-1", "prov-1")
	assert.Equal(t, utils.KindForbidden, utils.ErrorKindOf(err))

	env.addBooking("bk-2", "cust-1", "prov-1", 3000, models.StatusCancelled)
	_, err = env.svc.PayForBooking(ctx, "bk-2", "cust-1")
	assert.Equal(t, utils.KindInvalidState, utils.ErrorKindOf(err))

	env.bookings.bookings["bk-1"].PaymentStatus = models.PaymentPaid
	_, err = env.svc.PayForBooking(ctx, "bk-1", "cust-1")
	assert.Equal(t, utils.KindConflict, utils.ErrorKindOf(err))
}

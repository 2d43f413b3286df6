package walletRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servana/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrInsufficientFunds is returned when a debit would take the customer
// balance below zero.
var ErrInsufficientFunds = errors.New("wallet balance cannot cover the amount")

// MongoWalletRepo implements WalletRepository using MongoDB.
type MongoWalletRepo struct {
	walletColl  *mongo.Collection
	ledgerColl  *mongo.Collection
	bookingColl *mongo.Collection
}

// NewMongoWalletRepo constructs a new instance of MongoWalletRepo. The
// booking collection is needed because marking a booking paid belongs to
// the same transaction as the wallet movements.
func NewMongoWalletRepo(db *mongo.Database) WalletRepository {
	return &MongoWalletRepo{
		walletColl:  db.Collection("wallets"),
		ledgerColl:  db.Collection("wallet_ledger"),
		bookingColl: db.Collection("bookings"),
	}
}

func newContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 5*time.Second)
}

// GetByUserID retrieves a user's wallet document.
func (r *MongoWalletRepo) GetByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var wallet models.Wallet
	if err := r.walletColl.FindOne(ctx, bson.M{"user_id": userID}).Decode(&wallet); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching wallet for user %s: %w", userID, err)
	}
	return &wallet, nil
}

// Create inserts a new wallet document.
func (r *MongoWalletRepo) Create(ctx context.Context, wallet *models.Wallet) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	wallet.CreatedAt = now
	wallet.UpdatedAt = now

	if _, err := r.walletColl.InsertOne(ctx, wallet); err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

// Credit adds amount to a wallet and appends a credit ledger entry.
func (r *MongoWalletRepo) Credit(ctx context.Context, userID string, amount float64, narration string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	_, err := r.creditTx(ctx, userID, amount, "", narration)
	return err
}

// ListLedger retrieves a user's ledger entries, newest first.
func (r *MongoWalletRepo) ListLedger(ctx context.Context, userID string) ([]models.LedgerEntry, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.ledgerColl.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing ledger entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.LedgerEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding ledger entries: %w", err)
	}
	return entries, nil
}

// ApplyBookingPayment runs the debit/credit/ledger/mark-paid quadruple
// inside a single MongoDB multi-document transaction. Partial application
// here is a financial-correctness defect, so every step aborts the whole
// unit on failure.
func (r *MongoWalletRepo) ApplyBookingPayment(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client := r.walletColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if err := r.debitTx(sc, booking); err != nil {
			return err
		}
		if _, err := r.creditTx(sc, booking.ProviderID, booking.TotalAmount, booking.ID,
			fmt.Sprintf("payment for booking %s", booking.ID)); err != nil {
			return err
		}

		res, err := r.bookingColl.UpdateOne(sc,
			bson.M{"id": booking.ID, "payment_status": models.PaymentUnpaid},
			bson.M{"$set": bson.M{"payment_status": models.PaymentPaid, "updated_at": time.Now().UTC()}},
		)
		if err != nil {
			return fmt.Errorf("mark booking paid failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("booking %s is missing or already paid", booking.ID)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return ErrInsufficientFunds
		}
		return fmt.Errorf("payment transaction failed: %w", err)
	}
	return nil
}

// debitTx subtracts the amount from the customer wallet, guarded so the
// balance cannot go negative, and writes the debit ledger entry.
func (r *MongoWalletRepo) debitTx(sc mongo.SessionContext, booking *models.Booking) error {
	filter := bson.M{
		"user_id": booking.CustomerID,
		"balance": bson.M{"$gte": booking.TotalAmount},
	}
	update := bson.M{
		"$inc": bson.M{"balance": -booking.TotalAmount},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var wallet models.Wallet
	if err := r.walletColl.FindOneAndUpdate(sc, filter, update, opts).Decode(&wallet); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrInsufficientFunds
		}
		return fmt.Errorf("debit failed: %w", err)
	}

	entry := models.LedgerEntry{
		ID:        uuid.New().String(),
		WalletID:  wallet.ID,
		UserID:    booking.CustomerID,
		BookingID: booking.ID,
		Type:      models.LedgerDebit,
		Amount:    booking.TotalAmount,
		Balance:   wallet.Balance,
		Narration: fmt.Sprintf("payment for booking %s", booking.ID),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.ledgerColl.InsertOne(sc, entry); err != nil {
		return fmt.Errorf("debit ledger entry failed: %w", err)
	}
	return nil
}

// creditTx adds the amount to a wallet, creating it on first use, and
// writes the credit ledger entry.
func (r *MongoWalletRepo) creditTx(ctx context.Context, userID string, amount float64, bookingID, narration string) (*models.Wallet, error) {
	now := time.Now().UTC()
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$inc": bson.M{"balance": amount},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"id":         uuid.New().String(),
			"user_id":    userID,
			"currency":   "NGN",
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var wallet models.Wallet
	if err := r.walletColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&wallet); err != nil {
		return nil, fmt.Errorf("credit failed: %w", err)
	}

	entry := models.LedgerEntry{
		ID:        uuid.New().String(),
		WalletID:  wallet.ID,
		UserID:    userID,
		BookingID: bookingID,
		Type:      models.LedgerCredit,
		Amount:    amount,
		Balance:   wallet.Balance,
		Narration: narration,
		CreatedAt: now,
	}
	if _, err := r.ledgerColl.InsertOne(ctx, entry); err != nil {
		return nil, fmt.Errorf("credit ledger entry failed: %w", err)
	}
	return &wallet, nil
}

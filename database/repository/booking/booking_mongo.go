package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servana/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateSlot is returned when the partial unique index rejects a
// second non-terminal booking for the same (provider, date, time).
var ErrDuplicateSlot = errors.New("an active booking already holds that slot")

// ErrStaleStatus is returned by UpdateIfStatus when the stored status no
// longer matches the status the caller read.
var ErrStaleStatus = errors.New("booking status changed since it was read")

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	return &MongoBookingRepo{coll: db.Collection("bookings")}
}

func newContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 5*time.Second)
}

// GetByID retrieves a booking document by ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlot
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// Update modifies an existing booking document.
func (r *MongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	booking.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": booking.ID}, bson.M{"$set": booking})
	if err != nil {
		return fmt.Errorf("failed to update booking with id %s: %w", booking.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking with id %s not found", booking.ID)
	}
	return nil
}

// UpdateIfStatus modifies a booking document only if its status field still
// holds fromStatus. The status filter makes the read-validate-write cycle of
// a transition atomic: two racing transitions both pass validation against
// the same read, but only one matches here. Bookings are never deleted, so a
// zero match means a stale status rather than a missing document.
func (r *MongoBookingRepo) UpdateIfStatus(ctx context.Context, booking *models.Booking, fromStatus string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	booking.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": booking.ID, "status": fromStatus},
		bson.M{"$set": booking})
	if err != nil {
		return fmt.Errorf("failed to update booking with id %s: %w", booking.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrStaleStatus
	}
	return nil
}

// FindActive returns the non-terminal booking occupying (provider, date,
// time), if any.
func (r *MongoBookingRepo) FindActive(ctx context.Context, providerID, date, timeOfDay, exclude string) (*models.Booking, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"date":        date,
		"time":        timeOfDay,
		"status":      bson.M{"$in": models.ActiveStatuses},
	}
	if exclude != "" {
		filter["id"] = bson.M{"$ne": exclude}
	}

	var booking models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error checking booking conflicts: %w", err)
	}
	return &booking, nil
}

// ListByCustomer retrieves a customer's bookings, newest first.
func (r *MongoBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"customer_id": customerID})
}

// ListByProvider retrieves a provider's bookings, newest first.
func (r *MongoBookingRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"provider_id": providerID})
}

func (r *MongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, sortNewestFirst())
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// RatedAverage computes the mean rating over all rated bookings for one
// provider or service by full scan. O(n) per rating event is accepted; the
// aggregate is small and correctness beats incremental bookkeeping here.
func (r *MongoBookingRepo) RatedAverage(ctx context.Context, field, value string) (float64, int, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{field: value, "rating": bson.M{"$gt": 0}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to compute rating average: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Avg   float64 `bson:"avg"`
		Count int     `bson:"count"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, 0, fmt.Errorf("error decoding rating average: %w", err)
	}
	if len(result) == 0 {
		return 0, 0, nil
	}
	return result[0].Avg, result[0].Count, nil
}

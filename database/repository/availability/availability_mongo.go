package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servana/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors for slot mutations. The service layer maps these onto the
// API error taxonomy; Conflict must stay distinguishable from NotFound.
var (
	ErrSlotNotFound = errors.New("no slot with that start time")
	ErrSlotTaken    = errors.New("slot is already booked")
	ErrSlotMismatch = errors.New("slot is not held by that booking")
)

// MongoAvailabilityRepo implements AvailabilityRepository using MongoDB.
// Slot reservation relies on single-document atomicity: the conditional
// update matches only an unbooked slot, so two concurrent reservations for
// the same start time cannot both succeed.
type MongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new instance of MongoAvailabilityRepo.
func NewMongoAvailabilityRepo(db *mongo.Database) *MongoAvailabilityRepo {
	return &MongoAvailabilityRepo{coll: db.Collection("availability_days")}
}

func newContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 5*time.Second)
}

// GetDay retrieves an availability day, or nil when no document exists yet.
func (r *MongoAvailabilityRepo) GetDay(ctx context.Context, providerID, date string) (*models.AvailabilityDay, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var day models.AvailabilityDay
	filter := bson.M{"provider_id": providerID, "date": date}
	if err := r.coll.FindOne(ctx, filter).Decode(&day); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching availability for %s on %s: %w", providerID, date, err)
	}
	return &day, nil
}

// CreateDay inserts the day only if none exists, using an upsert with
// $setOnInsert so a concurrent creator cannot produce a duplicate grid.
func (r *MongoAvailabilityRepo) CreateDay(ctx context.Context, day *models.AvailabilityDay) (bool, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{"provider_id": day.ProviderID, "date": day.Date}
	update := bson.M{"$setOnInsert": day}
	opts := mongoUpsert()

	res, err := r.coll.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return false, fmt.Errorf("failed to create availability day: %w", err)
	}
	return res.UpsertedCount > 0, nil
}

// ReplaceDay overwrites the slot list for a provider-authored edit.
func (r *MongoAvailabilityRepo) ReplaceDay(ctx context.Context, providerID, date string, slots []models.Slot, isAvailable bool) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{"provider_id": providerID, "date": date}
	update := bson.M{"$set": bson.M{
		"slots":        slots,
		"is_available": isAvailable,
		"updated_at":   time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to replace availability day: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("availability day for %s on %s not found", providerID, date)
	}
	return nil
}

// ReserveSlot flips one unbooked slot to booked in a single conditional
// update. A zero modified count is disambiguated by re-reading the day.
func (r *MongoAvailabilityRepo) ReserveSlot(ctx context.Context, providerID, date, startTime, bookingID string) error {
	opCtx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"date":        date,
		"slots": bson.M{
			"$elemMatch": bson.M{
				"start_time": startTime,
				"is_booked":  false,
			},
		},
	}
	update := bson.M{"$set": bson.M{
		"slots.$.is_booked":  true,
		"slots.$.booking_id": bookingID,
		"updated_at":         time.Now().UTC(),
	}}

	res, err := r.coll.UpdateOne(opCtx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reserve slot: %w", err)
	}
	if res.ModifiedCount > 0 {
		return nil
	}
	return r.classifyReserveFailure(ctx, providerID, date, startTime)
}

func (r *MongoAvailabilityRepo) classifyReserveFailure(ctx context.Context, providerID, date, startTime string) error {
	day, err := r.GetDay(ctx, providerID, date)
	if err != nil {
		return err
	}
	if day == nil {
		return ErrSlotNotFound
	}
	for _, slot := range day.Slots {
		if slot.StartTime == startTime {
			if slot.IsBooked {
				return ErrSlotTaken
			}
			// Unbooked but the update missed: a release raced in between.
			return ErrSlotTaken
		}
	}
	return ErrSlotNotFound
}

// ReleaseSlot clears a slot only when it is held by the given booking.
func (r *MongoAvailabilityRepo) ReleaseSlot(ctx context.Context, providerID, date, startTime, bookingID string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"date":        date,
		"slots": bson.M{
			"$elemMatch": bson.M{
				"start_time": startTime,
				"is_booked":  true,
				"booking_id": bookingID,
			},
		},
	}
	update := bson.M{"$set": bson.M{
		"slots.$.is_booked":  false,
		"slots.$.booking_id": "",
		"updated_at":         time.Now().UTC(),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}
	if res.ModifiedCount == 0 {
		return ErrSlotMismatch
	}
	return nil
}

// BookedSlots lists every booked slot across all days for reconciliation.
func (r *MongoAvailabilityRepo) BookedSlots(ctx context.Context) ([]models.BookedSlotRef, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$slots"}},
		bson.D{{Key: "$match", Value: bson.M{"slots.is_booked": true}}},
		bson.D{{Key: "$project", Value: bson.M{
			"provider_id": 1,
			"date":        1,
			"start_time":  "$slots.start_time",
			"booking_id":  "$slots.booking_id",
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked slots: %w", err)
	}
	defer cursor.Close(ctx)

	var refs []models.BookedSlotRef
	if err := cursor.All(ctx, &refs); err != nil {
		return nil, fmt.Errorf("error decoding booked slots: %w", err)
	}
	return refs, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aqalert/pkg/model"
)

const (
	CollectionName = "USERS"

	defaultOpTimeout = 10 * time.Second
)

// SubscriptionRepository is the durable store of per-contact alert
// subscriptions. AppendLocation is the only mutating operation the setup
// workflow uses; RemoveLocation is the compensating operation of the retired
// persist-first ordering and is kept for operational cleanup.
//
// The duplicate/cap pre-check in the service and the append here are not one
// atomic unit: two near-simultaneous requests for the same contact can both
// pass the check before either append lands. The single-document conditional
// update closes the lost-update hazard; the remaining window is accepted and
// documented behavior.
type SubscriptionRepository interface {
	FindByContact(ctx context.Context, contactID string) (*model.Subscription, error)
	AppendLocation(ctx context.Context, contactID, alertType string, loc model.Location, requestID string) (*model.Subscription, error)
	RemoveLocation(ctx context.Context, contactID string, loc model.Location) error
	EnsureIndexes(ctx context.Context) error
}

type mongoSubscriptionRepository struct {
	collection *mongo.Collection
	clock      clockwork.Clock
}

func NewMongoSubscriptionRepository(db *mongo.Database, clock clockwork.Clock) SubscriptionRepository {
	return &mongoSubscriptionRepository{
		collection: db.Collection(CollectionName),
		clock:      clock,
	}
}

func (r *mongoSubscriptionRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultOpTimeout)
}

func (r *mongoSubscriptionRepository) FindByContact(ctx context.Context, contactID string) (*model.Subscription, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var sub model.Subscription
	err := r.collection.FindOne(ctx, bson.M{"user_contact": contactID}).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	return &sub, nil
}

// AppendLocation performs the atomic create-if-absent-else-append as a single
// conditional write: $setOnInsert seeds the document on first contact,
// $push appends the location either way. The unique index on user_contact
// turns a lost upsert race into a duplicate key error, surfaced as
// ErrContactExists rather than a bare driver error code.
func (r *mongoSubscriptionRepository) AppendLocation(ctx context.Context, contactID, alertType string, loc model.Location, requestID string) (*model.Subscription, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"user_contact": contactID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"alertType": alertType,
			"createdAt": r.clock.Now().UTC().Truncate(time.Millisecond),
			"requestId": requestID,
		},
		"$push": bson.M{"locations": loc},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var sub model.Subscription
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&sub)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", ErrContactExists, err)
		}
		return nil, fmt.Errorf("failed to append location: %w", err)
	}

	return &sub, nil
}

// RemoveLocation pulls the location entry matching the stored raw string.
// Removing an absent entry is a no-op, so repeated compensation is safe.
func (r *mongoSubscriptionRepository) RemoveLocation(ctx context.Context, contactID string, loc model.Location) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"user_contact": contactID}
	update := bson.M{
		"$pull": bson.M{"locations": bson.M{"location": loc.Location}},
	}

	if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to remove location: %w", err)
	}

	return nil
}

// EnsureIndexes creates the unique index backing contact uniqueness. Called
// once at startup; CreateOne is idempotent for an identical existing index.
func (r *mongoSubscriptionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_contact", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetName("user_contact_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create user_contact index: %w", err)
	}

	return nil
}

package reporsitory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"profile-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ProfileRepository struct {
	collection *mongo.Collection
	mu         *sync.Mutex
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		collection: db.Collection("Profile"),
		mu:         &sync.Mutex{},
	}
}

func (r *ProfileRepository) FindByOwner(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile for user %s: %w", userID, err)
	}
	return &profile, nil
}

func (r *ProfileRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Profile, error) {
	opts := options.Find()
	opts.SetSort(bson.M{"metadata.createdAt": -1})
	opts.SetSkip(int64((page - 1) * limit))
	opts.SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []*models.Profile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}

	return profiles, nil
}

// Upsert applies the given $set document to the owner's profile, creating the
// document if it does not exist. The merge runs as a single conditional
// update so two concurrent callers never interleave a read-then-write; when
// both race on first creation the unique userId index rejects one insert and
// a single retry lands it as a plain update.
func (r *ProfileRepository) Upsert(ctx context.Context, userID string, set bson.M) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()

	fields := bson.M{"metadata.updatedAt": now}
	for k, v := range set {
		fields[k] = v
	}

	update := bson.M{
		"$set": fields,
		"$setOnInsert": bson.M{
			"metadata.createdAt": now,
			"experience":         []models.Experience{},
		},
	}

	profile, err := r.findOneAndUpsert(ctx, userID, update)
	if mongo.IsDuplicateKeyError(err) {
		profile, err = r.findOneAndUpsert(ctx, userID, update)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile for user %s: %w", userID, err)
	}
	return profile, nil
}

// AddExperience prepends one entry to the owner's experience list, creating
// the profile with that single entry when the owner has none yet. The
// prepend is a single $push with $position 0, never a read-modify-write.
func (r *ProfileRepository) AddExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()

	update := bson.M{
		"$push": bson.M{
			"experience": bson.M{
				"$each":     []models.Experience{exp},
				"$position": 0,
			},
		},
		"$set":         bson.M{"metadata.updatedAt": now},
		"$setOnInsert": bson.M{"metadata.createdAt": now},
	}

	profile, err := r.findOneAndUpsert(ctx, userID, update)
	if mongo.IsDuplicateKeyError(err) {
		profile, err = r.findOneAndUpsert(ctx, userID, update)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add experience for user %s: %w", userID, err)
	}
	return profile, nil
}

// RemoveExperience pulls the entry with the given id out of the owner's
// list, preserving the relative order of the rest. A missing profile is
// ErrProfileNotFound; a profile without a matching entry is
// ErrExperienceNotFound, never a blind splice.
func (r *ProfileRepository) RemoveExperience(ctx context.Context, userID string, expID bson.ObjectID) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filter := bson.M{
		"userId":         userID,
		"experience._id": expID,
	}
	update := bson.M{
		"$pull": bson.M{"experience": bson.M{"_id": expID}},
		"$set":  bson.M{"metadata.updatedAt": time.Now().Unix()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Profile
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to remove experience for user %s: %w", userID, err)
	}

	// The conditional filter did not match: tell the caller whether the
	// profile or the entry is what is missing.
	if _, findErr := r.FindByOwner(ctx, userID); findErr != nil {
		return nil, findErr
	}
	return nil, models.ErrExperienceNotFound
}

func (r *ProfileRepository) DeleteByOwner(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete profile for user %s: %w", userID, err)
	}
	if result.DeletedCount == 0 {
		return models.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepository) findOneAndUpsert(ctx context.Context, userID string, update bson.M) (*models.Profile, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile models.Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "metadata.createdAt", Value: -1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

package reporsitory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"profile-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type AccountRepository struct {
	collection *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		collection: db.Collection("Account"),
	}
}

func (r *AccountRepository) FindByID(ctx context.Context, userID string) (*models.Account, error) {
	var account models.Account
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", userID, err)
	}
	return &account, nil
}

// Upsert keeps the local account record in sync with user.registered events.
func (r *AccountRepository) Upsert(ctx context.Context, account *models.Account) error {
	now := time.Now().Unix()

	update := bson.M{
		"$set": bson.M{
			"name":               account.Name,
			"email":              account.Email,
			"avatar":             account.Avatar,
			"metadata.updatedAt": now,
		},
		"$setOnInsert": bson.M{"metadata.createdAt": now},
	}

	opts := options.UpdateOne().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": account.ID}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert account %s: %w", account.ID, err)
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", userID, err)
	}
	if result.DeletedCount == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

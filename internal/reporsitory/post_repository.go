package reporsitory

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		collection: db.Collection("Post"),
	}
}

// DeleteByAuthor removes every post the user authored. Zero deletions is a
// success: cascade retries must be able to pass through already-emptied
// steps.
func (r *PostRepository) DeleteByAuthor(ctx context.Context, userID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete posts for user %s: %w", userID, err)
	}
	return result.DeletedCount, nil
}

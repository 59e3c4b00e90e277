package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

const collectionPhotos = "photos"

// PostRepository reads photo documents.
type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPhotos)}
}

// FindByUserIDs returns the photos posted by any of userIDs, newest first.
func (r *PostRepository) FindByUserIDs(ctx context.Context, userIDs []string) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "dateCreated", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"userId": bson.M{"$in": userIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find photos: %w", err)
	}
	posts := make([]*domain.Post, 0)
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode photos: %w", err)
	}
	return posts, nil
}

// EnsureIndexes creates the compound index backing the timeline query.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "dateCreated", Value: -1}},
	})
	return err
}

package mongo

import (
	"alcyxob/fitcoach/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxUpdateAttempts bounds the optimistic read-modify-write loop.
const maxUpdateAttempts = 5

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func insert(ctx context.Context, coll *mongo.Collection, doc any) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

// updateOptimistic loads the document, applies fn and replaces it only if the
// stored copy still matches precondition(before). A lost race reloads and
// retries, so fn must be safe to call more than once.
func updateOptimistic[T any](
	ctx context.Context,
	coll *mongo.Collection,
	id string,
	fn func(*T) error,
	precondition func(*T) bson.M,
) (*T, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		after, err := findOne[T](ctx, coll, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		// Capture the precondition before fn mutates the document.
		filter := precondition(after)
		filter["_id"] = id

		if err := fn(after); err != nil {
			return nil, err
		}

		result, err := coll.ReplaceOne(ctx, filter, after)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, repository.ErrConflict
			}
			return nil, err
		}
		if result.MatchedCount == 1 {
			return after, nil
		}
	}
	return nil, repository.ErrConcurrentUpdate
}

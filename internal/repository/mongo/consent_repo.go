package mongo

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const consentCollectionName = "consents"

type mongoConsentRepository struct {
	collection *mongo.Collection
}

// NewMongoConsentRepository creates a consent repository. Uniqueness of the
// ACTIVE grant per pair relies on EnsureConsentIndexes having run.
func NewMongoConsentRepository(db *mongo.Database) repository.ConsentRepository {
	return &mongoConsentRepository{collection: db.Collection(consentCollectionName)}
}

func (r *mongoConsentRepository) Create(ctx context.Context, c *domain.Consent) error {
	return insert(ctx, r.collection, c)
}

func (r *mongoConsentRepository) GetByID(ctx context.Context, id string) (*domain.Consent, error) {
	return findOne[domain.Consent](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoConsentRepository) FindActive(ctx context.Context, trainerID, clientID string) (*domain.Consent, error) {
	filter := bson.M{
		"trainerId": trainerID,
		"clientId":  clientID,
		"status":    domain.ConsentActive,
	}
	return findOne[domain.Consent](ctx, r.collection, filter)
}

func (r *mongoConsentRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Consent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findMany[domain.Consent](ctx, r.collection, bson.M{"clientId": clientID}, opts)
}

func (r *mongoConsentRepository) ListActiveByTrainer(ctx context.Context, trainerID string) ([]domain.Consent, error) {
	filter := bson.M{"trainerId": trainerID, "status": domain.ConsentActive}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findMany[domain.Consent](ctx, r.collection, filter, opts)
}

// Update replaces the document only if its revision is unchanged since it was read.
func (r *mongoConsentRepository) Update(ctx context.Context, id string, fn func(*domain.Consent) error) (*domain.Consent, error) {
	return updateOptimistic(ctx, r.collection, id, fn, func(c *domain.Consent) bson.M {
		return bson.M{"revision": c.Revision}
	})
}

// EnsureConsentIndexes creates the lookup indexes and the partial unique index
// that allows at most one ACTIVE consent per (clientId, trainerId).
func EnsureConsentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "trainerId", Value: 1}},
			Options: options.Index().
				SetName("uniq_active_pair").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.ConsentActive}),
		},
		{
			Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "status", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

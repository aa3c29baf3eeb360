package mongo

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	exerciseCollectionName   = "exercises"
	proposalCollectionName   = "routine_proposals"
	routineCollectionName    = "routines"
	membershipCollectionName = "memberships"
)

// mongoExerciseRepository implements repository.ExerciseRepository using MongoDB.
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{collection: db.Collection(exerciseCollectionName)}
}

func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	return insert(ctx, r.collection, exercise)
}

func (r *mongoExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	return findOne[domain.Exercise](ctx, r.collection, bson.M{"_id": id})
}

// ListVisibleTo returns shared exercises (no ownerId) plus ownerID's own, sorted by name.
func (r *mongoExerciseRepository) ListVisibleTo(ctx context.Context, ownerID string) ([]domain.Exercise, error) {
	shared := bson.M{"$or": bson.A{
		bson.M{"ownerId": bson.M{"$exists": false}},
		bson.M{"ownerId": ""},
	}}
	filter := shared
	if ownerID != "" {
		filter = bson.M{"$or": bson.A{shared, bson.M{"ownerId": ownerID}}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findMany[domain.Exercise](ctx, r.collection, filter, opts)
}

type mongoProposalRepository struct {
	collection *mongo.Collection
}

func NewMongoProposalRepository(db *mongo.Database) repository.ProposalRepository {
	return &mongoProposalRepository{collection: db.Collection(proposalCollectionName)}
}

func (r *mongoProposalRepository) Create(ctx context.Context, p *domain.RoutineProposal) error {
	return insert(ctx, r.collection, p)
}

func (r *mongoProposalRepository) GetByID(ctx context.Context, id string) (*domain.RoutineProposal, error) {
	return findOne[domain.RoutineProposal](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoProposalRepository) ListByClient(ctx context.Context, clientID string) ([]domain.RoutineProposal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findMany[domain.RoutineProposal](ctx, r.collection, bson.M{"clientId": clientID}, opts)
}

// Update guards on status: a proposal only ever moves out of PENDING once.
func (r *mongoProposalRepository) Update(ctx context.Context, id string, fn func(*domain.RoutineProposal) error) (*domain.RoutineProposal, error) {
	return updateOptimistic(ctx, r.collection, id, fn, func(p *domain.RoutineProposal) bson.M {
		return bson.M{"status": p.Status}
	})
}

type mongoRoutineRepository struct {
	collection *mongo.Collection
}

func NewMongoRoutineRepository(db *mongo.Database) repository.RoutineRepository {
	return &mongoRoutineRepository{collection: db.Collection(routineCollectionName)}
}

func (r *mongoRoutineRepository) Create(ctx context.Context, routine *domain.Routine) error {
	return insert(ctx, r.collection, routine)
}

func (r *mongoRoutineRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Routine, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findMany[domain.Routine](ctx, r.collection, bson.M{"clientId": clientID}, opts)
}

type mongoMembershipRepository struct {
	collection *mongo.Collection
}

func NewMongoMembershipRepository(db *mongo.Database) repository.MembershipRepository {
	return &mongoMembershipRepository{collection: db.Collection(membershipCollectionName)}
}

func (r *mongoMembershipRepository) Get(ctx context.Context, clientID string) (*domain.Membership, error) {
	return findOne[domain.Membership](ctx, r.collection, bson.M{"_id": clientID})
}

func (r *mongoMembershipRepository) Upsert(ctx context.Context, m *domain.Membership) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": m.ClientID}, m, options.Replace().SetUpsert(true))
	return err
}

func (r *mongoMembershipRepository) List(ctx context.Context) ([]domain.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return findMany[domain.Membership](ctx, r.collection, bson.M{}, opts)
}

// EnsureCatalogIndexes indexes exercise ownership and per-client routine data.
func EnsureCatalogIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(exerciseCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "name", Value: 1}},
	}); err != nil {
		return err
	}
	for _, name := range []string{proposalCollectionName, routineCollectionName} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "clientId", Value: 1}},
		}); err != nil {
			return err
		}
	}
	return nil
}

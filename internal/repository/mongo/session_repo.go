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
	plannedSessionCollectionName = "planned_sessions"
	workoutSessionCollectionName = "workout_sessions"
	commentCollectionName        = "session_comments"
	mediaCollectionName          = "session_media"
)

type mongoPlannedSessionRepository struct {
	collection *mongo.Collection
}

func NewMongoPlannedSessionRepository(db *mongo.Database) repository.PlannedSessionRepository {
	return &mongoPlannedSessionRepository{collection: db.Collection(plannedSessionCollectionName)}
}

func (r *mongoPlannedSessionRepository) Create(ctx context.Context, p *domain.PlannedSession) error {
	return insert(ctx, r.collection, p)
}

func (r *mongoPlannedSessionRepository) GetByID(ctx context.Context, id string) (*domain.PlannedSession, error) {
	return findOne[domain.PlannedSession](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoPlannedSessionRepository) ListByClient(ctx context.Context, clientID string) ([]domain.PlannedSession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findMany[domain.PlannedSession](ctx, r.collection, bson.M{"clientId": clientID}, opts)
}

// Update guards on version and status, since accept/reject change status without a version bump.
func (r *mongoPlannedSessionRepository) Update(ctx context.Context, id string, fn func(*domain.PlannedSession) error) (*domain.PlannedSession, error) {
	return updateOptimistic(ctx, r.collection, id, fn, func(p *domain.PlannedSession) bson.M {
		return bson.M{"version": p.Version, "status": p.Status}
	})
}

func (r *mongoPlannedSessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type mongoWorkoutSessionRepository struct {
	collection *mongo.Collection
}

func NewMongoWorkoutSessionRepository(db *mongo.Database) repository.WorkoutSessionRepository {
	return &mongoWorkoutSessionRepository{collection: db.Collection(workoutSessionCollectionName)}
}

func (r *mongoWorkoutSessionRepository) Create(ctx context.Context, s *domain.WorkoutSession) error {
	return insert(ctx, r.collection, s)
}

func (r *mongoWorkoutSessionRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutSession, error) {
	return findOne[domain.WorkoutSession](ctx, r.collection, bson.M{"_id": id})
}

// ListByClient returns the client's sessions, newest first.
func (r *mongoWorkoutSessionRepository) ListByClient(ctx context.Context, clientID string) ([]domain.WorkoutSession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "performedAt", Value: -1}, {Key: "createdAt", Value: -1}})
	return findMany[domain.WorkoutSession](ctx, r.collection, bson.M{"clientId": clientID}, opts)
}

type mongoCommentRepository struct {
	collection *mongo.Collection
}

func NewMongoCommentRepository(db *mongo.Database) repository.CommentRepository {
	return &mongoCommentRepository{collection: db.Collection(commentCollectionName)}
}

func (r *mongoCommentRepository) Create(ctx context.Context, c *domain.SessionComment) error {
	return insert(ctx, r.collection, c)
}

func (r *mongoCommentRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.SessionComment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findMany[domain.SessionComment](ctx, r.collection, bson.M{"sessionId": sessionID}, opts)
}

type mongoMediaRepository struct {
	collection *mongo.Collection
}

func NewMongoMediaRepository(db *mongo.Database) repository.MediaRepository {
	return &mongoMediaRepository{collection: db.Collection(mediaCollectionName)}
}

func (r *mongoMediaRepository) Create(ctx context.Context, m *domain.SessionMedia) error {
	return insert(ctx, r.collection, m)
}

func (r *mongoMediaRepository) GetByID(ctx context.Context, id string) (*domain.SessionMedia, error) {
	return findOne[domain.SessionMedia](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoMediaRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.SessionMedia, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: 1}})
	return findMany[domain.SessionMedia](ctx, r.collection, bson.M{"sessionId": sessionID}, opts)
}

// EnsureSessionIndexes indexes the per-client and per-session lookups.
func EnsureSessionIndexes(ctx context.Context, db *mongo.Database) error {
	byClient := []mongo.IndexModel{{Keys: bson.D{{Key: "clientId", Value: 1}}}}
	bySession := []mongo.IndexModel{{Keys: bson.D{{Key: "sessionId", Value: 1}}}}

	for name, models := range map[string][]mongo.IndexModel{
		plannedSessionCollectionName: byClient,
		workoutSessionCollectionName: {{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "performedAt", Value: -1}}}},
		commentCollectionName:        bySession,
		mediaCollectionName:          bySession,
	} {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

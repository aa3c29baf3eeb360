package mongo

import (
	"alcyxob/fitcoach/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// NewStore wires every MongoDB-backed repository against db.
func NewStore(db *mongo.Database) *repository.Store {
	return &repository.Store{
		Users:           NewMongoUserRepository(db),
		Consents:        NewMongoConsentRepository(db),
		PlannedSessions: NewMongoPlannedSessionRepository(db),
		Sessions:        NewMongoWorkoutSessionRepository(db),
		Comments:        NewMongoCommentRepository(db),
		Exercises:       NewMongoExerciseRepository(db),
		Proposals:       NewMongoProposalRepository(db),
		Routines:        NewMongoRoutineRepository(db),
		Memberships:     NewMongoMembershipRepository(db),
		Media:           NewMongoMediaRepository(db),
	}
}

// EnsureIndexes creates every index the repositories rely on. Call it once at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := EnsureUserIndexes(ctx, db.Collection(userCollectionName)); err != nil {
		return err
	}
	if err := EnsureConsentIndexes(ctx, db.Collection(consentCollectionName)); err != nil {
		return err
	}
	if err := EnsureSessionIndexes(ctx, db); err != nil {
		return err
	}
	return EnsureCatalogIndexes(ctx, db)
}

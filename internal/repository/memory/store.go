package memory

import "alcyxob/fitcoach/internal/repository"

// NewStore wires a fresh in-memory repository for every table.
func NewStore() *repository.Store {
	return &repository.Store{
		Users:           NewUserRepository(),
		Consents:        NewConsentRepository(),
		PlannedSessions: NewPlannedSessionRepository(),
		Sessions:        NewWorkoutSessionRepository(),
		Comments:        NewCommentRepository(),
		Exercises:       NewExerciseRepository(),
		Proposals:       NewProposalRepository(),
		Routines:        NewRoutineRepository(),
		Memberships:     NewMembershipRepository(),
		Media:           NewMediaRepository(),
	}
}

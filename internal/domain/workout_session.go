package domain

import (
	"slices"
	"time"
)

// SetEntry is one performed set.
type SetEntry struct {
	Reps     int      `bson:"reps" json:"reps"`
	WeightKg float64  `bson:"weightKg" json:"weightKg"`
	RPE      *float64 `bson:"rpe,omitempty" json:"rpe,omitempty"`
}

// SessionEntry groups the sets performed for one exercise.
type SessionEntry struct {
	ExerciseID   string     `bson:"exerciseId,omitempty" json:"exerciseId,omitempty"`
	ExerciseName string     `bson:"exerciseName" json:"exerciseName"`
	Sets         []SetEntry `bson:"sets" json:"sets"`
}

// WorkoutSession is a workout the client actually performed and logged.
type WorkoutSession struct {
	ID              string         `bson:"_id" json:"id"`
	ClientID        string         `bson:"clientId" json:"clientId"`
	Title           string         `bson:"title" json:"title"`
	PerformedAt     time.Time      `bson:"performedAt" json:"performedAt"`
	DurationMinutes int            `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	Entries         []SessionEntry `bson:"entries" json:"entries"`
	Notes           string         `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
}

// Volume is the sum of reps*weight across all sets.
func (s *WorkoutSession) Volume() float64 {
	var total float64
	for _, e := range s.Entries {
		for _, set := range e.Sets {
			total += float64(set.Reps) * set.WeightKg
		}
	}
	return total
}

func (s *WorkoutSession) Clone() *WorkoutSession {
	if s == nil {
		return nil
	}
	out := *s
	out.Entries = make([]SessionEntry, len(s.Entries))
	for i, e := range s.Entries {
		e.Sets = slices.Clone(e.Sets)
		out.Entries[i] = e
	}
	return &out
}

// SessionComment is a note left on a logged session by the client or a trainer.
type SessionComment struct {
	ID         string    `bson:"_id" json:"id"`
	SessionID  string    `bson:"sessionId" json:"sessionId"`
	ClientID   string    `bson:"clientId" json:"clientId"`
	AuthorID   string    `bson:"authorId" json:"authorId"`
	AuthorRole Role      `bson:"authorRole" json:"authorRole"`
	Body       string    `bson:"body" json:"body"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

package domain

import (
	"slices"
	"time"
)

// PlannedSessionStatus tracks a trainer-authored session through client review.
type PlannedSessionStatus string

const (
	PlannedDraft    PlannedSessionStatus = "DRAFT"
	PlannedProposed PlannedSessionStatus = "PROPOSED"
	PlannedAccepted PlannedSessionStatus = "ACCEPTED"
	PlannedRejected PlannedSessionStatus = "REJECTED"
)

// Editable reports whether the trainer may still change the session.
func (s PlannedSessionStatus) Editable() bool {
	return s == PlannedDraft || s == PlannedProposed
}

// PlannedItem is one prescribed exercise inside a planned session.
type PlannedItem struct {
	ExerciseID   string   `bson:"exerciseId,omitempty" json:"exerciseId,omitempty"`
	ExerciseName string   `bson:"exerciseName" json:"exerciseName"`
	Sets         int      `bson:"sets" json:"sets"`
	Reps         string   `bson:"reps" json:"reps"` // "8-12", "AMRAP"
	RestSeconds  int      `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	TargetRPE    *float64 `bson:"targetRpe,omitempty" json:"targetRpe,omitempty"`
	Notes        string   `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ChangelogEntry is the note appended by one mutation of a planned session.
type ChangelogEntry struct {
	Version int       `bson:"version" json:"version"`
	Note    string    `bson:"note" json:"note"`
	ActorID string    `bson:"actorId" json:"actorId"`
	At      time.Time `bson:"at" json:"at"`
}

// PlannedSession is a versioned workout a trainer drafts for a client.
// len(Changelog) == Version at all times.
type PlannedSession struct {
	ID          string               `bson:"_id" json:"id"`
	ClientID    string               `bson:"clientId" json:"clientId"`
	TrainerID   string               `bson:"trainerId" json:"trainerId"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	ScheduledAt *time.Time           `bson:"scheduledAt,omitempty" json:"scheduledAt,omitempty"`
	Items       []PlannedItem        `bson:"items" json:"items"`
	Status      PlannedSessionStatus `bson:"status" json:"status"`
	Version     int                  `bson:"version" json:"version"`
	Changelog   []ChangelogEntry     `bson:"changelog" json:"changelog"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Bump increments the version and appends the matching changelog entry.
// Every mutation goes through here so the two never drift apart.
func (p *PlannedSession) Bump(note, actorID string, at time.Time) {
	p.Version++
	p.Changelog = append(p.Changelog, ChangelogEntry{
		Version: p.Version,
		Note:    note,
		ActorID: actorID,
		At:      at,
	})
	p.UpdatedAt = at
}

func clonePlannedItems(items []PlannedItem) []PlannedItem {
	if items == nil {
		return nil
	}
	out := make([]PlannedItem, len(items))
	for i, it := range items {
		if it.TargetRPE != nil {
			rpe := *it.TargetRPE
			it.TargetRPE = &rpe
		}
		out[i] = it
	}
	return out
}

func (p *PlannedSession) Clone() *PlannedSession {
	if p == nil {
		return nil
	}
	out := *p
	out.Items = clonePlannedItems(p.Items)
	out.Changelog = slices.Clone(p.Changelog)
	if p.ScheduledAt != nil {
		t := *p.ScheduledAt
		out.ScheduledAt = &t
	}
	return &out
}

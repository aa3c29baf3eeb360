// internal/domain/exercise.go
package domain

import (
	"time"
)

// Exercise represents a single exercise definition in the catalog.
type Exercise struct {
	ID string `bson:"_id" json:"id"`
	// OwnerID is empty for the shared catalog, or the client who added a custom exercise.
	OwnerID     string `bson:"ownerId,omitempty" json:"ownerId,omitempty"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	MuscleGroup      string `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"`           // e.g., "Chest", "Legs", "Back"
	ExecutionTechnic string `bson:"executionTechnic,omitempty" json:"executionTechnic,omitempty"` // Detailed instructions
	Applicability    string `bson:"applicability,omitempty" json:"applicability,omitempty"`       // e.g., "Home", "Gym", "Home/Gym"
	Difficulty       string `bson:"difficulty,omitempty" json:"difficulty,omitempty"`             // e.g., "Novice", "Medium", "Advanced"
	VideoURL         string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

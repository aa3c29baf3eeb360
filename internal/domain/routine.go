package domain

import "time"

// ProposalStatus tracks a routine proposal awaiting the client's decision.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "PENDING"
	ProposalAccepted ProposalStatus = "ACCEPTED"
	ProposalRejected ProposalStatus = "REJECTED"
)

// RoutineDay is one training day of a routine.
type RoutineDay struct {
	Name  string        `bson:"name" json:"name"`
	Items []PlannedItem `bson:"items" json:"items"`
}

// RoutineProposal is a routine a trainer suggests to a client.
type RoutineProposal struct {
	ID        string         `bson:"_id" json:"id"`
	ClientID  string         `bson:"clientId" json:"clientId"`
	TrainerID string         `bson:"trainerId" json:"trainerId"`
	Name      string         `bson:"name" json:"name"`
	Notes     string         `bson:"notes,omitempty" json:"notes,omitempty"`
	Days      []RoutineDay   `bson:"days" json:"days"`
	Status    ProposalStatus `bson:"status" json:"status"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
	DecidedAt *time.Time     `bson:"decidedAt,omitempty" json:"decidedAt,omitempty"`
}

func (p *RoutineProposal) Clone() *RoutineProposal {
	if p == nil {
		return nil
	}
	out := *p
	out.Days = cloneDays(p.Days)
	if p.DecidedAt != nil {
		t := *p.DecidedAt
		out.DecidedAt = &t
	}
	return &out
}

// Routine is a client's adopted training routine.
type Routine struct {
	ID               string       `bson:"_id" json:"id"`
	ClientID         string       `bson:"clientId" json:"clientId"`
	Name             string       `bson:"name" json:"name"`
	Days             []RoutineDay `bson:"days" json:"days"`
	SourceProposalID string       `bson:"sourceProposalId,omitempty" json:"sourceProposalId,omitempty"`
	CreatedAt        time.Time    `bson:"createdAt" json:"createdAt"`
}

func cloneDays(days []RoutineDay) []RoutineDay {
	out := make([]RoutineDay, len(days))
	for i, d := range days {
		d.Items = clonePlannedItems(d.Items)
		out[i] = d
	}
	return out
}

func (r *Routine) Clone() *Routine {
	if r == nil {
		return nil
	}
	out := *r
	out.Days = cloneDays(r.Days)
	return &out
}

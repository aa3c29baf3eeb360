package domain

import "time"

type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipPaused    MembershipStatus = "paused"
	MembershipCancelled MembershipStatus = "cancelled"
)

// Membership is the billing record of a gym member.
type Membership struct {
	ClientID        string           `bson:"_id" json:"clientId"`
	Plan            string           `bson:"plan" json:"plan"`
	Status          MembershipStatus `bson:"status" json:"status"`
	MonthlyFeeCents int64            `bson:"monthlyFeeCents" json:"monthlyFeeCents"`
	RenewsAt        *time.Time       `bson:"renewsAt,omitempty" json:"renewsAt,omitempty"`
	UpdatedAt       time.Time        `bson:"updatedAt" json:"updatedAt"`
}

func (m *Membership) Clone() *Membership {
	if m == nil {
		return nil
	}
	out := *m
	if m.RenewsAt != nil {
		t := *m.RenewsAt
		out.RenewsAt = &t
	}
	return &out
}

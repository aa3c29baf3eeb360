package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsent_IsEffective(t *testing.T) {
	now := time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)
	expiry := now.Add(time.Hour)

	tests := []struct {
		name    string
		consent Consent
		at      time.Time
		want    bool
	}{
		{"active without expiry", Consent{Status: ConsentActive}, now, true},
		{"active before expiry", Consent{Status: ConsentActive, ExpiresAt: &expiry}, now, true},
		{"active at expiry", Consent{Status: ConsentActive, ExpiresAt: &expiry}, expiry, false},
		{"active after expiry", Consent{Status: ConsentActive, ExpiresAt: &expiry}, expiry.Add(time.Nanosecond), false},
		{"revoked", Consent{Status: ConsentRevoked}, now, false},
		{"hidden stays effective", Consent{Status: ConsentActive, Hidden: true}, now, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.consent.IsEffective(tt.at))
		})
	}
}

func TestConsent_DisplayStatus(t *testing.T) {
	c := Consent{Status: ConsentActive}
	assert.Equal(t, ConsentActive, c.DisplayStatus())
	c.Hidden = true
	assert.Equal(t, ConsentHidden, c.DisplayStatus())
	assert.Equal(t, ConsentActive, c.Status)
}

func TestNormalizeScopes(t *testing.T) {
	in := []Scope{ScopeSessionsWrite, ScopeProgressRead, ScopeSessionsWrite}
	out := NormalizeScopes(in)
	assert.Equal(t, []Scope{ScopeProgressRead, ScopeSessionsWrite}, out)
	assert.Len(t, in, 3)
}

func TestConsent_CloneIsDeep(t *testing.T) {
	expiry := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	c := &Consent{Scopes: []Scope{ScopeSessionsRead}, ExpiresAt: &expiry}
	c.Record(ConsentActionCreated, &Identity{UserID: "member-1", Role: RoleUser}, expiry, "")

	cp := c.Clone()
	cp.Scopes[0] = ScopeBillingManage
	*cp.ExpiresAt = expiry.Add(time.Hour)
	cp.Audit[0].Note = "changed"

	assert.Equal(t, ScopeSessionsRead, c.Scopes[0])
	assert.Equal(t, expiry, *c.ExpiresAt)
	assert.Empty(t, c.Audit[0].Note)
	assert.Equal(t, int64(1), c.Revision)

	rpe := 8.0
	at := expiry
	ps := &PlannedSession{
		Items:       []PlannedItem{{ExerciseName: "Squat", Sets: 3, Reps: "5", TargetRPE: &rpe}},
		ScheduledAt: &at,
	}
	ps.Bump("created", "trainer-1", expiry)

	psCopy := ps.Clone()
	*psCopy.Items[0].TargetRPE = 2
	psCopy.Items[0].Reps = "AMRAP"
	psCopy.Changelog[0].Note = "changed"
	*psCopy.ScheduledAt = expiry.Add(time.Hour)

	assert.Equal(t, 8.0, *ps.Items[0].TargetRPE)
	assert.Equal(t, "5", ps.Items[0].Reps)
	assert.Equal(t, "created", ps.Changelog[0].Note)
	assert.Equal(t, expiry, *ps.ScheduledAt)

	routine := &Routine{Days: []RoutineDay{{Items: []PlannedItem{{ExerciseName: "Squat", TargetRPE: &rpe}}}}}
	routineCopy := routine.Clone()
	*routineCopy.Days[0].Items[0].TargetRPE = 3
	assert.Equal(t, 8.0, *routine.Days[0].Items[0].TargetRPE)
}

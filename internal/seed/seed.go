// Package seed loads demo fixtures from YAML into a store.
package seed

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Fixtures is the document shape of a fixtures file.
type Fixtures struct {
	Users       []UserFixture       `yaml:"users"`
	Consents    []ConsentFixture    `yaml:"consents"`
	Exercises   []ExerciseFixture   `yaml:"exercises"`
	Memberships []MembershipFixture `yaml:"memberships"`
	Sessions    []SessionFixture    `yaml:"sessions"`
}

type UserFixture struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Email    string      `yaml:"email"`
	Password string      `yaml:"password"`
	Role     domain.Role `yaml:"role"`
}

type ConsentFixture struct {
	Client  string         `yaml:"client"`
	Trainer string         `yaml:"trainer"`
	Scopes  []domain.Scope `yaml:"scopes"`
	// ExpiresIn is a Go duration relative to load time. Empty means no expiry.
	ExpiresIn string `yaml:"expiresIn"`
}

type ExerciseFixture struct {
	ID            string `yaml:"id"`
	Owner         string `yaml:"owner"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	MuscleGroup   string `yaml:"muscleGroup"`
	Applicability string `yaml:"applicability"`
	Difficulty    string `yaml:"difficulty"`
}

type MembershipFixture struct {
	Client          string                  `yaml:"client"`
	Plan            string                  `yaml:"plan"`
	Status          domain.MembershipStatus `yaml:"status"`
	MonthlyFeeCents int64                   `yaml:"monthlyFeeCents"`
}

type SessionFixture struct {
	Client  string `yaml:"client"`
	Title   string `yaml:"title"`
	DaysAgo int    `yaml:"daysAgo"`
	Entries []struct {
		Exercise   string            `yaml:"exercise"`
		ExerciseID string            `yaml:"exerciseId"`
		Sets       []struct {
			Reps     int     `yaml:"reps"`
			WeightKg float64 `yaml:"weightKg"`
		} `yaml:"sets"`
	} `yaml:"entries"`
}

// Load reads and parses a fixtures file.
func Load(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes fixtures and checks references between them.
func Parse(data []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixtures: %w", err)
	}
	return &fx, fx.validate()
}

func (fx *Fixtures) validate() error {
	roles := make(map[string]domain.Role, len(fx.Users))
	for _, u := range fx.Users {
		if u.ID == "" || u.Email == "" || u.Password == "" {
			return fmt.Errorf("user %q: id, email and password are required", u.ID)
		}
		if !u.Role.Valid() {
			return fmt.Errorf("user %q: invalid role %q", u.ID, u.Role)
		}
		roles[u.ID] = u.Role
	}
	for i, c := range fx.Consents {
		if roles[c.Client] != domain.RoleUser {
			return fmt.Errorf("consent %d: %q is not a member", i, c.Client)
		}
		if r := roles[c.Trainer]; r != domain.RoleTrainer && r != domain.RoleAdmin {
			return fmt.Errorf("consent %d: %q is not a trainer", i, c.Trainer)
		}
		if len(c.Scopes) == 0 {
			return fmt.Errorf("consent %d: at least one scope is required", i)
		}
		for _, s := range c.Scopes {
			if !s.Valid() {
				return fmt.Errorf("consent %d: unknown scope %q", i, s)
			}
		}
		if c.ExpiresIn != "" {
			if d, err := time.ParseDuration(c.ExpiresIn); err != nil || d <= 0 {
				return fmt.Errorf("consent %d: expiresIn must be a positive duration", i)
			}
		}
	}
	for i, s := range fx.Sessions {
		if roles[s.Client] != domain.RoleUser {
			return fmt.Errorf("session %d: %q is not a member", i, s.Client)
		}
	}
	for i, m := range fx.Memberships {
		if roles[m.Client] != domain.RoleUser {
			return fmt.Errorf("membership %d: %q is not a member", i, m.Client)
		}
	}
	return nil
}

// Apply writes fixtures into store. Users whose email already exists are
// left alone along with the rest of the document, so applying the same file
// to a populated database is a no-op.
func Apply(ctx context.Context, store *repository.Store, fx *Fixtures, now time.Time) error {
	now = now.UTC()
	for _, u := range fx.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.ID, err)
		}
		err = store.Users.Create(ctx, &domain.User{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: string(hash),
			Role:         u.Role,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if errors.Is(err, repository.ErrConflict) {
			log.Info().Str("email", u.Email).Msg("fixtures already applied, skipping")
			return nil
		}
		if err != nil {
			return fmt.Errorf("create user %s: %w", u.ID, err)
		}
	}

	for _, c := range fx.Consents {
		consent := &domain.Consent{
			ID:        uuid.NewString(),
			ClientID:  c.Client,
			TrainerID: c.Trainer,
			Scopes:    domain.NormalizeScopes(c.Scopes),
			Status:    domain.ConsentActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if c.ExpiresIn != "" {
			d, _ := time.ParseDuration(c.ExpiresIn)
			exp := now.Add(d)
			consent.ExpiresAt = &exp
		}
		consent.Record(domain.ConsentActionCreated, &domain.Identity{UserID: c.Client, Role: domain.RoleUser}, now, "seeded")
		if err := store.Consents.Create(ctx, consent); err != nil {
			return fmt.Errorf("create consent %s->%s: %w", c.Client, c.Trainer, err)
		}
	}

	for _, e := range fx.Exercises {
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		if err := store.Exercises.Create(ctx, &domain.Exercise{
			ID:            id,
			OwnerID:       e.Owner,
			Name:          e.Name,
			Description:   e.Description,
			MuscleGroup:   e.MuscleGroup,
			Applicability: e.Applicability,
			Difficulty:    e.Difficulty,
			CreatedAt:     now,
			UpdatedAt:     now,
		}); err != nil {
			return fmt.Errorf("create exercise %s: %w", e.Name, err)
		}
	}

	for _, m := range fx.Memberships {
		if err := store.Memberships.Upsert(ctx, &domain.Membership{
			ClientID:        m.Client,
			Plan:            m.Plan,
			Status:          m.Status,
			MonthlyFeeCents: m.MonthlyFeeCents,
			UpdatedAt:       now,
		}); err != nil {
			return fmt.Errorf("set membership %s: %w", m.Client, err)
		}
	}

	for _, s := range fx.Sessions {
		session := &domain.WorkoutSession{
			ID:          uuid.NewString(),
			ClientID:    s.Client,
			Title:       s.Title,
			PerformedAt: now.AddDate(0, 0, -s.DaysAgo),
			CreatedAt:   now,
		}
		for _, e := range s.Entries {
			entry := domain.SessionEntry{ExerciseID: e.ExerciseID, ExerciseName: e.Exercise}
			for _, set := range e.Sets {
				entry.Sets = append(entry.Sets, domain.SetEntry{Reps: set.Reps, WeightKg: set.WeightKg})
			}
			session.Entries = append(session.Entries, entry)
		}
		if err := store.Sessions.Create(ctx, session); err != nil {
			return fmt.Errorf("create session %s: %w", s.Title, err)
		}
	}

	log.Info().
		Int("users", len(fx.Users)).
		Int("consents", len(fx.Consents)).
		Int("exercises", len(fx.Exercises)).
		Int("sessions", len(fx.Sessions)).
		Msg("fixtures applied")
	return nil
}

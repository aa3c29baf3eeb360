package service

import (
	"alcyxob/fitcoach/internal/domain"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	maxTitleLength   = 200
	maxCommentLength = 2000
)

type plannedItem domain.PlannedItem

func (i plannedItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ExerciseName, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&i.Sets, validation.Required, validation.Min(1), validation.Max(50)),
		validation.Field(&i.Reps, validation.Required),
		validation.Field(&i.RestSeconds, validation.Min(0)),
		validation.Field(&i.TargetRPE, validation.Min(1.0), validation.Max(10.0)),
	)
}

func validateItems(items []domain.PlannedItem) error {
	for idx, item := range items {
		if err := plannedItem(item).Validate(); err != nil {
			return validation.Errors{"items": validation.Errors{strconv.Itoa(idx): err}}
		}
	}
	return nil
}

// PlannedSessionInput creates a planned session for a client.
type PlannedSessionInput struct {
	Title       string
	Description string
	ScheduledAt *time.Time
	Items       []domain.PlannedItem
	// Status is DRAFT (default) or PROPOSED.
	Status domain.PlannedSessionStatus
	Note   string
}

func (in PlannedSessionInput) Validate() error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&in.Items, validation.Required),
		validation.Field(&in.Status, validation.In(domain.PlannedDraft, domain.PlannedProposed)),
	); err != nil {
		return err
	}
	return validateItems(in.Items)
}

// PlannedSessionPatch is a partial update; nil fields are left unchanged.
type PlannedSessionPatch struct {
	Title       *string
	Description *string
	ScheduledAt OptionalTime
	Items       *[]domain.PlannedItem
	Status      *domain.PlannedSessionStatus
	// Note goes into the changelog; a generic note is used when empty.
	Note string
}

func (p PlannedSessionPatch) Validate() error {
	if err := validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.Length(1, maxTitleLength)),
		validation.Field(&p.Status, validation.NilOrNotEmpty, validation.In(domain.PlannedDraft, domain.PlannedProposed)),
		validation.Field(&p.Note, validation.Length(0, maxTitleLength)),
	); err != nil {
		return err
	}
	if p.Items != nil {
		if len(*p.Items) == 0 {
			return validation.Errors{"items": validation.ErrRequired}
		}
		return validateItems(*p.Items)
	}
	return nil
}

// ProposalInput is a routine a trainer proposes to a client.
type ProposalInput struct {
	Name  string
	Notes string
	Days  []domain.RoutineDay
}

func (in ProposalInput) Validate() error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&in.Days, validation.Required),
	); err != nil {
		return err
	}
	for idx, day := range in.Days {
		if day.Name == "" {
			return validation.Errors{"days": validation.Errors{strconv.Itoa(idx): validation.Errors{"name": validation.ErrRequired}}}
		}
		if err := validateItems(day.Items); err != nil {
			return validation.Errors{"days": validation.Errors{strconv.Itoa(idx): err}}
		}
	}
	return nil
}

// LogSessionInput is a workout the client performed.
type LogSessionInput struct {
	Title           string
	PerformedAt     time.Time
	DurationMinutes int
	Entries         []domain.SessionEntry
	Notes           string
}

func (in LogSessionInput) Validate() error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&in.PerformedAt, validation.Required),
		validation.Field(&in.DurationMinutes, validation.Min(0), validation.Max(24*60)),
		validation.Field(&in.Entries, validation.Required),
	); err != nil {
		return err
	}
	for idx, entry := range in.Entries {
		if entry.ExerciseName == "" || len(entry.Sets) == 0 {
			return validation.Errors{"entries": validation.Errors{strconv.Itoa(idx): validation.NewError(
				"validation_entry_incomplete", "exercise name and at least one set are required")}}
		}
		for _, set := range entry.Sets {
			if set.Reps < 0 || set.WeightKg < 0 {
				return validation.Errors{"entries": validation.Errors{strconv.Itoa(idx): validation.NewError(
					"validation_set_negative", "reps and weight cannot be negative")}}
			}
		}
	}
	return nil
}

// MembershipInput sets a client's billing record.
type MembershipInput struct {
	Plan            string
	Status          domain.MembershipStatus
	MonthlyFeeCents int64
	RenewsAt        *time.Time
}

func (in MembershipInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Plan, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Status, validation.Required,
			validation.In(domain.MembershipActive, domain.MembershipPaused, domain.MembershipCancelled)),
		validation.Field(&in.MonthlyFeeCents, validation.Min(int64(0))),
	)
}

package service

import (
	"alcyxob/fitcoach/internal/authz"
	"alcyxob/fitcoach/internal/domain"
	apperrors "alcyxob/fitcoach/internal/errors"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

// Member is a roster row: a member and their billing record, if any.
type Member struct {
	domain.Identity
	Membership *domain.Membership `json:"membership,omitempty"`
}

// AdminService manages the gym roster. Billing here is the admin path; a
// trainer reaches one client's billing through CoachService with consent.
type AdminService interface {
	ListMembers(ctx context.Context, identity *domain.Identity) ([]Member, error)
	SetMembership(ctx context.Context, identity *domain.Identity, clientID string, in MembershipInput) (*domain.Membership, error)
}

type adminService struct {
	users       repository.UserRepository
	memberships repository.MembershipRepository
	now         Clock
}

func NewAdminService(users repository.UserRepository, memberships repository.MembershipRepository, now Clock) AdminService {
	if now == nil {
		now = SystemClock
	}
	return &adminService{users: users, memberships: memberships, now: now}
}

func (s *adminService) ListMembers(ctx context.Context, identity *domain.Identity) ([]Member, error) {
	if _, err := authz.RequireRole(identity, domain.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.users.ListByRole(ctx, domain.RoleUser)
	if err != nil {
		return nil, repoError(err, "user")
	}
	memberships, err := s.memberships.List(ctx)
	if err != nil {
		return nil, repoError(err, "membership")
	}
	byClient := make(map[string]*domain.Membership, len(memberships))
	for i := range memberships {
		byClient[memberships[i].ClientID] = &memberships[i]
	}

	members := make([]Member, 0, len(users))
	for i := range users {
		members = append(members, Member{
			Identity:   *domain.IdentityOf(&users[i]),
			Membership: byClient[users[i].ID],
		})
	}
	return members, nil
}

func (s *adminService) SetMembership(ctx context.Context, identity *domain.Identity, clientID string, in MembershipInput) (*domain.Membership, error) {
	if _, err := authz.RequireRole(identity, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}
	user, err := s.users.GetByID(ctx, clientID)
	if err != nil {
		return nil, repoError(err, "member")
	}
	if !user.IsClient() {
		return nil, apperrors.NotFound("member")
	}

	membership := &domain.Membership{
		ClientID:        clientID,
		Plan:            strings.TrimSpace(in.Plan),
		Status:          in.Status,
		MonthlyFeeCents: in.MonthlyFeeCents,
		RenewsAt:        utcPtr(in.RenewsAt),
		UpdatedAt:       s.now(),
	}
	if err := s.memberships.Upsert(ctx, membership); err != nil {
		return nil, repoError(err, "membership")
	}
	log.Info().Str("clientId", clientID).Str("adminId", identity.UserID).Str("status", string(in.Status)).Msg("membership updated")
	return membership, nil
}

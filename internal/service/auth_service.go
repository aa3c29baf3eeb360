package service

import (
	"alcyxob/fitcoach/internal/audit"
	"alcyxob/fitcoach/internal/domain"
	apperrors "alcyxob/fitcoach/internal/errors"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	tokenIssuer       = "fitcoach"
)

var (
	ErrAuthenticationFailed = apperrors.Unauthenticated("invalid email or password")
	ErrInvalidToken         = apperrors.Unauthenticated("invalid or expired token")
)

// IdentityResolver turns a bearer credential into the caller's identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}

type AuthService interface {
	IdentityResolver
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	// Me returns the directory record of the resolved identity.
	Me(ctx context.Context, identity *domain.Identity) (*domain.User, error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     []byte
	jwtExpiration time.Duration
	now           Clock
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExpiration,
		now:           SystemClock,
	}
}

type registerInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

func (in registerInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Password, validation.Required, validation.Length(minPasswordLength, 72)),
		validation.Field(&in.Role, validation.Required, validation.In(domain.RoleUser, domain.RoleTrainer).
			Error("must be user or trainer")),
	)
}

// Register creates a member or trainer account. Admins are provisioned
// through fixtures, never self-registered.
func (s *authService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	in := registerInput{
		Name:     strings.TrimSpace(name),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
		Role:     role,
	}
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return nil, apperrors.Internal("failed to hash password")
	}

	now := s.now()
	user := &domain.User{
		ID:           newID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.Conflict("user with this email already exists")
		}
		return nil, repoError(err, "user")
	}

	audit.Log(audit.Event{Type: audit.EventUserRegistered, ActorID: user.ID, ActorRole: string(user.Role)})

	user.PasswordHash = ""
	return user, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, apperrors.Validation("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			audit.Log(audit.Event{Type: audit.EventLoginFailure, Details: map[string]interface{}{"email": email}})
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, repoError(err, "user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		audit.Log(audit.Event{Type: audit.EventLoginFailure, ActorID: user.ID})
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user)
	if err != nil {
		log.Error().Err(err).Str("userId", user.ID).Msg("failed to sign token")
		return "", nil, apperrors.Internal("failed to generate authentication token")
	}

	audit.Log(audit.Event{Type: audit.EventLoginSuccess, ActorID: user.ID, ActorRole: string(user.Role)})

	user.PasswordHash = ""
	return token, user, nil
}

// Resolve verifies token and returns the identity it carries. The user must
// still exist in the directory.
func (s *authService) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	// Expiry is checked against the service clock rather than the wall clock.
	if claims.UserID == "" || !claims.Role.Valid() || claims.ExpiresAt == nil || !claims.ExpiresAt.After(s.now()) {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, repoError(err, "user")
	}
	if user.Role != claims.Role {
		return nil, ErrInvalidToken
	}
	return domain.IdentityOf(user), nil
}

func (s *authService) Me(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	if identity == nil {
		return nil, apperrors.Unauthenticated("authentication required")
	}
	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, repoError(err, "user")
	}
	user.PasswordHash = ""
	return user, nil
}

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	Name   string      `json:"name,omitempty"`
	Email  string      `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := s.now()
	claims := &jwtClaims{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shelter-kit/shelter-service/internal/auth"
	"github.com/shelter-kit/shelter-service/internal/config"
	"github.com/shelter-kit/shelter-service/internal/domain"
	"github.com/shelter-kit/shelter-service/internal/events"
	"github.com/shelter-kit/shelter-service/internal/repository"
	apperrors "github.com/shelter-kit/shelter-service/pkg/util"
)

// AuthService coordinates registration, login and role assignment.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	denylist   auth.TokenDenylist
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	Denylist   auth.TokenDenylist
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   deps.Tokens,
		denylist:   deps.Denylist,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account with the default User role.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewDuplicateIdentity("username")
	} else if err != pgx.ErrNoRows {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateIdentity("email")
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// the pre-checks above can race a concurrent registration
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.NewDuplicateIdentity("username")
		}
		return nil, err
	}

	if err := s.users.ReplaceRoles(ctx, user.ID, []domain.Role{domain.RoleUser}); err != nil {
		return nil, err
	}
	user.Roles = []domain.Role{domain.RoleUser}
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords are indistinguishable to the caller; a deactivated
// account is reported distinctly and never receives a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, "", time.Time{}, apperrors.NewAccountLocked("account is deactivated")
	}

	roles, err := s.users.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	user.Roles = roles

	token, exp, err := s.tokenMgr.Issue(user, roles, time.Now().UTC())
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Logout revokes the presented token when a denylist is configured;
// otherwise it is a no-op and the bearer token stays valid until expiry.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.denylist == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.denylist.Revoke(ctx, claims.ID, ttl)
}

// AssignRole replaces the user's entire role set with the single given role.
func (s *AuthService) AssignRole(ctx context.Context, actor *auth.Principal, username string, role domain.Role) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"username": username})
		}
		return nil, err
	}

	known, err := s.users.RoleExists(ctx, role)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, apperrors.NewValidationError("role does not exist", map[string]any{"role": role})
	}

	if err := s.users.ReplaceRoles(ctx, user.ID, []domain.Role{role}); err != nil {
		return nil, err
	}
	user.Roles = []domain.Role{role}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventRoleAssigned,
			Resource:   "user",
			ResourceID: user.ID,
			Actor:      events.Actor{UserID: actor.UserID, Username: actor.Username},
			Timestamp:  time.Now().UTC(),
			Payload:    events.RoleAssignedPayload{Username: username, Role: role},
		})
	}
	return user, nil
}

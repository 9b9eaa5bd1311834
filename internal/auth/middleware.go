package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/shelter-kit/shelter-service/internal/domain"
	apperrors "github.com/shelter-kit/shelter-service/pkg/util"
)

const principalKey = "auth_principal"

// TokenDenylist records revoked token IDs until their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware validates bearer tokens and loads the caller principal from
// the embedded claims. The denylist is optional; when nil, logout is
// cookie-only and issued tokens stay valid until expiry.
type AuthMiddleware struct {
	tokens   *TokenManager
	denylist TokenDenylist
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, denylist TokenDenylist) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, denylist: denylist}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	claims, err := m.parseBearer(c)
	if err != nil {
		return err
	}

	if m.denylist != nil && claims.ID != "" {
		revoked, err := m.denylist.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if revoked {
			return apperrors.NewUnauthorized("token revoked")
		}
	}

	principal := &Principal{
		UserID:   claims.Subject,
		Username: claims.Username,
		Roles:    domain.RolesFromNames(claims.Roles),
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

func (m *AuthMiddleware) parseBearer(c *fiber.Ctx) (*Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.Parse(parts[1])
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	return claims, nil
}

// BearerClaims re-parses the presented token; used by logout to learn the
// token's ID and remaining lifetime.
func (m *AuthMiddleware) BearerClaims(c *fiber.Ctx) (*Claims, error) {
	return m.parseBearer(c)
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

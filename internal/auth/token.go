package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shelter-kit/shelter-service/internal/config"
	"github.com/shelter-kit/shelter-service/internal/domain"
)

// ErrMissingSecret indicates the signing key was not configured. This is a
// startup failure, never a per-request one.
var ErrMissingSecret = errors.New("auth: signing secret not configured")

// TokenManager issues and validates signed session tokens.
type TokenManager struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
	audience string
}

// NewTokenManager builds a manager from auth configuration.
func NewTokenManager(cfg config.AuthConfig) (*TokenManager, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenManager{
		secret:   []byte(cfg.JWTSecret),
		lifetime: cfg.TokenLifetime(),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}, nil
}

// Claims describes the JWT payload carried by a session token.
type Claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// Issue builds and signs a session token for the user with the given roles.
func (tm *TokenManager) Issue(user *domain.User, roles []domain.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(tm.lifetime)
	claims := &Claims{
		Username: user.Username,
		Roles:    domain.RoleNames(roles),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tm.issuer,
			Audience:  jwt.ClaimStrings{tm.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates signature, issuer, audience and expiry, and returns claims.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	},
		jwt.WithIssuer(tm.issuer),
		jwt.WithAudience(tm.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

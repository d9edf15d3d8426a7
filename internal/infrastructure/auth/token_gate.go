package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/formforge/forms-api/internal/core/domain"
	"github.com/formforge/forms-api/internal/core/ports"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * 24 * time.Hour

// Claims carried by every token. Subject and UserID hold the same id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// TokenGate issues and checks HS256 tokens. Revocation is delegated to a
// RevocationStore and keyed by the token id (jti).
type TokenGate struct {
	secret  []byte
	ttl     time.Duration
	revoked ports.RevocationStore
	log     zerolog.Logger
	now     func() time.Time
}

func NewTokenGate(secret string, ttl time.Duration, revoked ports.RevocationStore, log zerolog.Logger) *TokenGate {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenGate{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: revoked,
		log:     log,
		now:     time.Now,
	}
}

// Issue signs a new token for the account.
func (g *TokenGate) Issue(userID, email string) (string, error) {
	now := g.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
		UserID: userID,
		Email:  email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticate returns the user id the token was issued for.
func (g *TokenGate) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := g.parse(token)
	if err != nil {
		return "", err
	}

	if g.revoked != nil && claims.ID != "" {
		revoked, err := g.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail open while the revocation list is unreachable.
			g.log.Warn().Err(err).Msg("revocation check failed, accepting token")
		} else if revoked {
			return "", domain.ErrUnauthenticated
		}
	}
	return claims.UserID, nil
}

// Revoke invalidates a token for the rest of its lifetime. Tokens that do not
// parse are ignored; there is nothing to revoke.
func (g *TokenGate) Revoke(ctx context.Context, token string) error {
	if g.revoked == nil {
		return nil
	}
	claims, err := g.parse(token)
	if err != nil || claims.ID == "" {
		return nil
	}
	return g.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Sub(g.now()))
}

func (g *TokenGate) parse(token string) (*Claims, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			g.log.Debug().Msg("expired token rejected")
		}
		return nil, domain.ErrUnauthenticated
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

var (
	_ ports.TokenIssuer   = (*TokenGate)(nil)
	_ ports.Authenticator = (*TokenGate)(nil)
)

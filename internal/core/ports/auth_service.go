package ports

import (
	"context"
	"time"

	"github.com/formforge/forms-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// TokenIssuer mints a signed credential for an authenticated account.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// Authenticator is the authentication gate: it resolves a credential to the
// caller's user id or fails with domain.ErrUnauthenticated.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// RevocationStore remembers revoked token ids until they would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

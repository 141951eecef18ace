package ports

import (
	"context"
	"time"

	"github.com/userhub/userhub-api/internal/core/domain"
)

// TokenService issues, verifies and invalidates bearer tokens.
type TokenService interface {
	Issue(ctx context.Context, user *domain.User) (string, error)
	Verify(ctx context.Context, token string) (*domain.TokenClaims, error)
	Invalidate(ctx context.Context, token string) error
}

// TokenDenylist records revoked token ids until they would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

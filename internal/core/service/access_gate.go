package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/userhub/userhub-api/internal/core/domain"
	"github.com/userhub/userhub-api/internal/core/ports"
)

type accessGate struct {
	tokens ports.TokenService
	users  ports.UserRepository
}

// NewAccessGate returns the AccessGate used by the HTTP middleware and the
// user service.
func NewAccessGate(tokens ports.TokenService, users ports.UserRepository) ports.AccessGate {
	return &accessGate{tokens: tokens, users: users}
}

// Authenticate verifies the token and loads the user it is bound to. The
// role always comes from the store, never from the token.
func (g *accessGate) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := g.tokens.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := g.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}

// Authorize is an exact role match; admin does not satisfy a user check.
func (g *accessGate) Authorize(user *domain.User, required domain.Role) error {
	if user == nil {
		return domain.ErrUnauthenticated
	}
	if user.Role != required {
		return domain.ErrForbidden
	}
	return nil
}

func (g *accessGate) AuthorizePermission(user *domain.User, perm domain.Permission) error {
	if user == nil {
		return domain.ErrUnauthenticated
	}
	if !user.Role.Can(perm) {
		return domain.ErrForbidden
	}
	return nil
}

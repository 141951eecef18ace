package ports

import (
	"context"
	"time"

	"github.com/userhub/userhub-api/internal/core/domain"
)

// RegisterInput is the data accepted by AuthService.Register.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Birth    time.Time
	Photo    *PhotoUpload
}

// AuthResult pairs a user with a freshly issued token.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
}

// AccessGate decides whether a request may proceed. Authenticate must always
// run before Authorize.
type AccessGate interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Authorize(user *domain.User, required domain.Role) error
	AuthorizePermission(user *domain.User, perm domain.Permission) error
}

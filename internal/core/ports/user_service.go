package ports

import (
	"context"
	"time"

	"github.com/userhub/userhub-api/internal/core/domain"
)

type UpdateProfileInput struct {
	Name  string
	Email string
	Birth time.Time
}

type UserService interface {
	UpdateProfile(ctx context.Context, caller *domain.User, in UpdateProfileInput) (*domain.User, error)
	ListUsers(ctx context.Context, caller *domain.User) ([]*domain.User, error)
	DeleteUser(ctx context.Context, caller *domain.User, targetID string) error
	EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error)
}

package ports

import (
	"context"
	"time"

	"github.com/userhub/userhub-api/internal/core/domain"
)

// UserRepository is the credential store. Implementations must enforce email
// uniqueness at the storage layer and report collisions as
// domain.ErrDuplicateEmail.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// ProfileUpdate holds the only user fields a profile update may change.
type ProfileUpdate struct {
	Name  string
	Email string
	Birth time.Time
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/userhub-api/internal/core/domain"
	"github.com/userhub/userhub-api/internal/core/ports"
)

type userService struct {
	repo   ports.UserRepository
	gate   ports.AccessGate
	photos ports.PhotoStore
	log    zerolog.Logger
}

// NewUserService returns a UserService implementation.
func NewUserService(repo ports.UserRepository, gate ports.AccessGate, photos ports.PhotoStore, log zerolog.Logger) ports.UserService {
	return &userService{repo: repo, gate: gate, photos: photos, log: log}
}

// UpdateProfile changes name, email and birth. Keeping the caller's own email
// is not a collision.
func (s *userService) UpdateProfile(ctx context.Context, caller *domain.User, in ports.UpdateProfileInput) (*domain.User, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)
	if err := validateProfile(in.Name, in.Email, in.Birth); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil && existing.ID != caller.ID:
		return nil, domain.ErrDuplicateEmail
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("update profile: %w", err)
	}

	updated, err := s.repo.UpdateProfile(ctx, caller.ID, ports.ProfileUpdate{
		Name:  in.Name,
		Email: in.Email,
		Birth: in.Birth,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

func (s *userService) ListUsers(ctx context.Context, caller *domain.User) ([]*domain.User, error) {
	if err := s.gate.Authorize(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizePermission(caller, domain.PermViewUsers); err != nil {
		return nil, err
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// DeleteUser checks, in order: admin role, self-deletion, target existence,
// peer-admin protection.
func (s *userService) DeleteUser(ctx context.Context, caller *domain.User, targetID string) error {
	if err := s.gate.Authorize(caller, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.gate.AuthorizePermission(caller, domain.PermDeleteUsers); err != nil {
		return err
	}

	if targetID == caller.ID {
		return domain.ErrSelfDeletion
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if target.IsAdmin() && caller.IsAdmin() {
		return domain.ErrPeerAdminDeletion
	}

	if err := s.repo.Delete(ctx, target.ID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if target.Photo != "" && s.photos != nil {
		if err := s.photos.Remove(ctx, target.Photo); err != nil {
			s.log.Warn().Err(err).Str("user_id", target.ID).Msg("failed to remove photo of deleted user")
		}
	}

	s.log.Info().
		Str("user_id", target.ID).
		Str("deleted_by", caller.ID).
		Msg("user deleted")
	return nil
}

// EnsureAdmin creates the bootstrap administrator when no account uses email.
// An existing account is returned unchanged.
func (s *userService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("admin email is required")
	}
	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("admin %w", err)
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			s.log.Warn().Str("user_id", existing.ID).Msg("bootstrap admin email belongs to a non-admin account")
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ensure admin: hash password: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrDuplicateEmail) {
		// Another instance seeded it first.
		return s.repo.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("bootstrap admin created")
	return created, nil
}

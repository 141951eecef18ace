package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/userhub-api/internal/core/domain"
	"github.com/userhub/userhub-api/internal/core/ports"
)

const (
	minPasswordLength = 6
	// bcrypt only accepts up to 72 bytes.
	maxPasswordLength = 72
	maxNameLength     = 255
)

// dummyHash is compared against when the email is unknown so that both login
// failure paths cost one bcrypt comparison.
var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

func timingHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// AuthService implements registration, login and logout.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenService
	photos   ports.PhotoStore
	hashCost int
	log      zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, photos ports.PhotoStore, hashCost int, log zerolog.Logger) *AuthService {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, tokens: tokens, photos: photos, hashCost: hashCost, log: log}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)
	if err := validateProfile(in.Name, in.Email, in.Birth); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	// Early, friendlier failure; the unique index is what actually guarantees it.
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	var photoPath string
	if in.Photo != nil && s.photos != nil {
		photoPath, err = s.photos.Save(ctx, *in.Photo)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Birth:        in.Birth,
		Photo:        photoPath,
		Role:         domain.DefaultRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		s.discardPhoto(ctx, photoPath)
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.Issue(ctx, created)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return &ports.AuthResult{Token: token, User: created}, nil
}

// Login returns domain.ErrInvalidCredentials for an unknown email and for a
// wrong password alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(timingHash(), []byte(password))
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

// Logout is idempotent: an already revoked or expired token is a success.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokens.Invalidate(ctx, token)
}

func (s *AuthService) discardPhoto(ctx context.Context, path string) {
	if path == "" || s.photos == nil {
		return
	}
	if err := s.photos.Remove(ctx, path); err != nil {
		s.log.Warn().Err(err).Str("photo", path).Msg("failed to remove orphaned photo")
	}
}

func validatePassword(password string) error {
	switch {
	case len(password) < minPasswordLength:
		return domain.NewValidationError("password must be at least %d characters", minPasswordLength)
	case len(password) > maxPasswordLength:
		return domain.NewValidationError("password must be at most %d bytes", maxPasswordLength)
	}
	return nil
}

func validateProfile(name, email string, birth time.Time) error {
	switch {
	case name == "":
		return domain.NewValidationError("name is required")
	case len(name) > maxNameLength:
		return domain.NewValidationError("name must be at most %d characters", maxNameLength)
	case email == "" || !strings.Contains(email, "@"):
		return domain.NewValidationError("email must be a valid email")
	case birth.IsZero():
		return domain.NewValidationError("birth is required")
	case birth.After(time.Now()):
		return domain.NewValidationError("birth must be in the past")
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/userhub/userhub-api/internal/core/domain"
	"github.com/userhub/userhub-api/internal/core/ports"
)

const defaultTokenTTL = time.Hour

// TokenService issues HS256 JWTs bound to a user id and rejects tokens whose
// id has been recorded in the deny-list.
type TokenService struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	denylist ports.TokenDenylist
	now      func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source. Tests use it to move tokens past expiry.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret, issuer string, ttl time.Duration, denylist ports.TokenDenylist, opts ...TokenOption) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	s := &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		ttl:      ttl,
		denylist: denylist,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the lifetime given to newly issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

func (s *TokenService) Issue(_ context.Context, user *domain.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", fmt.Errorf("issue token: %w", domain.ErrUserNotFound)
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Verify returns the identity bound to token. Failures are one of
// domain.ErrTokenMissing, domain.ErrTokenExpired or domain.ErrTokenInvalid
// (domain.ErrTokenRevoked for logged-out tokens); any other error comes from
// the deny-list backend.
func (s *TokenService) Verify(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}

	return &domain.TokenClaims{
		UserID:    claims.Subject,
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Invalidate makes token unusable for every later Verify. Tokens that are
// already expired or already revoked are accepted without error.
func (s *TokenService) Invalidate(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if errors.Is(err, domain.ErrTokenExpired) {
		return nil
	}
	if err != nil {
		return err
	}

	remaining := claims.ExpiresAt.Time.Sub(s.now())
	if remaining <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, remaining); err != nil {
		return fmt.Errorf("invalidate token: %w", err)
	}
	return nil
}

func (s *TokenService) parse(token string) (*jwt.RegisteredClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrTokenMissing
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, domain.ErrTokenExpired
	default:
		return nil, domain.ErrTokenInvalid
	}

	if claims.Subject == "" || claims.ID == "" {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

package domain

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is the root of every "who are you?" failure.
var ErrUnauthenticated = errors.New("unauthenticated")

// Token verification failures. Each one wraps ErrUnauthenticated so callers
// that only care about the 401 class can test for that.
var (
	ErrTokenMissing = fmt.Errorf("%w: token absent", ErrUnauthenticated)
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthenticated)
	ErrTokenInvalid = fmt.Errorf("%w: token invalid", ErrUnauthenticated)
	// ErrTokenRevoked is also an ErrTokenInvalid.
	ErrTokenRevoked = fmt.Errorf("%w (revoked)", ErrTokenInvalid)
)

var (
	ErrForbidden          = errors.New("access forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfDeletion       = errors.New("you cannot delete your own account")
	ErrPeerAdminDeletion  = errors.New("you cannot delete another administrator")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError carries a human readable reason and matches ErrValidation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

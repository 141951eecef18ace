package service

import (
	"context"
	"errors"
	"testing"

	"github.com/userhub/userhub-api/internal/core/domain"
)

func TestAccessGate_Authenticate(t *testing.T) {
	repo := newStubUserRepo()
	alice := repo.seed("Alice", "alice@example.com", domain.RoleUser)
	tokens, _ := newTokenSvc(newStubDenylist())
	gate := NewAccessGate(tokens, repo)

	token, _ := tokens.Issue(context.Background(), alice)

	user, err := gate.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if user.ID != alice.ID || user.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAccessGate_Authenticate_UserGone(t *testing.T) {
	repo := newStubUserRepo()
	alice := repo.seed("Alice", "alice@example.com", domain.RoleUser)
	tokens, _ := newTokenSvc(newStubDenylist())
	gate := NewAccessGate(tokens, repo)

	token, _ := tokens.Issue(context.Background(), alice)
	_ = repo.Delete(context.Background(), alice.ID)

	_, err := gate.Authenticate(context.Background(), token)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("a vanished user must not surface as not found")
	}
}

func TestAccessGate_Authenticate_RoleComesFromStore(t *testing.T) {
	repo := newStubUserRepo()
	alice := repo.seed("Alice", "alice@example.com", domain.RoleUser)
	tokens, _ := newTokenSvc(newStubDenylist())
	gate := NewAccessGate(tokens, repo)

	token, _ := tokens.Issue(context.Background(), alice)
	repo.users[alice.ID].Role = domain.RoleAdmin

	user, err := gate.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected promoted role, got %s", user.Role)
	}
}

func TestAccessGate_Authenticate_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	alice := repo.seed("Alice", "alice@example.com", domain.RoleUser)
	tokens, _ := newTokenSvc(newStubDenylist())
	gate := NewAccessGate(tokens, repo)
	token, _ := tokens.Issue(context.Background(), alice)

	repo.findErr = errors.New("mongo down")
	_, err := gate.Authenticate(context.Background(), token)
	if err == nil || errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected an internal error, got %v", err)
	}
}

func TestAccessGate_Authorize(t *testing.T) {
	gate := NewAccessGate(nil, nil)
	admin := &domain.User{ID: "a", Role: domain.RoleAdmin}
	user := &domain.User{ID: "u", Role: domain.RoleUser}

	tests := []struct {
		name     string
		user     *domain.User
		required domain.Role
		want     error
	}{
		{"admin on admin route", admin, domain.RoleAdmin, nil},
		{"user on admin route", user, domain.RoleAdmin, domain.ErrForbidden},
		{"user on user route", user, domain.RoleUser, nil},
		{"admin is not implicitly a user", admin, domain.RoleUser, domain.ErrForbidden},
		{"nobody", nil, domain.RoleUser, domain.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := gate.Authorize(tt.user, tt.required); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAccessGate_AuthorizePermission(t *testing.T) {
	gate := NewAccessGate(nil, nil)
	admin := &domain.User{Role: domain.RoleAdmin}
	user := &domain.User{Role: domain.RoleUser}

	if err := gate.AuthorizePermission(admin, domain.PermDeleteUsers); err != nil {
		t.Fatalf("admin should delete users: %v", err)
	}
	if err := gate.AuthorizePermission(admin, domain.PermViewUsers); err != nil {
		t.Fatalf("admin should view users: %v", err)
	}
	if err := gate.AuthorizePermission(user, domain.PermViewUsers); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

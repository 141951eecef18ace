package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/userhub-api/internal/core/domain"
	"github.com/userhub/userhub-api/internal/core/ports"
)

type userFixture struct {
	repo   *stubUserRepo
	photos *stubPhotoStore
	svc    ports.UserService
	admin  *domain.User
	alice  *domain.User
}

func newUserFixture() *userFixture {
	repo := newStubUserRepo()
	tokens, _ := newTokenSvc(newStubDenylist())
	photos := &stubPhotoStore{}
	f := &userFixture{
		repo:   repo,
		photos: photos,
		svc:    NewUserService(repo, NewAccessGate(tokens, repo), photos, zerolog.Nop()),
	}
	f.admin = repo.seed("Root", "root@example.com", domain.RoleAdmin)
	f.alice = repo.seed("Alice", "alice@example.com", domain.RoleUser)
	return f
}

func TestUserService_UpdateProfile_KeepOwnEmail(t *testing.T) {
	f := newUserFixture()

	updated, err := f.svc.UpdateProfile(context.Background(), f.alice, ports.UpdateProfileInput{
		Name:  "Alice Liddell",
		Email: "Alice@Example.com",
		Birth: birth,
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Name != "Alice Liddell" || updated.Email != "alice@example.com" || !updated.Birth.Equal(birth) {
		t.Fatalf("unexpected profile: %+v", updated)
	}
	if updated.Role != domain.RoleUser {
		t.Fatalf("role must not change, got %s", updated.Role)
	}
}

func TestUserService_UpdateProfile_TakenEmail(t *testing.T) {
	f := newUserFixture()

	_, err := f.svc.UpdateProfile(context.Background(), f.alice, ports.UpdateProfileInput{
		Name:  "Alice",
		Email: "root@example.com",
		Birth: birth,
	})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserService_UpdateProfile_NewEmail(t *testing.T) {
	f := newUserFixture()

	updated, err := f.svc.UpdateProfile(context.Background(), f.alice, ports.UpdateProfileInput{
		Name:  "Alice",
		Email: "alice@new.example.com",
		Birth: birth,
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Email != "alice@new.example.com" {
		t.Fatalf("email not updated: %q", updated.Email)
	}
}

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	f := newUserFixture()

	_, err := f.svc.UpdateProfile(context.Background(), f.alice, ports.UpdateProfileInput{Name: "", Email: "alice@example.com", Birth: birth})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUserService_ListUsers(t *testing.T) {
	f := newUserFixture()

	users, err := f.svc.ListUsers(context.Background(), f.admin)
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("password hash leaked for %s", u.ID)
		}
	}

	if _, err := f.svc.ListUsers(context.Background(), f.alice); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	f := newUserFixture()
	f.repo.users[f.alice.ID].Photo = "photos/alice.png"

	if err := f.svc.DeleteUser(context.Background(), f.admin, f.alice.ID); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if _, ok := f.repo.users[f.alice.ID]; ok {
		t.Fatalf("user still present")
	}
	if len(f.photos.removed) != 1 || f.photos.removed[0] != "photos/alice.png" {
		t.Fatalf("expected photo removal, got %v", f.photos.removed)
	}
}

func TestUserService_DeleteUser_Guards(t *testing.T) {
	f := newUserFixture()
	otherAdmin := f.repo.seed("Other", "other@example.com", domain.RoleAdmin)

	tests := []struct {
		name     string
		caller   *domain.User
		targetID string
		want     error
	}{
		{"non-admin caller", f.alice, otherAdmin.ID, domain.ErrForbidden},
		{"non-admin deleting self", f.alice, f.alice.ID, domain.ErrForbidden},
		{"admin deleting self", f.admin, f.admin.ID, domain.ErrSelfDeletion},
		{"admin deleting peer admin", f.admin, otherAdmin.ID, domain.ErrPeerAdminDeletion},
		{"unknown target", f.admin, "missing", domain.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.svc.DeleteUser(context.Background(), tt.caller, tt.targetID); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if len(f.repo.deleted) != 0 {
		t.Fatalf("nothing should have been deleted, got %v", f.repo.deleted)
	}
}

func TestUserService_DeleteUser_SelfWithoutPeers(t *testing.T) {
	repo := newStubUserRepo()
	tokens, _ := newTokenSvc(newStubDenylist())
	svc := NewUserService(repo, NewAccessGate(tokens, repo), nil, zerolog.Nop())
	only := repo.seed("Only", "only@example.com", domain.RoleAdmin)

	if err := svc.DeleteUser(context.Background(), only, only.ID); !errors.Is(err, domain.ErrSelfDeletion) {
		t.Fatalf("expected ErrSelfDeletion, got %v", err)
	}
}

func TestUserService_EnsureAdmin(t *testing.T) {
	repo := newStubUserRepo()
	tokens, _ := newTokenSvc(newStubDenylist())
	svc := NewUserService(repo, NewAccessGate(tokens, repo), nil, zerolog.Nop())

	admin, err := svc.EnsureAdmin(context.Background(), "", "Admin@Example.com", "changeme")
	if err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	if admin.Role != domain.RoleAdmin || admin.Email != "admin@example.com" || admin.Name != "Administrator" {
		t.Fatalf("unexpected admin: %+v", admin)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("changeme")); err != nil {
		t.Fatalf("admin password not hashed correctly: %v", err)
	}

	again, err := svc.EnsureAdmin(context.Background(), "Someone", "admin@example.com", "different")
	if err != nil {
		t.Fatalf("second EnsureAdmin returned error: %v", err)
	}
	if again.ID != admin.ID || len(repo.users) != 1 {
		t.Fatalf("EnsureAdmin must not create a second account")
	}

	if _, err := svc.EnsureAdmin(context.Background(), "x", "", "changeme"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	long := strings.Repeat("p", maxPasswordLength+1)
	if _, err := svc.EnsureAdmin(context.Background(), "x", "other@example.com", long); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for an overlong password, got %v", err)
	}
}

func TestUserService_StoreFailureIsWrapped(t *testing.T) {
	f := newUserFixture()
	f.repo.findErr = errors.New("mongo down")

	err := f.svc.DeleteUser(context.Background(), f.admin, f.alice.ID)
	if err == nil || errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

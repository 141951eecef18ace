package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/userhub/userhub-api/internal/core/domain"
	"github.com/userhub/userhub-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory user repository. Email uniqueness is enforced the way the Mongo
// unique index does it.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	nextID  int
	findErr error
	deleted []string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) emailTaken(email, exceptID string) bool {
	for id, u := range r.users {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(user.Email, "") {
		return nil, domain.ErrDuplicateEmail
	}
	r.nextID++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[clone.ID] = clone
	return cloneUser(clone), nil
}

// seed stores a user directly, bypassing hashing.
func (r *stubUserRepo) seed(name, email string, role domain.Role) *domain.User {
	u, err := r.Create(context.Background(), &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Birth:        time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Role:         role,
	})
	if err != nil {
		panic(err)
	}
	return u
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, in ports.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if r.emailTaken(in.Email, id) {
		return nil, domain.ErrDuplicateEmail
	}
	u.Name, u.Email, u.Birth = in.Name, in.Email, in.Birth
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// ---------------------------------------------------------------------------
// Deny-list and photo store stubs
// ---------------------------------------------------------------------------

type stubDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]time.Duration)}
}

func (d *stubDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.revoked[tokenID] = ttl
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.revoked[tokenID]
	return ok, nil
}

type stubPhotoStore struct {
	saved   []string
	removed []string
	saveErr error
}

func (p *stubPhotoStore) Save(_ context.Context, upload ports.PhotoUpload) (string, error) {
	if p.saveErr != nil {
		return "", p.saveErr
	}
	if _, err := io.ReadAll(upload.Content); err != nil {
		return "", err
	}
	path := "photos/" + upload.Filename
	p.saved = append(p.saved, path)
	return path, nil
}

func (p *stubPhotoStore) Remove(_ context.Context, path string) error {
	p.removed = append(p.removed, path)
	return nil
}

package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/tlc-app/tlc-backend/internal/core/domain"
	"github.com/tlc-app/tlc-backend/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int
	err    error

	updates      int
	beforeUpdate func()
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", r.nextID)
	r.byID[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, ch ports.ProfileChange) (*domain.User, error) {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if ch.PasswordHash != nil {
		if u.PasswordHash != ch.ExpectedHash {
			return nil, domain.ErrWrongPassword
		}
		u.PasswordHash = *ch.PasswordHash
	}
	if ch.Name != nil {
		u.Name = *ch.Name
	}
	if ch.Photo != nil {
		u.Photo = *ch.Photo
	}
	u.UpdatedAt = ch.UpdatedAt
	r.updates++
	return cloneUser(u), nil
}

// setPassword overwrites the stored hash, as a concurrent reset would.
func (r *stubUserRepo) setPassword(id, hash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id].PasswordHash = hash
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type stubCodeRepo struct {
	codes map[string]*domain.ResetCode
	users *stubUserRepo
	saves int
}

func newStubCodeRepo(users *stubUserRepo) *stubCodeRepo {
	return &stubCodeRepo{codes: make(map[string]*domain.ResetCode), users: users}
}

func (r *stubCodeRepo) Save(_ context.Context, code *domain.ResetCode) error {
	c := *code
	r.codes[code.UserID] = &c
	r.saves++
	return nil
}

func (r *stubCodeRepo) Find(_ context.Context, userID string) (*domain.ResetCode, error) {
	c, ok := r.codes[userID]
	if !ok {
		return nil, domain.ErrNoResetRequested
	}
	clone := *c
	return &clone, nil
}

func (r *stubCodeRepo) Delete(_ context.Context, userID string) error {
	delete(r.codes, userID)
	return nil
}

func (r *stubCodeRepo) Consume(ctx context.Context, userID string, code int, passwordHash string) error {
	c, ok := r.codes[userID]
	if !ok || c.Code != code {
		return domain.ErrNoResetRequested
	}
	delete(r.codes, userID)

	if _, err := r.users.FindByID(ctx, userID); err != nil {
		return err
	}
	r.users.setPassword(userID, passwordHash)
	return nil
}

type stubAudit struct {
	events []domain.AuthEventKind
	err    error
}

func (a *stubAudit) Record(_ context.Context, e *domain.AuthEvent) error {
	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, e.Kind)
	return nil
}

type stubNotifier struct {
	sent []domain.Notification
	err  error
}

func (n *stubNotifier) Notify(_ context.Context, msg domain.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

type stubLimiter struct {
	max      int
	failures map[string]int
	err      error
}

func newStubLimiter(max int) *stubLimiter {
	return &stubLimiter{max: max, failures: make(map[string]int)}
}

func (l *stubLimiter) Allowed(_ context.Context, userID string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return l.failures[userID] < l.max, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, userID string) error {
	l.failures[userID]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, userID string) error {
	delete(l.failures, userID)
	return nil
}

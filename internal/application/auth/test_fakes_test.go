package auth

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coopsoft/usermgmt/internal/domain"
	"github.com/coopsoft/usermgmt/internal/infrastructure/security"
)

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.User
	now    time.Time

	// injected errors (if set, method returns error)
	createErr    error
	getErr       error
	updateErr    error
	deleteErr    error
	setStatusErr error
	listErr      error

	// recorded calls
	setStatuses []struct {
		id     int64
		status domain.ApprovalStatus
	}
	deleted []int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID: map[int64]domain.User{},
		now:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// add inserts a user directly, bypassing the port. Each call advances the
// fake clock so creation order is observable.
func (f *fakeUserRepo) add(u domain.User) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	f.now = f.now.Add(time.Minute)
	u.CreatedAt = f.now
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	f.mu.Lock()
	for _, existing := range f.byID {
		if existing.Username == u.Username {
			f.mu.Unlock()
			return domain.User{}, domain.ErrUsernameAlreadyExists()
		}
	}
	f.mu.Unlock()
	return f.add(u), nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrUserNotFound()
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u domain.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound()
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == strings.TrimSpace(username) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) ValidateLogin(ctx context.Context, username, password string, role domain.Role) (domain.User, error) {
	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.byID {
		if u.Username != username || u.Role != role {
			continue
		}
		if u.PasswordHash != "hash:"+password {
			break
		}
		if !u.CanLogin() {
			break
		}
		f.now = f.now.Add(time.Minute)
		ts := f.now
		u.LastLoginAt = &ts
		f.byID[id] = u
		return u, nil
	}
	return domain.User{}, domain.ErrInvalidCredentials()
}

func (f *fakeUserRepo) sorted(filter func(domain.User) bool, oldestFirst bool) []domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []domain.User
	for _, u := range f.byID {
		if filter == nil || filter(u) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if oldestFirst {
			return users[i].ID < users[j].ID
		}
		return users[i].ID > users[j].ID
	})
	return users
}

func (f *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sorted(nil, false), nil
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sorted(func(u domain.User) bool { return u.Role == role }, false), nil
}

func (f *fakeUserRepo) ListPending(ctx context.Context) ([]domain.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sorted(func(u domain.User) bool { return u.IsPending() }, true), nil
}

func (f *fakeUserRepo) TouchLogin(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	f.now = f.now.Add(time.Minute)
	ts := f.now
	u.LastLoginAt = &ts
	f.byID[id] = u
	return nil
}

func (f *fakeUserRepo) SetApprovalStatus(ctx context.Context, id int64, status domain.ApprovalStatus) error {
	if f.setStatusErr != nil {
		return f.setStatusErr
	}
	if !status.Valid() {
		return domain.ErrInvalidStatus(string(status))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.Status = status
	f.byID[id] = u
	f.setStatuses = append(f.setStatuses, struct {
		id     int64
		status domain.ApprovalStatus
	}{id, status})
	return nil
}

type fakeHasher struct {
	hashErr    error
	compareErr error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	if h.compareErr != nil {
		return h.compareErr
	}
	if hash == "hash:"+password {
		return nil
	}
	return security.ErrMismatch
}

func (h *fakeHasher) MeetsStrengthPolicy(password string) bool {
	return security.MeetsStrengthPolicy(password)
}

/*
Shared helpers
*/

type auditEntry struct {
	action string
	fields map[string]string
}

func newSvcForTest(t *testing.T) (*Service, *fakeUserRepo, *fakeHasher, *[]auditEntry) {
	t.Helper()
	repo := newFakeUserRepo()
	hasher := &fakeHasher{}
	var entries []auditEntry
	svc := NewService(repo, hasher).WithAudit(func(action string, fields map[string]string) {
		entries = append(entries, auditEntry{action: action, fields: fields})
	})
	return svc, repo, hasher, &entries
}

// loginAs seeds an account and opens a session for it.
func loginAs(t *testing.T, svc *Service, repo *fakeUserRepo, username string, role domain.Role, status domain.ApprovalStatus) domain.User {
	t.Helper()
	repo.add(domain.User{
		Username:     username,
		PasswordHash: "hash:pass123",
		Role:         role,
		Status:       status,
	})
	u, err := svc.Login(context.Background(), username, "pass123", role)
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return u
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code %q, got %v", code, err)
	}
}

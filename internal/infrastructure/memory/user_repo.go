package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/coopsoft/usermgmt/internal/application/auth"
	"github.com/coopsoft/usermgmt/internal/domain"
)

// UserRepo is an in-memory implementation of the auth.UserRepo port. It
// backs the demo store mode and the tests that need real ordering semantics
// without a database.
type UserRepo struct {
	mu     sync.RWMutex
	hasher auth.PasswordHasher
	nextID int64
	byID   map[int64]domain.User
	now    func() time.Time
}

func NewUserRepo(hasher auth.PasswordHasher) *UserRepo {
	return &UserRepo{
		hasher: hasher,
		byID:   make(map[int64]domain.User),
		now:    time.Now,
	}
}

// WithClock overrides the timestamp source. Test hook.
func (r *UserRepo) WithClock(now func() time.Time) *UserRepo {
	r.now = now
	return r
}

func (r *UserRepo) findByUsername(username string) (domain.User, bool) {
	for _, u := range r.byID {
		if u.Username == username {
			return u, true
		}
	}
	return domain.User{}, false
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}
	if !u.Role.Valid() {
		return domain.User{}, domain.ErrInvalidRole(string(u.Role))
	}
	if !u.Status.Valid() {
		return domain.User{}, domain.ErrInvalidStatus(string(u.Status))
	}
	if _, exists := r.findByUsername(u.Username); exists {
		return domain.User{}, domain.ErrUsernameAlreadyExists()
	}

	r.nextID++
	u.ID = r.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now()
	}
	r.byID[u.ID] = u
	return u, nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound()
	}
	delete(r.byID, id)
	return nil
}

func (r *UserRepo) Update(ctx context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !u.Role.Valid() {
		return domain.ErrInvalidRole(string(u.Role))
	}
	if !u.Status.Valid() {
		return domain.ErrInvalidStatus(string(u.Status))
	}
	stored, ok := r.byID[u.ID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	// CreatedAt is immutable; everything else follows the caller.
	u.CreatedAt = stored.CreatedAt
	r.byID[u.ID] = u
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.findByUsername(strings.TrimSpace(username))
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) ValidateLogin(ctx context.Context, username, password string, role domain.Role) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var found *domain.User
	for _, u := range r.byID {
		if u.Username == username && u.Role == role {
			match := u
			found = &match
			break
		}
	}
	if found == nil {
		return domain.User{}, domain.ErrInvalidCredentials()
	}
	if err := r.hasher.Compare(found.PasswordHash, password); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials()
	}
	if !found.CanLogin() {
		return domain.User{}, domain.ErrInvalidCredentials()
	}

	now := r.now()
	found.LastLoginAt = &now
	r.byID[found.ID] = *found
	return *found, nil
}

func (r *UserRepo) list(filter func(domain.User) bool, oldestFirst bool) []domain.User {
	var users []domain.User
	for _, u := range r.byID {
		if filter == nil || filter(u) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if oldestFirst {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		if oldestFirst {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
	return users
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(nil, false), nil
}

func (r *UserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole(string(role))
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(func(u domain.User) bool { return u.Role == role }, false), nil
}

func (r *UserRepo) ListPending(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(func(u domain.User) bool { return u.IsPending() }, true), nil
}

func (r *UserRepo) TouchLogin(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	now := r.now()
	u.LastLoginAt = &now
	r.byID[id] = u
	return nil
}

func (r *UserRepo) SetApprovalStatus(ctx context.Context, id int64, status domain.ApprovalStatus) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus(string(status))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.Status = status
	r.byID[id] = u
	return nil
}

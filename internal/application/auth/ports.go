package auth

import (
	"context"

	"github.com/coopsoft/usermgmt/internal/domain"
)

/*
UserRepo
--------
Persistence port for users. Describes WHAT the service needs, not HOW it is
stored. Absence is signaled with a not_found / invalid_credentials domain
error, never by a zero-value user; connectivity failures surface as
infrastructure errors and are never folded into "not found".
*/
type UserRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Delete(ctx context.Context, id int64) error
	// Update rewrites the full row (username, credential, role, status,
	// last login, remark) keyed by id.
	Update(ctx context.Context, u domain.User) error

	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)

	// ValidateLogin looks the user up by (username, role), verifies the
	// password and the approval gate, touches the last-login time and
	// returns the user. Every failure mode except a storage fault comes
	// back as the same invalid_credentials error so callers cannot probe
	// approval state.
	ValidateLogin(ctx context.Context, username, password string, role domain.Role) (domain.User, error)

	// List returns all users newest-created-first. ListPending is the one
	// place the direction flips: oldest-first, so admins review
	// registrations in arrival order.
	List(ctx context.Context) ([]domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	ListPending(ctx context.Context) ([]domain.User, error)

	TouchLogin(ctx context.Context, id int64) error
	SetApprovalStatus(ctx context.Context, id int64, status domain.ApprovalStatus) error
}

/*
PasswordHasher
--------------
One-way credential transform plus the strength policy. Compare returns nil
on match.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
	MeetsStrengthPolicy(password string) bool
}

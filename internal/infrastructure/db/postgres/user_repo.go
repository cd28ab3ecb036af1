package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/coopsoft/usermgmt/internal/application/auth"
	"github.com/coopsoft/usermgmt/internal/domain"
)

const userColumns = "id, username, password_hash, role, approval_status, created_at, last_login_at, remark"

// UserRepo is the Postgres implementation of the auth.UserRepo port. It
// needs the hasher because login verification happens at this boundary:
// the stored digest never leaves the repository for comparison elsewhere.
type UserRepo struct {
	db     *sql.DB
	hasher auth.PasswordHasher
}

func NewUserRepo(db *sql.DB, hasher auth.PasswordHasher) *UserRepo {
	return &UserRepo{db: db, hasher: hasher}
}

// ---------- helpers ----------

func (r *UserRepo) scanUserRow(row *sql.Row) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Username,
		&ur.PasswordHash,
		&ur.Role,
		&ur.Status,
		&ur.CreatedAt,
		&ur.LastLoginAt,
		&ur.Remark,
	)
	return ur, err
}

func (r *UserRepo) queryUsers(ctx context.Context, q string, args ...any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var ur userRow
		if err := rows.Scan(
			&ur.ID,
			&ur.Username,
			&ur.PasswordHash,
			&ur.Role,
			&ur.Status,
			&ur.CreatedAt,
			&ur.LastLoginAt,
			&ur.Remark,
		); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		users = append(users, toDomainUser(ur))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return users, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// Driver-agnostic fallback for tests and non-pgx setups.
	return strings.Contains(strings.ToLower(err.Error()), "duplicate")
}

// ---------- auth.UserRepo ----------

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
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

	const q = `
INSERT INTO users (username, password_hash, role, approval_status, remark)
VALUES ($1,$2,$3,$4,$5)
RETURNING ` + userColumns + `;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q,
		u.Username, u.PasswordHash, string(u.Role), string(u.Status), remarkValue(u.Remark),
	))
	if err != nil {
		// The unique constraint stays the source of truth even though the
		// service pre-checks usernames.
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrUsernameAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM users WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) Update(ctx context.Context, u domain.User) error {
	if !u.Role.Valid() {
		return domain.ErrInvalidRole(string(u.Role))
	}
	if !u.Status.Valid() {
		return domain.ErrInvalidStatus(string(u.Status))
	}

	const q = `
UPDATE users
SET username = $2,
    password_hash = $3,
    role = $4,
    approval_status = $5,
    last_login_at = $6,
    remark = $7
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q,
		u.ID, u.Username, u.PasswordHash, string(u.Role), string(u.Status),
		u.LastLoginAt, remarkValue(u.Remark),
	)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE username = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

// ValidateLogin keys the lookup on (username, role): the same username under
// a different role is a distinct login identity. After the digest check the
// approval gate applies, except for admins, who log in regardless of status.
// All of wrong-password, unknown-user and not-approved collapse into
// invalid_credentials.
func (r *UserRepo) ValidateLogin(ctx context.Context, username, password string, role domain.Role) (domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE username = $1 AND role = $2
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, username, string(role)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrInvalidCredentials()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}

	if err := r.hasher.Compare(ur.PasswordHash, password); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials()
	}

	u := toDomainUser(ur)
	if !u.CanLogin() {
		return domain.User{}, domain.ErrInvalidCredentials()
	}

	const touchQ = `
UPDATE users
SET last_login_at = NOW()
WHERE id = $1
RETURNING last_login_at;
`
	if err := r.db.QueryRowContext(ctx, touchQ, u.ID).Scan(&u.LastLoginAt); err != nil {
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
ORDER BY created_at DESC, id DESC;
`
	return r.queryUsers(ctx, q)
}

func (r *UserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole(string(role))
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE role = $1
ORDER BY created_at DESC, id DESC;
`
	return r.queryUsers(ctx, q, string(role))
}

// ListPending orders oldest-first: the review queue is FIFO.
func (r *UserRepo) ListPending(ctx context.Context) ([]domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE approval_status = $1
ORDER BY created_at ASC, id ASC;
`
	return r.queryUsers(ctx, q, string(domain.StatusPending))
}

func (r *UserRepo) TouchLogin(ctx context.Context, id int64) error {
	const q = `
UPDATE users
SET last_login_at = NOW()
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// SetApprovalStatus refuses values outside the closed set before touching
// the store.
func (r *UserRepo) SetApprovalStatus(ctx context.Context, id int64, status domain.ApprovalStatus) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus(string(status))
	}

	const q = `
UPDATE users
SET approval_status = $2
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, id, string(status))
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

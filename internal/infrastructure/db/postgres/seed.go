package postgres

import (
	"context"

	"github.com/coopsoft/usermgmt/internal/domain"
)

// Small interfaces so seeding works against any store, not just this one.

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedAdmin provisions the initial admin account. Restart safe: an existing
// username is left alone, whatever its role.
func SeedAdmin(ctx context.Context, repo SeederRepo, hasher SeederHasher, username, password string) (domain.User, error) {
	if existing, err := repo.GetByUsername(ctx, username); err == nil {
		return existing, nil
	} else if domain.KindOf(err) != domain.KindNotFound {
		return domain.User{}, err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	created, err := repo.Create(ctx, domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.StatusApproved,
		Remark:       "seeded admin account",
	})
	if err != nil {
		// Lost a race against another seeder; treat the same as existing.
		if domain.Is(err, "username_already_exists") {
			return repo.GetByUsername(ctx, username)
		}
		return domain.User{}, err
	}
	return created, nil
}

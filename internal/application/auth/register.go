package auth

import (
	"context"
	"strings"

	"github.com/coopsoft/usermgmt/internal/domain"
)

// RegisterInput carries the self-registration form. Password is plaintext
// here and nowhere past this call.
type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	Role            domain.Role
	Remark          string
}

// Register validates and persists a self-service registration. The check
// order is part of the contract (the user always sees the same first
// failure): password confirmation, then duplicate username, then password
// strength, then the admin-role ban. Each rejection is terminal; nothing is
// written until every check passes. The stored account is always Pending
// regardless of what the caller put in the input.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)

	if in.Password != in.ConfirmPassword {
		return domain.User{}, domain.ErrPasswordMismatch()
	}

	exists, err := s.IsUsernameExists(ctx, in.Username)
	if err != nil {
		return domain.User{}, err
	}
	if exists {
		return domain.User{}, domain.ErrUsernameAlreadyExists()
	}

	if !s.hasher.MeetsStrengthPolicy(in.Password) {
		return domain.User{}, domain.ErrWeakPassword()
	}

	if in.Role.IsAdmin() {
		return domain.User{}, domain.ErrAdminRegistrationForbidden()
	}
	if !in.Role.Valid() {
		return domain.User{}, domain.ErrInvalidRole(string(in.Role))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	created, err := s.users.Create(ctx, domain.User{
		Username:     in.Username,
		PasswordHash: hash,
		Role:         in.Role,
		Status:       domain.StatusPending,
		Remark:       in.Remark,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.audit("auth.register", map[string]string{
		"username": created.Username,
		"role":     string(created.Role),
	})
	return created, nil
}

// IsUsernameExists is a thin existence probe. A missing row is a normal
// false, not an error; storage faults propagate.
func (s *Service) IsUsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ValidatePasswordStrength exposes the strength policy to the UI so forms
// can pre-check before submitting.
func (s *Service) ValidatePasswordStrength(password string) bool {
	return s.hasher.MeetsStrengthPolicy(password)
}

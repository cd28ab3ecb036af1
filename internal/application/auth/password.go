package auth

import (
	"context"

	"github.com/coopsoft/usermgmt/internal/domain"
)

// ChangePassword replaces the credential of the active session's user.
// Fails closed: any precondition failure leaves both the stored row and the
// session untouched.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	cur, ok := s.CurrentUser()
	if !ok {
		return domain.ErrNotLoggedIn()
	}
	if oldPassword == "" || newPassword == "" {
		return domain.ErrMissingField("password")
	}

	if err := s.hasher.Compare(cur.PasswordHash, oldPassword); err != nil {
		return domain.ErrInvalidCredentials()
	}
	if !s.hasher.MeetsStrengthPolicy(newPassword) {
		return domain.ErrWeakPassword()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.ErrHashFailed(err)
	}

	cur.PasswordHash = hash
	if err := s.users.Update(ctx, cur); err != nil {
		return err
	}
	s.updateSessionUser(cur)

	s.audit("auth.password_change", map[string]string{
		"username": cur.Username,
	})
	return nil
}

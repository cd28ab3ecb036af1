package auth

import (
	"context"
	"strings"

	"github.com/coopsoft/usermgmt/internal/domain"
)

// Login authenticates a console user under a specific role and opens the
// session. Blank input is rejected locally before any storage access.
//
// Every authentication failure comes back as the same invalid_credentials
// error: wrong password, unknown username and a not-yet-approved account are
// deliberately indistinguishable. Storage faults pass through untouched so
// the UI can tell the operator the database is down.
func (s *Service) Login(ctx context.Context, username, password string, role domain.Role) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if strings.TrimSpace(password) == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}
	if !role.Valid() {
		return domain.User{}, domain.ErrInvalidRole(string(role))
	}

	u, err := s.users.ValidateLogin(ctx, username, password, role)
	if err != nil {
		if domain.KindOf(err) == domain.KindInfrastructure {
			return domain.User{}, err
		}
		s.audit("auth.login", map[string]string{
			"username": username,
			"role":     string(role),
			"result":   "denied",
		})
		return domain.User{}, domain.ErrInvalidCredentials()
	}

	sid := s.setSession(u)
	s.audit("auth.login", map[string]string{
		"session_id": sid,
		"username":   u.Username,
		"role":       string(u.Role),
		"result":     "success",
	})
	return u, nil
}

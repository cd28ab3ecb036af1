package auth

import (
	"sync"

	"github.com/google/uuid"

	"github.com/coopsoft/usermgmt/internal/domain"
)

// Service orchestrates authentication, registration and the admin approval
// workflow. It holds the single interactive session: the process serves one
// console user at a time, but session access is still guarded so a future
// multi-client transport does not corrupt it.
type Service struct {
	users  UserRepo
	hasher PasswordHasher
	audit  func(action string, fields map[string]string)

	mu      sync.Mutex
	current *session
}

// session identifies one authenticated console session. The ID only exists
// to correlate audit lines; there are no session tokens.
type session struct {
	ID   string
	User domain.User
}

func NewService(users UserRepo, hasher PasswordHasher) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		audit:  func(string, map[string]string) {},
	}
}

// WithAudit installs an audit sink for security-relevant actions.
func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// CurrentUser returns the authenticated user of the active session, if any.
func (s *Service) CurrentUser() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.User{}, false
	}
	return s.current.User, true
}

// Logout clears the active session. Idempotent: logging out twice is a no-op.
func (s *Service) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	s.audit("auth.logout", map[string]string{
		"session_id": s.current.ID,
		"username":   s.current.User.Username,
	})
	s.current = nil
}

func (s *Service) setSession(u domain.User) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &session{ID: uuid.NewString(), User: u}
	return s.current.ID
}

// updateSessionUser refreshes the in-session copy after a profile or
// credential change. No-op if the session was cleared in between.
func (s *Service) updateSessionUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.User.ID == u.ID {
		s.current.User = u
	}
}

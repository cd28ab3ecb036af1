package auth

import (
	"context"
	"strconv"
	"strings"

	"github.com/coopsoft/usermgmt/internal/domain"
)

// AddUserInput carries the admin provisioning form. Unlike self-service
// registration, the account goes live immediately (Approved).
type AddUserInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	Role            domain.Role
	Remark          string
}

// requireAdmin resolves the active session and enforces the admin guard.
// The rule lives here, not in the UI.
func (s *Service) requireAdmin() (domain.User, error) {
	cur, ok := s.CurrentUser()
	if !ok {
		return domain.User{}, domain.ErrNotLoggedIn()
	}
	if !cur.IsAdmin() {
		return domain.User{}, domain.ErrInsufficientRole(string(domain.RoleAdmin))
	}
	return cur, nil
}

func (s *Service) auditAdmin(action string, actor domain.User, targetID int64, err error) {
	fields := map[string]string{
		"actor":     actor.Username,
		"target_id": strconv.FormatInt(targetID, 10),
		"result":    "success",
	}
	if err != nil {
		fields["result"] = "error"
		fields["error_code"] = domain.Code(err)
	}
	s.audit(action, fields)
}

// ApproveUser moves a registration to Approved. Works from any current
// status; the review queue only surfaces Pending rows.
func (s *Service) ApproveUser(ctx context.Context, id int64) error {
	actor, err := s.requireAdmin()
	if err != nil {
		return err
	}
	err = s.users.SetApprovalStatus(ctx, id, domain.StatusApproved)
	s.auditAdmin("admin.approve_user", actor, id, err)
	return err
}

// RejectUser moves a registration to Rejected.
func (s *Service) RejectUser(ctx context.Context, id int64) error {
	actor, err := s.requireAdmin()
	if err != nil {
		return err
	}
	err = s.users.SetApprovalStatus(ctx, id, domain.StatusRejected)
	s.auditAdmin("admin.reject_user", actor, id, err)
	return err
}

// AddUser provisions an account directly. Admin roles cannot be created
// here either; admin accounts only come from seeding.
func (s *Service) AddUser(ctx context.Context, in AddUserInput) (domain.User, error) {
	actor, err := s.requireAdmin()
	if err != nil {
		return domain.User{}, err
	}

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
		Status:       domain.StatusApproved,
		Remark:       in.Remark,
	})
	s.auditAdmin("admin.add_user", actor, created.ID, err)
	if err != nil {
		return domain.User{}, err
	}
	return created, nil
}

// DeleteUser removes an account permanently. Admins cannot delete
// themselves; everything else is fair game, including other admins.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	actor, err := s.requireAdmin()
	if err != nil {
		return err
	}
	if id == actor.ID {
		err = domain.ErrCannotDeleteSelf()
		s.auditAdmin("admin.delete_user", actor, id, err)
		return err
	}
	err = s.users.Delete(ctx, id)
	s.auditAdmin("admin.delete_user", actor, id, err)
	return err
}

// UpdateRemark rewrites the free-text annotation on an account.
func (s *Service) UpdateRemark(ctx context.Context, id int64, remark string) error {
	actor, err := s.requireAdmin()
	if err != nil {
		return err
	}
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.auditAdmin("admin.update_remark", actor, id, err)
		return err
	}
	target.Remark = remark
	err = s.users.Update(ctx, target)
	s.auditAdmin("admin.update_remark", actor, id, err)
	return err
}

// ListUsers returns every account, newest registration first.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// ListUsersByRole filters by account type, newest first.
func (s *Service) ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole(string(role))
	}
	return s.users.ListByRole(ctx, role)
}

// ListPendingUsers returns the review queue in arrival order.
func (s *Service) ListPendingUsers(ctx context.Context) ([]domain.User, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	return s.users.ListPending(ctx)
}

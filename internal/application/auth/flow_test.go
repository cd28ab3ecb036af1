package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/coopsoft/usermgmt/internal/application/auth"
	"github.com/coopsoft/usermgmt/internal/domain"
	"github.com/coopsoft/usermgmt/internal/infrastructure/memory"
	"github.com/coopsoft/usermgmt/internal/infrastructure/security"
)

// End-to-end flows against the real in-memory store and the real hasher.
// This is the closest thing to running the application without a terminal.

func newRealStack(t *testing.T) (*auth.Service, *memory.UserRepo) {
	t.Helper()
	hasher, err := security.NewPBKDF2Hasher("flow-test-secret", 1_000)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	repo := memory.NewUserRepo(hasher)
	return auth.NewService(repo, hasher), repo
}

func seedAdmin(t *testing.T, repo *memory.UserRepo) domain.User {
	t.Helper()
	hasher, _ := security.NewPBKDF2Hasher("flow-test-secret", 1_000)
	hash, _ := hasher.Hash("admin123")
	admin, err := repo.Create(context.Background(), domain.User{
		Username:     "root1",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.StatusApproved,
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return admin
}

func TestFlow_RegisterApproveLogin(t *testing.T) {
	t.Parallel()

	svc, repo := newRealStack(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, auth.RegisterInput{
		Username:        "alice1",
		Password:        "abc123",
		ConfirmPassword: "abc123",
		Role:            domain.RoleTypeOne,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Status != domain.StatusPending {
		t.Fatalf("fresh registration must be pending, got %q", created.Status)
	}

	// Pending accounts cannot log in yet.
	_, err = svc.Login(ctx, "alice1", "abc123", domain.RoleTypeOne)
	if !domain.Is(err, "invalid_credentials") {
		t.Fatalf("expected invalid_credentials before approval, got %v", err)
	}

	// Admin reviews and approves.
	seedAdmin(t, repo)
	if _, err := svc.Login(ctx, "root1", "admin123", domain.RoleAdmin); err != nil {
		t.Fatalf("admin login: %v", err)
	}
	queue, err := svc.ListPendingUsers(ctx)
	if err != nil {
		t.Fatalf("pending queue: %v", err)
	}
	if len(queue) != 1 || queue[0].Username != "alice1" {
		t.Fatalf("queue = %+v", queue)
	}
	if err := svc.ApproveUser(ctx, created.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	svc.Logout()

	before := time.Now()
	u, err := svc.Login(ctx, "alice1", "abc123", domain.RoleTypeOne)
	if err != nil {
		t.Fatalf("login after approval: %v", err)
	}
	if u.LastLoginAt == nil || u.LastLoginAt.Before(before.Add(-time.Second)) {
		t.Fatalf("expected last login stamped, got %v", u.LastLoginAt)
	}
}

func TestFlow_RejectedAccountStaysLockedOut(t *testing.T) {
	t.Parallel()

	svc, repo := newRealStack(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, auth.RegisterInput{
		Username:        "bob1",
		Password:        "abc123",
		ConfirmPassword: "abc123",
		Role:            domain.RoleTypeTwo,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	seedAdmin(t, repo)
	if _, err := svc.Login(ctx, "root1", "admin123", domain.RoleAdmin); err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if err := svc.RejectUser(ctx, created.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	svc.Logout()

	_, err = svc.Login(ctx, "bob1", "abc123", domain.RoleTypeTwo)
	if !domain.Is(err, "invalid_credentials") {
		t.Fatalf("rejected account must fail uniformly, got %v", err)
	}
}

func TestFlow_WeakPasswordRegistrationLeavesNoTrace(t *testing.T) {
	t.Parallel()

	svc, _ := newRealStack(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, auth.RegisterInput{
		Username:        "carol1",
		Password:        "weakpw",
		ConfirmPassword: "weakpw",
		Role:            domain.RoleTypeOne,
	})
	if !domain.Is(err, "weak_password") {
		t.Fatalf("expected weak_password, got %v", err)
	}

	exists, err := svc.IsUsernameExists(ctx, "carol1")
	if err != nil {
		t.Fatalf("exists check: %v", err)
	}
	if exists {
		t.Fatalf("no row should have been created")
	}
}

func TestFlow_ChangePasswordThenRelogin(t *testing.T) {
	t.Parallel()

	svc, repo := newRealStack(t)
	ctx := context.Background()

	seedAdmin(t, repo)
	if _, err := svc.Login(ctx, "root1", "admin123", domain.RoleAdmin); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.ChangePassword(ctx, "admin123", "newpw456"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	svc.Logout()

	if _, err := svc.Login(ctx, "root1", "admin123", domain.RoleAdmin); !domain.Is(err, "invalid_credentials") {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := svc.Login(ctx, "root1", "newpw456", domain.RoleAdmin); err != nil {
		t.Fatalf("new password login: %v", err)
	}
}

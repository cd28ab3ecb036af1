package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/coopsoft/usermgmt/internal/application/auth"
	"github.com/coopsoft/usermgmt/internal/domain"
)

// UI drives the interactive menus. It renders service results and owns no
// business rules: every permission and validation decision happens in the
// service, and the UI just reports the outcome.
type UI struct {
	svc *auth.Service
	in  *bufio.Scanner
	out io.Writer
}

func New(svc *auth.Service) *UI {
	return NewWithIO(svc, os.Stdin, os.Stdout)
}

// NewWithIO injects reader/writer. Test hook.
func NewWithIO(svc *auth.Service, in io.Reader, out io.Writer) *UI {
	return &UI{svc: svc, in: bufio.NewScanner(in), out: out}
}

// Run shows the top-level menu until the user exits or input ends.
func (ui *UI) Run(ctx context.Context) error {
	fmt.Fprintln(ui.out, "========================================")
	fmt.Fprintln(ui.out, "       User Management System")
	fmt.Fprintln(ui.out, "========================================")

	for {
		fmt.Fprintln(ui.out)
		fmt.Fprintln(ui.out, "1. Log in")
		fmt.Fprintln(ui.out, "2. Register")
		fmt.Fprintln(ui.out, "0. Exit")

		choice, err := ui.promptChoice("Select: ", 0, 2)
		if err != nil {
			return ui.finish(err)
		}

		switch choice {
		case 1:
			if err := ui.loginFlow(ctx); err != nil {
				return ui.finish(err)
			}
		case 2:
			if err := ui.registerFlow(ctx); err != nil {
				return ui.finish(err)
			}
		case 0:
			fmt.Fprintln(ui.out, "Bye.")
			return nil
		}
	}
}

// finish maps end-of-input and retry exhaustion to a clean exit.
func (ui *UI) finish(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, errTooManyAttempts) {
		fmt.Fprintln(ui.out, "Bye.")
		return nil
	}
	return err
}

// fail prints a domain error's safe message; anything else gets a generic
// line so internals never reach the screen.
func (ui *UI) fail(err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		fmt.Fprintf(ui.out, "Error: %s\n", de.Message)
		return
	}
	fmt.Fprintln(ui.out, "Error: something went wrong, try again later")
}

// ---------- login / register ----------

func (ui *UI) pickRole() (domain.Role, error) {
	fmt.Fprintln(ui.out)
	fmt.Fprintln(ui.out, "1. Administrator")
	fmt.Fprintln(ui.out, "2. Type 1 user")
	fmt.Fprintln(ui.out, "3. Type 2 user")
	fmt.Fprintln(ui.out, "0. Cancel")

	choice, err := ui.promptChoice("Account type: ", 0, 3)
	if err != nil {
		return "", err
	}
	switch choice {
	case 1:
		return domain.RoleAdmin, nil
	case 2:
		return domain.RoleTypeOne, nil
	case 3:
		return domain.RoleTypeTwo, nil
	}
	return "", errCancelled
}

func (ui *UI) loginFlow(ctx context.Context) error {
	role, err := ui.pickRole()
	if err != nil {
		if errors.Is(err, errCancelled) {
			return nil
		}
		return err
	}

	username, err := ui.promptLine("Username: ")
	if err != nil {
		return err
	}
	password, err := ui.promptLine("Password: ")
	if err != nil {
		return err
	}

	user, err := ui.svc.Login(ctx, username, password, role)
	if err != nil {
		ui.fail(err)
		return nil
	}

	fmt.Fprintf(ui.out, "Welcome, %s!\n", user.Username)
	if user.IsAdmin() {
		return ui.adminMenu(ctx)
	}
	return ui.userMenu(ctx)
}

func (ui *UI) registerFlow(ctx context.Context) error {
	fmt.Fprintln(ui.out)
	fmt.Fprintln(ui.out, "--- Register (account requires admin approval) ---")

	role, err := ui.pickRole()
	if err != nil {
		if errors.Is(err, errCancelled) {
			return nil
		}
		return err
	}
	if role.IsAdmin() {
		ui.fail(domain.ErrAdminRegistrationForbidden())
		return nil
	}

	form := registerForm{}
	if form.Username, err = ui.promptLine("Username: "); err != nil {
		return err
	}
	if form.Password, err = ui.promptLine("Password: "); err != nil {
		return err
	}
	if form.Confirm, err = ui.promptLine("Confirm password: "); err != nil {
		return err
	}
	if verr := validateForm(form); verr != nil {
		fmt.Fprintf(ui.out, "Error: %s\n", verr)
		return nil
	}

	created, err := ui.svc.Register(ctx, auth.RegisterInput{
		Username:        form.Username,
		Password:        form.Password,
		ConfirmPassword: form.Confirm,
		Role:            role,
	})
	if err != nil {
		ui.fail(err)
		return nil
	}
	fmt.Fprintf(ui.out, "Registered %s (id %d). Wait for an administrator to approve the account.\n",
		created.Username, created.ID)
	return nil
}

// ---------- regular user menu ----------

func (ui *UI) userMenu(ctx context.Context) error {
	for {
		fmt.Fprintln(ui.out)
		fmt.Fprintln(ui.out, "1. My profile")
		fmt.Fprintln(ui.out, "2. Change password")
		fmt.Fprintln(ui.out, "0. Log out")

		choice, err := ui.promptChoice("Select: ", 0, 2)
		if err != nil {
			ui.svc.Logout()
			return err
		}

		switch choice {
		case 1:
			if u, ok := ui.svc.CurrentUser(); ok {
				ui.printUsers([]domain.User{u})
			}
		case 2:
			if err := ui.changePasswordFlow(ctx); err != nil {
				ui.svc.Logout()
				return err
			}
		case 0:
			ui.svc.Logout()
			fmt.Fprintln(ui.out, "Logged out.")
			return nil
		}
	}
}

func (ui *UI) changePasswordFlow(ctx context.Context) error {
	oldPw, err := ui.promptLine("Current password: ")
	if err != nil {
		return err
	}
	newPw, err := ui.promptLine("New password: ")
	if err != nil {
		return err
	}
	if err := ui.svc.ChangePassword(ctx, oldPw, newPw); err != nil {
		ui.fail(err)
		return nil
	}
	fmt.Fprintln(ui.out, "Password changed.")
	return nil
}

// ---------- admin menu ----------

func (ui *UI) adminMenu(ctx context.Context) error {
	for {
		fmt.Fprintln(ui.out)
		fmt.Fprintln(ui.out, "1. All users")
		fmt.Fprintln(ui.out, "2. Users by type")
		fmt.Fprintln(ui.out, "3. Pending review queue")
		fmt.Fprintln(ui.out, "4. Add user")
		fmt.Fprintln(ui.out, "5. Delete user")
		fmt.Fprintln(ui.out, "6. Edit remark")
		fmt.Fprintln(ui.out, "0. Log out")

		choice, err := ui.promptChoice("Select: ", 0, 6)
		if err != nil {
			ui.svc.Logout()
			return err
		}

		var flowErr error
		switch choice {
		case 1:
			flowErr = ui.listAllFlow(ctx)
		case 2:
			flowErr = ui.listByRoleFlow(ctx)
		case 3:
			flowErr = ui.reviewFlow(ctx)
		case 4:
			flowErr = ui.addUserFlow(ctx)
		case 5:
			flowErr = ui.deleteUserFlow(ctx)
		case 6:
			flowErr = ui.editRemarkFlow(ctx)
		case 0:
			ui.svc.Logout()
			fmt.Fprintln(ui.out, "Logged out.")
			return nil
		}
		if flowErr != nil {
			ui.svc.Logout()
			return flowErr
		}
	}
}

func (ui *UI) listAllFlow(ctx context.Context) error {
	users, err := ui.svc.ListUsers(ctx)
	if err != nil {
		ui.fail(err)
		return nil
	}
	ui.printUsers(users)
	return nil
}

func (ui *UI) listByRoleFlow(ctx context.Context) error {
	role, err := ui.pickRole()
	if err != nil {
		if errors.Is(err, errCancelled) {
			return nil
		}
		return err
	}
	users, err := ui.svc.ListUsersByRole(ctx, role)
	if err != nil {
		ui.fail(err)
		return nil
	}
	ui.printUsers(users)
	return nil
}

func (ui *UI) reviewFlow(ctx context.Context) error {
	pending, err := ui.svc.ListPendingUsers(ctx)
	if err != nil {
		ui.fail(err)
		return nil
	}
	if len(pending) == 0 {
		fmt.Fprintln(ui.out, "No registrations waiting for review.")
		return nil
	}
	ui.printUsers(pending)

	id, err := ui.promptID("User id to review (0 to cancel): ")
	if err != nil {
		if errors.Is(err, errCancelled) || errors.Is(err, errTooManyAttempts) {
			return nil
		}
		return err
	}

	choice, err := ui.promptChoice("1. Approve  2. Reject  0. Cancel: ", 0, 2)
	if err != nil {
		if errors.Is(err, errTooManyAttempts) {
			return nil
		}
		return err
	}

	switch choice {
	case 1:
		err = ui.svc.ApproveUser(ctx, id)
	case 2:
		err = ui.svc.RejectUser(ctx, id)
	default:
		return nil
	}
	if err != nil {
		ui.fail(err)
		return nil
	}
	fmt.Fprintln(ui.out, "Done.")
	return nil
}

func (ui *UI) addUserFlow(ctx context.Context) error {
	fmt.Fprintln(ui.out)
	fmt.Fprintln(ui.out, "--- Add user (goes live immediately) ---")

	role, err := ui.pickRole()
	if err != nil {
		if errors.Is(err, errCancelled) {
			return nil
		}
		return err
	}

	form := addUserForm{}
	if form.Username, err = ui.promptLine("Username: "); err != nil {
		return err
	}
	if form.Password, err = ui.promptLine("Password: "); err != nil {
		return err
	}
	if form.Confirm, err = ui.promptLine("Confirm password: "); err != nil {
		return err
	}
	remark, err := ui.promptLine("Remark (optional): ")
	if err != nil {
		return err
	}
	if verr := validateForm(form); verr != nil {
		fmt.Fprintf(ui.out, "Error: %s\n", verr)
		return nil
	}

	created, err := ui.svc.AddUser(ctx, auth.AddUserInput{
		Username:        form.Username,
		Password:        form.Password,
		ConfirmPassword: form.Confirm,
		Role:            role,
		Remark:          remark,
	})
	if err != nil {
		ui.fail(err)
		return nil
	}
	fmt.Fprintf(ui.out, "Added %s (id %d).\n", created.Username, created.ID)
	return nil
}

func (ui *UI) deleteUserFlow(ctx context.Context) error {
	if err := ui.listAllFlow(ctx); err != nil {
		return err
	}
	id, err := ui.promptID("User id to delete (0 to cancel): ")
	if err != nil {
		if errors.Is(err, errCancelled) || errors.Is(err, errTooManyAttempts) {
			return nil
		}
		return err
	}
	ok, err := ui.confirm("Really delete? This cannot be undone")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(ui.out, "Cancelled.")
		return nil
	}
	if err := ui.svc.DeleteUser(ctx, id); err != nil {
		ui.fail(err)
		return nil
	}
	fmt.Fprintln(ui.out, "User deleted.")
	return nil
}

func (ui *UI) editRemarkFlow(ctx context.Context) error {
	id, err := ui.promptID("User id (0 to cancel): ")
	if err != nil {
		if errors.Is(err, errCancelled) || errors.Is(err, errTooManyAttempts) {
			return nil
		}
		return err
	}
	remark, err := ui.promptLine("New remark: ")
	if err != nil {
		return err
	}
	if err := ui.svc.UpdateRemark(ctx, id, remark); err != nil {
		ui.fail(err)
		return nil
	}
	fmt.Fprintln(ui.out, "Remark updated.")
	return nil
}

// ---------- rendering ----------

func (ui *UI) printUsers(users []domain.User) {
	if len(users) == 0 {
		fmt.Fprintln(ui.out, "No users.")
		return
	}
	w := tabwriter.NewWriter(ui.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tTYPE\tSTATUS\tCREATED\tLAST LOGIN\tREMARK")
	for _, u := range users {
		lastLogin := "-"
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, u.Role, u.Status,
			u.CreatedAt.Format("2006-01-02 15:04"), lastLogin, u.Remark)
	}
	_ = w.Flush()
}

package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/eduadmin/internal/client/access"
)

// getSimpleText, getPassword and confirm are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var confirm = Confirm

// Login prompts for the phone number and password and signs in.
//
// On success the branch list is loaded, a greeting is shown and the
// dashboard opens. The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	if id := a.identity(); id != nil {
		a.notifier.Info("Already signed in as " + id.FullName + ".")
		return nil
	}

	phone, err := getSimpleText(a.reader, "Phone number", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer wipe(password)

	id, err := a.session.Login(ctx, phone, string(password))
	if err != nil {
		return err
	}

	a.notifier.Success("Welcome, " + id.FullName + "!")
	a.afterLogin(ctx)
	return a.Navigate(ctx, access.PathHome)
}

// afterLogin loads what a signed-in session needs. A failed branch fetch is
// reported and the console stays usable.
func (a *App) afterLogin(ctx context.Context) {
	a.prefs.ResetBranches()
	if err := a.prefs.LoadBranches(ctx); err != nil {
		a.report(ctx, fmt.Errorf("load branches: %w", err))
	}
}

// Logout forgets the session and any unsaved drafts and returns to the
// login screen.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.prefs.ResetBranches()
	a.closeScreen()
	a.drafts = map[string]any{}
	a.notifier.Info("Signed out.")
	return a.Navigate(ctx, access.PathHome)
}

func (a *App) Whoami(ctx context.Context) error {
	id := a.identity()
	if id == nil {
		return a.Navigate(ctx, access.PathLogin)
	}

	fmt.Fprintf(a.out, "Name:   %s\n", id.FullName)
	fmt.Fprintf(a.out, "Phone:  %s\n", id.PhoneNumber)
	fmt.Fprintf(a.out, "Roles:  %s\n", id.Roles)
	if id.ProfilePhoto != "" {
		fmt.Fprintf(a.out, "Photo:  %s\n", id.ProfilePhoto)
	}
	fmt.Fprintf(a.out, "Branch: %s\n", a.branchName())
	if a.session.Expired() {
		fmt.Fprintln(a.out, "Token:  expired, renews on the next request")
	}
	return nil
}

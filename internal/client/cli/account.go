package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/eduadmin/internal/client/access"
	"github.com/dmitrijs2005/eduadmin/internal/client/forms"
)

func (a *App) showProfile(ctx context.Context) error {
	fmt.Fprintln(a.out, "== Profile ==")
	if err := a.Whoami(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Use 'profile' to edit your name and photo, 'password' to change your password.")
	return nil
}

// Profile edits the signed-in user's name and photo.
func (a *App) Profile(ctx context.Context) error {
	id := a.identity()
	if id == nil {
		return a.Navigate(ctx, access.PathLogin)
	}

	form := forms.ProfileForm{FullName: id.FullName}
	if err := forms.Fill(&form, a.ask); err != nil {
		return err
	}
	uploads, err := a.askUpload("profile_photo", "Profile photo file (empty to keep)")
	if err != nil {
		return err
	}
	var photo string
	if len(uploads) > 0 {
		photo = uploads[0].Path
	}

	if err := a.services.Account.UpdateProfile(ctx, form, photo); err != nil {
		return err
	}
	a.notifier.Success("Profile saved.")
	return nil
}

// Password changes the signed-in user's password. Secrets are read without
// echo and wiped afterwards.
func (a *App) Password(ctx context.Context) error {
	prompts := []string{"Current password", "New password", "Repeat new password"}
	secrets := make([][]byte, 0, len(prompts))
	defer func() {
		for _, s := range secrets {
			wipe(s)
		}
	}()
	for _, p := range prompts {
		s, err := getPassword(a.out, p)
		if err != nil {
			return err
		}
		secrets = append(secrets, s)
	}

	form := forms.PasswordForm{
		OldPassword:     string(secrets[0]),
		NewPassword:     string(secrets[1]),
		ConfirmPassword: string(secrets[2]),
	}
	if err := a.services.Account.ChangePassword(ctx, form); err != nil {
		return err
	}
	a.notifier.Success("Password changed.")
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/castkeeper/internal/client/route"
	"github.com/dmitrijs2005/castkeeper/internal/client/services"
	"github.com/dmitrijs2005/castkeeper/internal/client/session"
	"github.com/dmitrijs2005/castkeeper/internal/common"
)

// WhoAmI opens the profile screen and prints the account details.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.open(route.Profile) {
		return errNotOnScreen
	}
	a.printProfile()
	return nil
}

func (a *App) printProfile() {
	u := a.store.User()
	if u == nil {
		return
	}

	image := "(none)"
	if u.HasImage() {
		image = *u.ProfileImage
	}
	fmt.Fprintf(a.out, "Full name:     %s\n", u.FullName)
	fmt.Fprintf(a.out, "Email:         %s\n", u.Email)
	fmt.Fprintf(a.out, "Profile image: %s\n", image)
	if exp, ok := session.TokenExpiry(a.store.Token()); ok {
		fmt.Fprintf(a.out, "Session until: %s\n", exp.Local().Format(time.DateTime))
	}
}

// Name changes the display name.
func (a *App) Name(ctx context.Context) error {
	if !a.open(route.Profile) {
		return errNotOnScreen
	}

	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	return a.finish(a.profile.UpdateName(ctx, name))
}

// Password changes the account password.
func (a *App) Password(ctx context.Context) error {
	if !a.open(route.Profile) {
		return errNotOnScreen
	}

	current, err := getPassword(a.reader, "Enter current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)
	next, err := getPassword(a.reader, "Enter new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)
	confirm, err := getPassword(a.reader, "Confirm new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	return a.finish(a.profile.ChangePassword(ctx, string(current), string(next), string(confirm)))
}

// Avatar uploads the image at path as the profile picture.
func (a *App) Avatar(ctx context.Context, path string) error {
	if !a.open(route.Profile) {
		return errNotOnScreen
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return err
	}
	defer f.Close()

	return a.finish(a.profile.UploadImage(ctx, filepath.Base(path), f))
}

// AvatarRemove clears the profile picture.
func (a *App) AvatarRemove(ctx context.Context) error {
	if !a.open(route.Profile) {
		return errNotOnScreen
	}
	return a.finish(a.profile.RemoveImage(ctx))
}

// Logout drops the session here and in the persisted copy.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "You are not signed in")
		return nil
	}
	a.apply(a.profile.Logout(ctx))
	return nil
}

// Goto moves to an arbitrary path; the guard decides what is shown.
func (a *App) Goto(ctx context.Context, path string) error {
	a.navigate(normalizePath(path))
	a.render()
	return nil
}

func (a *App) finish(out services.Outcome, err error) error {
	if err != nil {
		a.report(err)
		return err
	}
	a.apply(out)
	return nil
}

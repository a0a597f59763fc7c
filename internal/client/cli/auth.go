package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/castkeeper/internal/client/route"
	"github.com/dmitrijs2005/castkeeper/internal/client/services"
	"github.com/dmitrijs2005/castkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotOnScreen = errors.New("screen not available")

// Login prompts for credentials on the login screen. When the backend
// reports the email as unverified it offers to send a verification code.
func (a *App) Login(ctx context.Context) error {
	if !a.open(route.Login) {
		return errNotOnScreen
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	out, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, services.ErrEmailNotVerified) {
			return a.offerVerification(ctx, email, err)
		}
		a.report(err)
		return err
	}

	a.apply(out)
	return nil
}

func (a *App) offerVerification(ctx context.Context, email string, cause error) error {
	fmt.Fprintln(a.out, cause.Error())
	ok, err := GetConfirmation(a.reader, fmt.Sprintf("Your email is not verified. Send a code to %s?", email), a.out)
	if err != nil || !ok {
		return cause
	}

	return a.finish(a.auth.SendVerification(ctx, email))
}

// Register creates an account and moves to the verification screen.
func (a *App) Register(ctx context.Context) error {
	if !a.open(route.Register) {
		return errNotOnScreen
	}

	fullName, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	return a.finish(a.auth.Register(ctx, fullName, email, string(password), string(confirm)))
}

// Forgot requests a reset code and moves to the reset screen.
func (a *App) Forgot(ctx context.Context) error {
	if !a.open(route.ForgotPassword) {
		return errNotOnScreen
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	return a.finish(a.auth.ForgotPassword(ctx, email))
}

// Verify reads the emailed code on the verification screen.
func (a *App) Verify(ctx context.Context) error {
	email, err := a.enterCodeScreen(route.VerifyEmail)
	if err != nil {
		return err
	}
	if err := a.readCode(); err != nil {
		return err
	}

	return a.finish(a.auth.VerifyEmail(ctx, email, a.widget.Code()))
}

// Reset reads the emailed code and a new password on the reset screen.
func (a *App) Reset(ctx context.Context) error {
	email, err := a.enterCodeScreen(route.ResetPassword)
	if err != nil {
		return err
	}
	if err := a.readCode(); err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(a.reader, "Confirm new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	return a.finish(a.auth.ResetPassword(ctx, email, a.widget.Code(), string(password), string(confirm)))
}

// Resend asks for a fresh code on whichever code screen is open.
func (a *App) Resend(ctx context.Context) error {
	var (
		out services.Outcome
		err error
	)

	email := route.EmailFrom(a.path)
	switch a.screen() {
	case route.VerifyEmail:
		out, err = a.auth.ResendVerification(ctx, a.widget, email)
	case route.ResetPassword:
		out, err = a.auth.ResendReset(ctx, a.widget, email)
	default:
		fmt.Fprintln(a.out, "Nothing to resend on this screen")
		return errNotOnScreen
	}
	if err != nil {
		a.report(err)
		return err
	}

	a.apply(out)
	a.printCooldown()
	return nil
}

// enterCodeScreen makes sure screen is open with an email in its query,
// asking for the email when the user came without one.
func (a *App) enterCodeScreen(screen string) (string, error) {
	if a.screen() != screen && !a.open(screen) {
		return "", errNotOnScreen
	}

	email := route.EmailFrom(a.path)
	if email != "" {
		return email, nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", err
	}
	a.navigate(route.WithEmail(screen, email))
	return email, nil
}

// readCode pastes the typed code into the widget. Input with anything but
// digits is refused and leaves the widget as it was.
func (a *App) readCode() error {
	text, err := getSimpleText(a.reader, "Enter the 6-digit code", a.out)
	if err != nil {
		return err
	}
	if !a.widget.OnPaste(text) {
		err := &services.ValidationError{Field: "code", Tag: "numeric", Message: "The code may contain digits only"}
		a.report(err)
		return err
	}
	return nil
}

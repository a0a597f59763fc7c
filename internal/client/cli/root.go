package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/castkeeper/internal/client/otp"
	"github.com/dmitrijs2005/castkeeper/internal/client/route"
	"github.com/dmitrijs2005/castkeeper/internal/client/services"
)

// maxRedirects bounds guard re-evaluation after a redirect. The decision
// table never chains more than one.
const maxRedirects = 3

// getStatus renders the prompt: current location plus the signed-in email.
func (a *App) getStatus() string {
	s := a.path
	if u := a.store.User(); u != nil {
		s = s + " " + u.Email
	}
	return s
}

// navigate moves to path through the guard. A redirect replaces a.path and
// the new location is evaluated in turn.
func (a *App) navigate(path string) {
	a.path = path
	for i := 0; i < maxRedirects; i++ {
		state, _ := a.guard.Evaluate(a.path, a.store.IsAuthenticated())
		if state == route.Ready {
			break
		}
	}
	a.log.Debug(context.Background(), "navigated", "requested", path, "path", a.path)
	a.syncWidget()
}

// open navigates to screen and reports whether the guard let the user stay
// on it.
func (a *App) open(screen string) bool {
	a.navigate(screen)
	if route.StripQuery(a.path) != route.StripQuery(screen) {
		a.render()
		return false
	}
	return true
}

func (a *App) screen() string {
	return route.StripQuery(a.path)
}

func isCodeScreen(screen string) bool {
	return screen == route.VerifyEmail || screen == route.ResetPassword
}

// syncWidget keeps one OTP widget mounted while a code screen is shown.
// Each visit starts a fresh cooldown.
func (a *App) syncWidget() {
	if a.widget != nil && a.widgetPath == a.path {
		return
	}
	a.unmountWidget()
	if !isCodeScreen(a.screen()) {
		return
	}
	a.widget = otp.NewWidget(a.widgetOpts...)
	a.widgetPath = a.path
	a.widget.Mount(a.widgetCtx)
}

func (a *App) unmountWidget() {
	if a.widget != nil {
		a.widget.Unmount()
	}
	a.widget, a.widgetPath = nil, ""
}

// apply shows an outcome's notice and follows its navigation.
func (a *App) apply(out services.Outcome) {
	if out.Notice != "" {
		fmt.Fprintln(a.out, out.Notice)
	}
	if out.Navigate != "" {
		a.navigate(out.Navigate)
		a.render()
	}
}

// report prints err the way the screen would show it.
func (a *App) report(err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintln(a.out, verr.Message)
	case errors.Is(err, services.ErrBusy):
		fmt.Fprintln(a.out, "Please wait for the previous request to finish")
	case errors.Is(err, otp.ErrCooldownActive):
		fmt.Fprintf(a.out, "You can resend the code in %s\n", a.widget.CooldownLabel())
	default:
		fmt.Fprintln(a.out, "Error:", err.Error())
	}
}

// render prints the current screen. Nothing is shown unless the guard is
// Ready for it.
func (a *App) render() {
	if !a.guard.CanRender() {
		return
	}

	switch a.screen() {
	case route.Home:
		fmt.Fprintln(a.out, "castkeeper: record, share and transcribe your screen.")
		fmt.Fprintln(a.out, "Type 'login' to sign in or 'register' to create an account.")
	case route.Dashboard:
		u := a.store.User()
		fmt.Fprintf(a.out, "Dashboard. Welcome back, %s!\n", u.FullName)
	case route.Profile:
		a.printProfile()
	case route.Login:
		fmt.Fprintln(a.out, "Sign in: type 'login'. Forgot your password? Type 'forgot'.")
	case route.Register:
		fmt.Fprintln(a.out, "Create an account: type 'register'.")
	case route.ForgotPassword:
		fmt.Fprintln(a.out, "Reset your password: type 'forgot'.")
	case route.VerifyEmail:
		fmt.Fprintf(a.out, "Enter the 6-digit code sent to %s: type 'verify'.\n", a.screenEmail())
		a.printCooldown()
	case route.ResetPassword:
		fmt.Fprintf(a.out, "Enter the code sent to %s and a new password: type 'reset'.\n", a.screenEmail())
		a.printCooldown()
	default:
		fmt.Fprintf(a.out, "%s: nothing to show here yet.\n", a.screen())
	}
}

func (a *App) printCooldown() {
	if a.widget == nil {
		return
	}
	if a.widget.CanResend() {
		fmt.Fprintln(a.out, "Didn't get it? Type 'resend'.")
		return
	}
	fmt.Fprintf(a.out, "Resend available in %s\n", a.widget.CooldownLabel())
}

func (a *App) screenEmail() string {
	if email := route.EmailFrom(a.path); email != "" {
		return email
	}
	return "your email"
}

// normalizePath accepts "dashboard" as well as "/dashboard".
func normalizePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

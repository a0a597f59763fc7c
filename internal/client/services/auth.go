package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/castkeeper/internal/client/client"
	"github.com/dmitrijs2005/castkeeper/internal/client/otp"
	"github.com/dmitrijs2005/castkeeper/internal/client/route"
	"github.com/dmitrijs2005/castkeeper/internal/client/validation"
	"github.com/dmitrijs2005/castkeeper/internal/logging"
)

// AuthService runs the signed-out screens: login, registration, email
// verification and password recovery.
//
// Every method returns either an Outcome or an error whose Error() is the
// message to show: *ValidationError when nothing was sent, *Failure when the
// backend refused, ErrBusy while a previous call is pending. A login refused
// because the email is unverified matches ErrEmailNotVerified.
type AuthService interface {
	Login(ctx context.Context, email, password string) (Outcome, error)
	SendVerification(ctx context.Context, email string) (Outcome, error)
	Register(ctx context.Context, fullName, email, password, confirm string) (Outcome, error)
	ForgotPassword(ctx context.Context, email string) (Outcome, error)
	ResetPassword(ctx context.Context, email, code, password, confirm string) (Outcome, error)
	VerifyEmail(ctx context.Context, email, code string) (Outcome, error)

	// ResendVerification and ResendReset send a fresh code through w once
	// its cooldown is over. They hit different endpoints: verification codes
	// come from resend-otp, reset codes from forgot-password.
	ResendVerification(ctx context.Context, w *otp.Widget, email string) (Outcome, error)
	ResendReset(ctx context.Context, w *otp.Widget, email string) (Outcome, error)

	Busy() bool
}

// errIncompleteLogin is a 2xx login reply that lacks the token or the user.
var errIncompleteLogin = errors.New("login reply without token or user")

type authService struct {
	client  client.Client
	session SessionStore
	log     logging.Logger
	loading Loading
}

func NewAuthService(c client.Client, s SessionStore, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, session: s, log: log.With("component", "auth")}
}

func (a *authService) Busy() bool {
	return a.loading.Active()
}

type loginForm struct {
	Email    string `label:"email" validate:"required"`
	Password string `label:"password" validate:"required"`
}

// Login signs in and stores the returned token and profile together. A 403
// from the backend means the email is unverified; the session is left as it
// was. So is a reply missing either the token or the user.
func (a *authService) Login(ctx context.Context, email, password string) (Outcome, error) {
	var out Outcome
	err := a.loading.Run(func() error {
		form := loginForm{Email: strings.TrimSpace(email), Password: password}
		if err := checkForm(form, nil); err != nil {
			return err
		}

		res, err := a.client.Login(ctx, form.Email, form.Password)
		if err != nil {
			f := fail(err, client.DefaultErrorMessage)
			if client.StatusCode(err) == http.StatusForbidden {
				f.Err = fmt.Errorf("%w: %w", ErrEmailNotVerified, err)
			}
			return f
		}
		if res.Token == "" || res.User.ID == "" {
			a.log.Warn(ctx, "login reply incomplete", "has_token", res.Token != "", "has_user", res.User.ID != "")
			return &Failure{Message: client.DefaultErrorMessage, Err: errIncompleteLogin}
		}

		a.session.SignIn(ctx, res.Token, res.User)
		a.log.Info(ctx, "signed in", "user_id", res.User.ID)
		out = Outcome{Navigate: route.Dashboard, Notice: noticeOr(res.Message, "Login successful")}
		return nil
	})
	return out, err
}

// SendVerification asks for a new verification code from the
// email-not-verified prompt and moves to the code entry screen.
func (a *authService) SendVerification(ctx context.Context, email string) (Outcome, error) {
	var out Outcome
	err := a.loading.Run(func() error {
		email = strings.TrimSpace(email)
		if err := checkForm(forgotForm{Email: email}, nil); err != nil {
			return err
		}
		if _, err := a.client.ResendOTP(ctx, email); err != nil {
			return fail(err, "Failed to send verification email")
		}
		out = Outcome{Navigate: route.WithEmail(route.VerifyEmail, email), Notice: "Verification email sent!"}
		return nil
	})
	return out, err
}

// Confirm is declared before Password so a mismatch is reported ahead of
// the length rule.
type registerForm struct {
	FullName string `label:"full name" validate:"required"`
	Email    string `label:"email" validate:"required"`
	Confirm  string `validate:"eqfield=Password"`
	Password string `label:"password" validate:"signuppwd"`
}

var registerMessages = validation.Messages{
	"Confirm":  "Passwords do not match",
	"Password": "Password must be at least 6 characters",
}

func (a *authService) Register(ctx context.Context, fullName, email, password, confirm string) (Outcome, error) {
	var out Outcome
	err := a.loading.Run(func() error {
		form := registerForm{
			FullName: strings.TrimSpace(fullName),
			Email:    strings.TrimSpace(email),
			Password: password,
			Confirm:  confirm,
		}
		if err := checkForm(form, registerMessages); err != nil {
			return err
		}

		res, err := a.client.Register(ctx, form.FullName, form.Email, form.Password)
		if err != nil {
			return fail(err, client.DefaultErrorMessage)
		}
		a.log.Info(ctx, "registered", "status", res.StatusCode)
		out = Outcome{
			Navigate: route.WithEmail(route.VerifyEmail, form.Email),
			Notice:   noticeOr(res.Message, "Registration successful. Please verify your email."),
		}
		return nil
	})
	return out, err
}

type forgotForm struct {
	Email string `label:"email" validate:"required"`
}

var forgotMessages = validation.Messages{"Email": "Please enter your email address"}

func (a *authService) ForgotPassword(ctx context.Context, email string) (Outcome, error) {
	var out Outcome
	err := a.loading.Run(func() error {
		form := forgotForm{Email: strings.TrimSpace(email)}
		if err := checkForm(form, forgotMessages); err != nil {
			return err
		}

		res, err := a.client.ForgotPassword(ctx, form.Email)
		if err != nil {
			return fail(err, "Failed to send reset email")
		}
		out = Outcome{
			Navigate: route.WithEmail(route.ResetPassword, form.Email),
			Notice:   noticeOr(res.Message, "Reset OTP sent to your email!"),
		}
		return nil
	})
	return out, err
}

type resetForm struct {
	Email    string `label:"email" validate:"required"`
	Code     string `validate:"otp"`
	Password string `validate:"required,pwd"`
	Confirm  string `validate:"eqfield=Password"`
}

var resetMessages = validation.Messages{
	"Email":             "Email address is missing, start again from forgot password",
	"Code":              "Please enter the complete 6-digit OTP",
	"Password.required": "Please enter a new password",
	"Password.pwd":      "Password must be at least 8 characters long",
	"Confirm":           "Passwords do not match",
}

func (a *authService) ResetPassword(ctx context.Context, email, code, password, confirm string) (Outcome, error) {
	var out Outcome
	err := a.loading.Run(func() error {
		form := resetForm{Email: strings.TrimSpace(email), Code: code, Password: password, Confirm: confirm}
		if err := checkForm(form, resetMessages); err != nil {
			return err
		}

		res, err := a.client.ResetPassword(ctx, form.Email, form.Code, form.Password)
		if err != nil {
			return fail(err, "Password reset failed")
		}
		out = Outcome{Navigate: route.Login, Notice: noticeOr(res.Message, "Password reset successful!")}
		return nil
	})
	return out, err
}

type verifyForm struct {
	Email string `label:"email" validate:"required"`
	Code  string `validate:"otp"`
}

var verifyMessages = validation.Messages{
	"Email": "Email address is missing, register or log in again",
	"Code":  "Please enter the complete 6-digit OTP",
}

func (a *authService) VerifyEmail(ctx context.Context, email, code string) (Outcome, error) {
	var out Outcome
	err := a.loading.Run(func() error {
		form := verifyForm{Email: strings.TrimSpace(email), Code: code}
		if err := checkForm(form, verifyMessages); err != nil {
			return err
		}

		res, err := a.client.VerifyEmail(ctx, form.Email, form.Code)
		if err != nil {
			return fail(err, "Verification failed")
		}
		out = Outcome{Navigate: route.Login, Notice: noticeOr(res.Message, "Email verified successfully!")}
		return nil
	})
	return out, err
}

func (a *authService) ResendVerification(ctx context.Context, w *otp.Widget, email string) (Outcome, error) {
	return a.resend(ctx, w, email, a.client.ResendOTP)
}

func (a *authService) ResendReset(ctx context.Context, w *otp.Widget, email string) (Outcome, error) {
	return a.resend(ctx, w, email, a.client.ForgotPassword)
}

// resend is gated by the widget itself: it refuses while the cooldown runs
// or another resend is pending, so it does not take the loading flag and a
// code can be re-sent while a submit is still waiting.
func (a *authService) resend(ctx context.Context, w *otp.Widget, email string, send func(context.Context, string) (*client.Response, error)) (Outcome, error) {
	var out Outcome
	err := w.Resend(ctx, func(ctx context.Context) error {
		res, err := send(ctx, strings.TrimSpace(email))
		if err != nil {
			return fail(err, "Failed to resend OTP")
		}
		out.Notice = noticeOr(res.Message, "OTP resent successfully!")
		return nil
	})
	return out, err
}

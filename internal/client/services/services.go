// Package services contains the controllers behind the castkeeper screens.
// Each one validates its form locally, calls the backend through
// client.Client, updates the session on success and reports where to go
// next.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/castkeeper/internal/client/client"
	"github.com/dmitrijs2005/castkeeper/internal/client/models"
	"github.com/dmitrijs2005/castkeeper/internal/client/validation"
)

var (
	// ErrEmailNotVerified is the login signal that the account exists but its
	// email still needs a code. The caller should offer SendVerification.
	ErrEmailNotVerified = errors.New("email not verified")
	// ErrBusy rejects a call made while the same controller is still waiting
	// on the backend.
	ErrBusy = errors.New("another request is in progress")
	// ErrNoProfileImage rejects removing an image that is not set.
	ErrNoProfileImage = errors.New("no profile image to remove")
)

// ValidationError is a local check that failed before any request was sent.
type ValidationError = validation.Error

// Failure is a backend call that did not succeed, carrying the text to show.
// It unwraps to the underlying *client.APIError.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(err error, fallback string) *Failure {
	return &Failure{Message: client.MessageOf(err, fallback), Err: err}
}

// Outcome is what a screen does after a successful action: show Notice and,
// when Navigate is set, replace the current location with it.
type Outcome struct {
	Navigate string
	Notice   string
}

func noticeOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

// SessionStore is the part of the session store the controllers write to.
type SessionStore interface {
	SignIn(ctx context.Context, token string, u models.User)
	SetUser(ctx context.Context, u models.User)
	User() *models.User
	Clear(ctx context.Context)
}

// Loading admits one call at a time. The flag is dropped when the call
// returns, fails or panics.
type Loading struct {
	busy atomic.Bool
}

// Run calls fn unless another call is still running, in which case it
// returns ErrBusy.
func (l *Loading) Run(fn func() error) error {
	if !l.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer l.busy.Store(false)
	return fn()
}

// Active reports whether a call is in flight.
func (l *Loading) Active() bool {
	return l.busy.Load()
}

func checkForm(form any, msgs validation.Messages) error {
	if err := validation.Check(form, msgs); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return verr
		}
		return fmt.Errorf("check form: %w", err)
	}
	return nil
}

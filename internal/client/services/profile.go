package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/castkeeper/internal/client/client"
	"github.com/dmitrijs2005/castkeeper/internal/client/route"
	"github.com/dmitrijs2005/castkeeper/internal/client/validation"
	"github.com/dmitrijs2005/castkeeper/internal/logging"
)

// MaxImageSize is the largest profile image accepted for upload.
const MaxImageSize = 5 << 20

// ProfileService runs the settings screen for the signed-in account.
// Successful calls replace the stored profile with the backend's copy.
type ProfileService interface {
	UpdateName(ctx context.Context, fullName string) (Outcome, error)
	ChangePassword(ctx context.Context, current, next, confirm string) (Outcome, error)
	UploadImage(ctx context.Context, filename string, image io.Reader) (Outcome, error)
	RemoveImage(ctx context.Context) (Outcome, error)
	Logout(ctx context.Context) Outcome
}

type profileService struct {
	client  client.Client
	session SessionStore
	log     logging.Logger

	name     Loading
	password Loading
	image    Loading
}

func NewProfileService(c client.Client, s SessionStore, log logging.Logger) ProfileService {
	if log == nil {
		log = logging.Nop()
	}
	return &profileService{client: c, session: s, log: log.With("component", "profile")}
}

type nameForm struct {
	FullName string `validate:"required"`
}

var nameMessages = validation.Messages{"FullName": "Full name cannot be empty"}

func (p *profileService) UpdateName(ctx context.Context, fullName string) (Outcome, error) {
	var out Outcome
	err := p.name.Run(func() error {
		form := nameForm{FullName: strings.TrimSpace(fullName)}
		if err := checkForm(form, nameMessages); err != nil {
			return err
		}

		res, err := p.client.UpdateProfile(ctx, form.FullName)
		if err != nil {
			return fail(err, "Failed to update profile")
		}
		p.session.SetUser(ctx, res.User)
		out.Notice = noticeOr(res.Message, "Profile updated successfully")
		return nil
	})
	return out, err
}

type passwordForm struct {
	Current string `validate:"required"`
	Next    string `validate:"required,pwd"`
	Confirm string `validate:"eqfield=Next"`
}

var passwordMessages = validation.Messages{
	"Current":       "Please enter your current password",
	"Next.required": "Please enter a new password",
	"Next.pwd":      "Password must be at least 8 characters long",
	"Confirm":       "Passwords do not match",
}

func (p *profileService) ChangePassword(ctx context.Context, current, next, confirm string) (Outcome, error) {
	var out Outcome
	err := p.password.Run(func() error {
		form := passwordForm{Current: current, Next: next, Confirm: confirm}
		if err := checkForm(form, passwordMessages); err != nil {
			return err
		}

		res, err := p.client.ChangePassword(ctx, form.Current, form.Next)
		if err != nil {
			return fail(err, "Failed to change password")
		}
		out.Notice = noticeOr(res.Message, "Password changed successfully")
		return nil
	})
	return out, err
}

// UploadImage reads image fully before sending so the size limit is checked
// without a request.
func (p *profileService) UploadImage(ctx context.Context, filename string, image io.Reader) (Outcome, error) {
	var out Outcome
	err := p.image.Run(func() error {
		data, err := io.ReadAll(io.LimitReader(image, MaxImageSize+1))
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		if len(data) > MaxImageSize {
			return &ValidationError{
				Field:   "Image",
				Tag:     "max",
				Message: fmt.Sprintf("Image must be smaller than %dMB", MaxImageSize>>20),
			}
		}

		res, err := p.client.UploadProfileImage(ctx, filename, bytes.NewReader(data))
		if err != nil {
			return fail(err, "Failed to upload image")
		}
		p.session.SetUser(ctx, res.User)
		p.log.Debug(ctx, "profile image uploaded", "bytes", len(data))
		out.Notice = "Profile image updated"
		return nil
	})
	return out, err
}

// RemoveImage deletes the profile image and clears it from the stored
// profile. It fails with ErrNoProfileImage when none is set.
func (p *profileService) RemoveImage(ctx context.Context) (Outcome, error) {
	var out Outcome
	err := p.image.Run(func() error {
		u := p.session.User()
		if !u.HasImage() {
			return ErrNoProfileImage
		}

		if _, err := p.client.DeleteProfileImage(ctx); err != nil {
			return fail(err, "Failed to remove image")
		}
		u.ProfileImage = nil
		p.session.SetUser(ctx, *u)
		out.Notice = "Profile image removed"
		return nil
	})
	return out, err
}

// Logout drops the session, purging its persisted copy, and goes to login.
func (p *profileService) Logout(ctx context.Context) Outcome {
	p.session.Clear(ctx)
	p.log.Info(ctx, "signed out")
	return Outcome{Navigate: route.Login, Notice: "Logged out"}
}

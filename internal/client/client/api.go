package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/castkeeper/internal/client/models"
)

// Backend paths.
const (
	PathLogin          = "/api/auth/login"
	PathRegister       = "/api/auth/register"
	PathForgotPassword = "/api/auth/forgot-password"
	PathResetPassword  = "/api/auth/reset-password"
	PathVerifyEmail    = "/api/auth/verify-email"
	PathResendOTP      = "/api/auth/resend-otp"
	PathMe             = "/api/user/me"
	PathMePassword     = "/api/user/me/password"
	PathMeImage        = "/api/user/me/profile-image"
)

// ProfileImageField is the multipart form field carrying the image file.
const ProfileImageField = "profileImage"

// TokenSource supplies the bearer token for outgoing requests; "" means
// none. The session store satisfies it.
type TokenSource interface {
	Token() string
}

// Response is the part of a successful reply every screen reads.
type Response struct {
	StatusCode int
	Message    string
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	Response `json:"-"`
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// ProfileResult is the body of a successful profile mutation.
type ProfileResult struct {
	Response `json:"-"`
	User models.User `json:"user"`
}

// Client is the backend contract used by the auth and profile services.
type Client interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, fullName, email, password string) (*Response, error)
	ForgotPassword(ctx context.Context, email string) (*Response, error)
	ResetPassword(ctx context.Context, email, otp, newPassword string) (*Response, error)
	VerifyEmail(ctx context.Context, email, otp string) (*Response, error)
	ResendOTP(ctx context.Context, email string) (*Response, error)

	UpdateProfile(ctx context.Context, fullName string) (*ProfileResult, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) (*Response, error)
	UploadProfileImage(ctx context.Context, filename string, image io.Reader) (*ProfileResult, error)
	DeleteProfileImage(ctx context.Context) (*Response, error)
}

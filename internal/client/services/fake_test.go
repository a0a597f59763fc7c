package services

import (
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/castkeeper/internal/client/client"
	"github.com/dmitrijs2005/castkeeper/internal/client/models"
)

// fakeClient records calls and answers from the per-endpoint hooks. An unset
// hook answers with an empty success.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	login          func(email, password string) (*client.LoginResult, error)
	register       func(fullName, email, password string) (*client.Response, error)
	forgotPassword func(email string) (*client.Response, error)
	resetPassword  func(email, otp, newPassword string) (*client.Response, error)
	verifyEmail    func(email, otp string) (*client.Response, error)
	resendOTP      func(email string) (*client.Response, error)
	updateProfile  func(fullName string) (*client.ProfileResult, error)
	changePassword func(current, next string) (*client.Response, error)
	uploadImage    func(filename string, data []byte) (*client.ProfileResult, error)
	deleteImage    func() (*client.Response, error)
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func ok() *client.Response { return &client.Response{StatusCode: 200} }

func (f *fakeClient) Login(_ context.Context, email, password string) (*client.LoginResult, error) {
	f.record("login")
	if f.login != nil {
		return f.login(email, password)
	}
	return &client.LoginResult{Response: *ok()}, nil
}

func (f *fakeClient) Register(_ context.Context, fullName, email, password string) (*client.Response, error) {
	f.record("register")
	if f.register != nil {
		return f.register(fullName, email, password)
	}
	return &client.Response{StatusCode: 201}, nil
}

func (f *fakeClient) ForgotPassword(_ context.Context, email string) (*client.Response, error) {
	f.record("forgot-password")
	if f.forgotPassword != nil {
		return f.forgotPassword(email)
	}
	return ok(), nil
}

func (f *fakeClient) ResetPassword(_ context.Context, email, otp, newPassword string) (*client.Response, error) {
	f.record("reset-password")
	if f.resetPassword != nil {
		return f.resetPassword(email, otp, newPassword)
	}
	return ok(), nil
}

func (f *fakeClient) VerifyEmail(_ context.Context, email, otp string) (*client.Response, error) {
	f.record("verify-email")
	if f.verifyEmail != nil {
		return f.verifyEmail(email, otp)
	}
	return ok(), nil
}

func (f *fakeClient) ResendOTP(_ context.Context, email string) (*client.Response, error) {
	f.record("resend-otp")
	if f.resendOTP != nil {
		return f.resendOTP(email)
	}
	return ok(), nil
}

func (f *fakeClient) UpdateProfile(_ context.Context, fullName string) (*client.ProfileResult, error) {
	f.record("update-profile")
	if f.updateProfile != nil {
		return f.updateProfile(fullName)
	}
	return &client.ProfileResult{Response: *ok()}, nil
}

func (f *fakeClient) ChangePassword(_ context.Context, current, next string) (*client.Response, error) {
	f.record("change-password")
	if f.changePassword != nil {
		return f.changePassword(current, next)
	}
	return ok(), nil
}

func (f *fakeClient) UploadProfileImage(_ context.Context, filename string, image io.Reader) (*client.ProfileResult, error) {
	f.record("upload-image")
	data, err := io.ReadAll(image)
	if err != nil {
		return nil, err
	}
	if f.uploadImage != nil {
		return f.uploadImage(filename, data)
	}
	return &client.ProfileResult{Response: *ok()}, nil
}

func (f *fakeClient) DeleteProfileImage(context.Context) (*client.Response, error) {
	f.record("delete-image")
	if f.deleteImage != nil {
		return f.deleteImage()
	}
	return ok(), nil
}

func apiErr(status int, msg string) *client.APIError {
	return &client.APIError{StatusCode: status, Message: msg, FromServer: msg != ""}
}

func strptr(s string) *string { return &s }

func testUser() models.User {
	return models.User{ID: "u1", FullName: "Ann Lee", Email: "ann@example.com"}
}

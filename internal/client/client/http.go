package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/castkeeper/internal/common"
	"github.com/dmitrijs2005/castkeeper/internal/logging"
	"github.com/google/uuid"
)

// maxErrorBody caps how much of a failed response is read looking for a
// message.
const maxErrorBody = 1 << 20

// envelope is the backend's reply wrapper: {"message": "...", "data": {...}}.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
	newID   func() string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a gateway for baseURL (e.g. "http://localhost:8080").
// tokens may be nil for unauthenticated use.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log.With("component", "gateway"),
		newID:   uuid.NewString,
	}
}

// Do sends a JSON request and decodes the envelope's data into out (when
// out is non-nil). body may be nil.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body, out any) (*Response, error) {
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, contentType, reader, out)
}

func (c *HTTPClient) send(ctx context.Context, method, path, contentType string, body io.Reader, out any) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}

	reqID := c.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeader, reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+tok)
		}
	}

	ctx = logging.ContextWithRequestID(ctx, reqID)
	log := c.log.With("method", method, "path", path)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return nil, newTransportError(err)
	}
	defer resp.Body.Close()

	log.Debug(ctx, "response", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, readMessage(resp.Body))
	}

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(err)
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode %s data: %w", path, err)
		}
	}

	return &Response{StatusCode: resp.StatusCode, Message: env.Message}, nil
}

// readMessage pulls "message" out of an error body; "" when absent or the
// body is not JSON.
func readMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	return strings.TrimSpace(env.Message)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	resp, err := c.Do(ctx, http.MethodPost, PathLogin, map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	out.Response = *resp
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, fullName, email, password string) (*Response, error) {
	return c.Do(ctx, http.MethodPost, PathRegister, map[string]string{
		"fullName": fullName,
		"email":    email,
		"password": password,
	}, nil)
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (*Response, error) {
	return c.Do(ctx, http.MethodPost, PathForgotPassword, map[string]string{"email": email}, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email, otp, newPassword string) (*Response, error) {
	return c.Do(ctx, http.MethodPost, PathResetPassword, map[string]string{
		"email":       email,
		"otp":         otp,
		"newPassword": newPassword,
	}, nil)
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, email, otp string) (*Response, error) {
	return c.Do(ctx, http.MethodPost, PathVerifyEmail, map[string]string{"email": email, "otp": otp}, nil)
}

func (c *HTTPClient) ResendOTP(ctx context.Context, email string) (*Response, error) {
	return c.Do(ctx, http.MethodPost, PathResendOTP, map[string]string{"email": email}, nil)
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, fullName string) (*ProfileResult, error) {
	var out ProfileResult
	resp, err := c.Do(ctx, http.MethodPatch, PathMe, map[string]string{"fullName": fullName}, &out)
	if err != nil {
		return nil, err
	}
	out.Response = *resp
	return &out, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, PathMePassword, map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}, nil)
}

// UploadProfileImage sends the image as multipart/form-data under
// ProfileImageField.
func (c *HTTPClient) UploadProfileImage(ctx context.Context, filename string, image io.Reader) (*ProfileResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(ProfileImageField, filename)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	var out ProfileResult
	resp, err := c.send(ctx, http.MethodPatch, PathMeImage, mw.FormDataContentType(), &buf, &out)
	if err != nil {
		return nil, err
	}
	out.Response = *resp
	return &out, nil
}

func (c *HTTPClient) DeleteProfileImage(ctx context.Context) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, PathMeImage, nil, nil)
}

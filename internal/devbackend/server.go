package devbackend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/castkeeper/internal/client/models"
	"github.com/dmitrijs2005/castkeeper/internal/common"
	"github.com/dmitrijs2005/castkeeper/internal/devbackend/auth"
	"github.com/dmitrijs2005/castkeeper/internal/devbackend/config"
	"github.com/dmitrijs2005/castkeeper/internal/logging"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

// UploadsPrefix is where uploaded profile images are served.
const UploadsPrefix = "/uploads/"

// MaxImageSize is the largest profile image accepted.
const MaxImageSize = 5 << 20

type ctxKey struct{}

// Server routes the backend API onto a Store.
type Server struct {
	store    *Store
	secret   []byte
	tokenTTL time.Duration
	log      logging.Logger
	router   *mux.Router
}

type Option func(*serverOptions)

type serverOptions struct {
	bcryptCost int
}

// WithBcryptCost lowers hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(o *serverOptions) { o.bcryptCost = cost }
}

func NewServer(cfg *config.Config, log logging.Logger, opts ...Option) *Server {
	o := serverOptions{bcryptCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logging.Nop()
	}

	s := &Server{
		store:    NewStore(cfg.OTPValidityDuration, o.bcryptCost),
		secret:   []byte(cfg.SecretKey),
		tokenTTL: cfg.TokenValidityDuration,
		log:      log.With("component", "devbackend"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLog)

	a := r.PathPrefix("/api/auth").Subrouter()
	a.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	a.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	a.HandleFunc("/forgot-password", s.handleForgotPassword).Methods(http.MethodPost)
	a.HandleFunc("/reset-password", s.handleResetPassword).Methods(http.MethodPost)
	a.HandleFunc("/verify-email", s.handleVerifyEmail).Methods(http.MethodPost)
	a.HandleFunc("/resend-otp", s.handleResendOTP).Methods(http.MethodPost)

	u := r.PathPrefix("/api/user").Subrouter()
	u.Use(s.authenticate)
	u.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	u.HandleFunc("/me", s.handleUpdateProfile).Methods(http.MethodPatch)
	u.HandleFunc("/me/password", s.handleChangePassword).Methods(http.MethodPatch)
	u.HandleFunc("/me/profile-image", s.handleUploadImage).Methods(http.MethodPatch)
	u.HandleFunc("/me/profile-image", s.handleDeleteImage).Methods(http.MethodDelete)

	r.HandleFunc(UploadsPrefix+"{key}", s.handleImage).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, "Route not found", nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// LastOTP returns the pending code for email, standing in for the inbox.
func (s *Server) LastOTP(p Purpose, email string) string {
	c, _ := s.store.PendingCode(p, email)
	return c
}

// Store exposes the account store, e.g. for seeding demo users.
func (s *Server) Store() *Store {
	return s.store
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		if id := r.Header.Get(common.RequestIDHeader); id != "" {
			r = r.WithContext(logging.ContextWithRequestID(r.Context(), id))
		}
		started := time.Now()
		next.ServeHTTP(rec, r)
		s.log.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(started),
		)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := common.BearerToken(r.Header.Get(common.AuthorizationHeader))
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		userID, err := auth.UserIDFromToken(token, s.secret)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "Token expired"
			}
			writeJSON(w, http.StatusUnauthorized, msg, nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
	})
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"message": message}
	if data != nil {
		body["data"] = data
	}
	_ = json.NewEncoder(w).Encode(body)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	return true
}

func missing(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

type userData struct {
	User models.User `json:"user"`
}

func (s *Server) sendCode(ctx context.Context, p Purpose, email string) error {
	c, err := s.store.IssueCode(p, email)
	if err != nil {
		return err
	}
	s.log.Info(ctx, "otp issued", "email", normalizeEmail(email), "purpose", string(p), "code", c)
	return nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	if missing(req.Email, req.Password) {
		writeJSON(w, http.StatusBadRequest, "Email and password are required", nil)
		return
	}

	user, verified, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}
	if !verified {
		writeJSON(w, http.StatusForbidden, "Please verify your email before logging in", nil)
		return
	}

	token, err := auth.GenerateToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		s.log.Error(r.Context(), "token generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	writeJSON(w, http.StatusOK, "Login successful", map[string]any{"token": token, "user": user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	if missing(req.FullName, req.Email, req.Password) {
		writeJSON(w, http.StatusBadRequest, "Full name, email and password are required", nil)
		return
	}

	user, err := s.store.Create(strings.TrimSpace(req.FullName), req.Email, req.Password)
	if errors.Is(err, ErrUserExists) {
		writeJSON(w, http.StatusConflict, "User already exists", nil)
		return
	}
	if err == nil {
		err = s.sendCode(r.Context(), PurposeVerify, user.Email)
	}
	if err != nil {
		s.log.Error(r.Context(), "register failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	writeJSON(w, http.StatusCreated, "Registration successful. Please verify your email.", nil)
}

type emailRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decode(w, r, &req) {
		return
	}
	if missing(req.Email) {
		writeJSON(w, http.StatusBadRequest, "Email is required", nil)
		return
	}

	switch err := s.sendCode(r.Context(), PurposeReset, req.Email); {
	case errors.Is(err, ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, "User not found", nil)
	case err != nil:
		s.log.Error(r.Context(), "forgot password failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, "Internal server error", nil)
	default:
		writeJSON(w, http.StatusOK, "Reset OTP sent to your email!", nil)
	}
}

func (s *Server) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decode(w, r, &req) {
		return
	}
	if missing(req.Email) {
		writeJSON(w, http.StatusBadRequest, "Email is required", nil)
		return
	}

	switch err := s.sendCode(r.Context(), PurposeVerify, req.Email); {
	case errors.Is(err, ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, ErrAlreadyVerified):
		writeJSON(w, http.StatusBadRequest, "Email is already verified", nil)
	case err != nil:
		s.log.Error(r.Context(), "resend otp failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, "Internal server error", nil)
	default:
		writeJSON(w, http.StatusOK, "OTP resent successfully!", nil)
	}
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"newPassword"`
	}
	if !decode(w, r, &req) {
		return
	}
	if missing(req.Email, req.OTP, req.NewPassword) {
		writeJSON(w, http.StatusBadRequest, "Email, OTP and new password are required", nil)
		return
	}

	switch err := s.store.ResetPassword(req.Email, req.OTP, req.NewPassword); {
	case errors.Is(err, ErrInvalidCode):
		writeJSON(w, http.StatusBadRequest, "Invalid or expired OTP", nil)
	case err != nil:
		s.log.Error(r.Context(), "reset password failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, "Internal server error", nil)
	default:
		writeJSON(w, http.StatusOK, "Password reset successful!", nil)
	}
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if !decode(w, r, &req) {
		return
	}
	if missing(req.Email, req.OTP) {
		writeJSON(w, http.StatusBadRequest, "Email and OTP are required", nil)
		return
	}

	if err := s.store.Verify(req.Email, req.OTP); err != nil {
		writeJSON(w, http.StatusBadRequest, "Invalid or expired OTP", nil)
		return
	}
	writeJSON(w, http.StatusOK, "Email verified successfully!", nil)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.User(userIDFrom(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusNotFound, "User not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, "OK", userData{User: user})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
	}
	if !decode(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, "Full name cannot be empty", nil)
		return
	}

	user, err := s.store.UpdateName(userIDFrom(r.Context()), name)
	if err != nil {
		writeJSON(w, http.StatusNotFound, "User not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, "Profile updated successfully", userData{User: user})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decode(w, r, &req) {
		return
	}
	if missing(req.CurrentPassword, req.NewPassword) {
		writeJSON(w, http.StatusBadRequest, "Current and new password are required", nil)
		return
	}

	switch err := s.store.ChangePassword(userIDFrom(r.Context()), req.CurrentPassword, req.NewPassword); {
	case errors.Is(err, ErrInvalidCredentials):
		writeJSON(w, http.StatusBadRequest, "Current password is incorrect", nil)
	case errors.Is(err, ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, "User not found", nil)
	case err != nil:
		s.log.Error(r.Context(), "change password failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, "Internal server error", nil)
	default:
		writeJSON(w, http.StatusOK, "Password changed successfully", nil)
	}
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Image must be smaller than %dMB", MaxImageSize>>20), nil)
			return
		}
		writeJSON(w, http.StatusBadRequest, "Invalid upload", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("profileImage")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "No image provided", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "Invalid upload", nil)
		return
	}
	if len(data) > MaxImageSize {
		writeJSON(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Image must be smaller than %dMB", MaxImageSize>>20), nil)
		return
	}

	user, err := s.store.SetImage(userIDFrom(r.Context()), header.Filename, data)
	if err != nil {
		writeJSON(w, http.StatusNotFound, "User not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, "Profile image updated", userData{User: user})
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	switch _, err := s.store.RemoveImage(userIDFrom(r.Context())); {
	case errors.Is(err, ErrNoImage):
		writeJSON(w, http.StatusBadRequest, "No profile image to remove", nil)
	case err != nil:
		writeJSON(w, http.StatusNotFound, "User not found", nil)
	default:
		writeJSON(w, http.StatusOK, "Profile image removed", nil)
	}
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	data, ok := s.store.Image(mux.Vars(r)["key"])
	if !ok {
		writeJSON(w, http.StatusNotFound, "Image not found", nil)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}

package devbackend

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/castkeeper/internal/client/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidCode        = errors.New("invalid or expired OTP")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrNoImage            = errors.New("no profile image")
)

// Purpose separates verification codes from password reset codes; a code
// issued for one is never accepted by the other.
type Purpose string

const (
	PurposeVerify Purpose = "verify"
	PurposeReset  Purpose = "reset"
)

type account struct {
	user         models.User
	passwordHash []byte
	verified     bool
	imageKey     string
}

type code struct {
	value   string
	expires time.Time
}

// Store keeps accounts, pending codes and uploaded images in memory.
type Store struct {
	mu      sync.Mutex
	byEmail map[string]*account
	byID    map[string]*account
	codes   map[Purpose]map[string]code
	images  map[string][]byte

	codeTTL time.Duration
	cost    int
	now     func() time.Time
}

func NewStore(codeTTL time.Duration, bcryptCost int) *Store {
	return &Store{
		byEmail: make(map[string]*account),
		byID:    make(map[string]*account),
		codes: map[Purpose]map[string]code{
			PurposeVerify: {},
			PurposeReset:  {},
		},
		images:  make(map[string][]byte),
		codeTTL: codeTTL,
		cost:    bcryptCost,
		now:     time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create adds an unverified account.
func (s *Store) Create(fullName, email, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(email)
	if _, ok := s.byEmail[key]; ok {
		return models.User{}, ErrUserExists
	}
	a := &account{
		user:         models.User{ID: uuid.NewString(), FullName: fullName, Email: key},
		passwordHash: hash,
	}
	s.byEmail[key] = a
	s.byID[a.user.ID] = a
	return a.user, nil
}

// Authenticate checks credentials and reports whether the email is verified.
func (s *Store) Authenticate(email, password string) (models.User, bool, error) {
	s.mu.Lock()
	a, ok := s.byEmail[normalizeEmail(email)]
	var hash []byte
	if ok {
		hash = a.passwordHash
	}
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return models.User{}, false, ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return *a.user.Clone(), a.verified, nil
}

// IssueCode creates a fresh code for email, replacing any pending one of the
// same purpose.
func (s *Store) IssueCode(p Purpose, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(email)
	a, ok := s.byEmail[key]
	if !ok {
		return "", ErrUserNotFound
	}
	if p == PurposeVerify && a.verified {
		return "", ErrAlreadyVerified
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	c := code{value: fmt.Sprintf("%06d", n.Int64()), expires: s.now().Add(s.codeTTL)}
	s.codes[p][key] = c
	return c.value, nil
}

// PendingCode returns the unexpired code for email, if any.
func (s *Store) PendingCode(p Purpose, email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[p][normalizeEmail(email)]
	if !ok || s.now().After(c.expires) {
		return "", false
	}
	return c.value, true
}

func (s *Store) consumeLocked(p Purpose, key, value string) error {
	c, ok := s.codes[p][key]
	if !ok || c.value != value || s.now().After(c.expires) {
		return ErrInvalidCode
	}
	delete(s.codes[p], key)
	return nil
}

// Verify consumes a verification code and marks the email verified.
func (s *Store) Verify(email, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(email)
	a, ok := s.byEmail[key]
	if !ok {
		return ErrInvalidCode
	}
	if err := s.consumeLocked(PurposeVerify, key, value); err != nil {
		return err
	}
	a.verified = true
	return nil
}

// ResetPassword consumes a reset code and replaces the password. A
// successful reset also proves ownership of the email.
func (s *Store) ResetPassword(email, value, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(email)
	a, ok := s.byEmail[key]
	if !ok {
		return ErrInvalidCode
	}
	if err := s.consumeLocked(PurposeReset, key, value); err != nil {
		return err
	}
	a.passwordHash = hash
	a.verified = true
	return nil
}

// User returns the account with the given id.
func (s *Store) User(id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return *a.user.Clone(), nil
}

func (s *Store) UpdateName(id, fullName string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	a.user.FullName = fullName
	return *a.user.Clone(), nil
}

// ChangePassword replaces the password when current matches.
func (s *Store) ChangePassword(id, current, next string) error {
	s.mu.Lock()
	a, ok := s.byID[id]
	var hash []byte
	if ok {
		hash = a.passwordHash
	}
	s.mu.Unlock()

	if !ok {
		return ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(current)) != nil {
		return ErrInvalidCredentials
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a.passwordHash = newHash
	return nil
}

// SetImage stores data as the profile image and returns the updated user,
// whose ProfileImage is the path the image is served from.
func (s *Store) SetImage(id, filename string, data []byte) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}

	if a.imageKey != "" {
		delete(s.images, a.imageKey)
	}
	a.imageKey = uuid.NewString() + strings.ToLower(path.Ext(filename))
	s.images[a.imageKey] = data

	url := UploadsPrefix + a.imageKey
	a.user.ProfileImage = &url
	return *a.user.Clone(), nil
}

func (s *Store) RemoveImage(id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	if a.imageKey == "" {
		return models.User{}, ErrNoImage
	}
	delete(s.images, a.imageKey)
	a.imageKey = ""
	a.user.ProfileImage = nil
	return *a.user.Clone(), nil
}

// Image returns an uploaded image by key.
func (s *Store) Image(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.images[key]
	return b, ok
}

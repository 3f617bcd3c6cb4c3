package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/culture-explorer/backend/pkg/logger"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already registered")
	// ErrInvalidCredentials is returned for both unknown usernames and
	// wrong passwords so login failures cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// User is one row of the identity table, keyed by username in the backing
// file. The password hash is bcrypt; plaintext is never stored.
type User struct {
	Username           string  `json:"-"`
	Email              string  `json:"email"`
	PasswordHash       string  `json:"password_hash"`
	Region             string  `json:"region"`
	FullName           string  `json:"full_name"`
	RegistrationDate   string  `json:"registration_date"`
	LastLogin          *string `json:"last_login"`
	ContributionsCount int     `json:"contributions_count"`
	LastCreditedID     string  `json:"last_credited_id,omitempty"`
	Role               string  `json:"role"`
}

// Store is the keyed user table persisted as a JSON object. Same lock
// discipline as the corpus store, applied to its own file independently.
type Store struct {
	usersFile string
	mu        sync.Mutex
}

func NewStore(usersFile string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(usersFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger.Info("Identity store initialized", zap.String("path", usersFile))

	return &Store{usersFile: usersFile}, nil
}

func (s *Store) loadLocked() map[string]User {
	raw, err := os.ReadFile(s.usersFile)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read users file, treating as empty",
				zap.String("path", s.usersFile),
				zap.Error(err),
			)
		}
		return map[string]User{}
	}

	var users map[string]User
	if err := json.Unmarshal(raw, &users); err != nil {
		logger.Warn("Users file is corrupt, treating as empty",
			zap.String("path", s.usersFile),
			zap.Error(err),
		)
		return map[string]User{}
	}
	if users == nil {
		users = map[string]User{}
	}
	return users
}

func (s *Store) saveLocked(users map[string]User) error {
	encoded, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	if err := os.WriteFile(s.usersFile, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	return nil
}

// Register creates a new user. Username and email must each be unique
// across the table.
func (s *Store) Register(username, email, password, region, fullName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.loadLocked()

	if _, exists := users[username]; exists {
		return ErrUsernameTaken
	}
	for _, user := range users {
		if user.Email == email {
			return ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users[username] = User{
		Email:            email,
		PasswordHash:     string(hash),
		Region:           region,
		FullName:         fullName,
		RegistrationDate: time.Now().Format(time.RFC3339),
		Role:             "user",
	}

	if err := s.saveLocked(users); err != nil {
		return err
	}

	logger.Info("User registered", zap.String("username", username))
	return nil
}

// Authenticate verifies credentials and updates last_login on success. The
// failure error is identical for unknown users and wrong passwords.
func (s *Store) Authenticate(username, password string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.loadLocked()

	user, exists := users[username]
	if !exists {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().Format(time.RFC3339)
	user.LastLogin = &now
	users[username] = user

	if err := s.saveLocked(users); err != nil {
		logger.Warn("Failed to persist last login", zap.String("username", username), zap.Error(err))
	}

	user.Username = username
	return &user, nil
}

// Get returns the profile for a username, if present.
func (s *Store) Get(username string) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.loadLocked()
	user, exists := users[username]
	if !exists {
		return nil, false
	}
	user.Username = username
	return &user, true
}

// CreditContribution bumps the contribution counter after a confirmed corpus
// append. Best effort: unknown usernames are a no-op, and the same entry id
// is never credited twice, so a retried submission cannot double-count.
func (s *Store) CreditContribution(username, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.loadLocked()

	user, exists := users[username]
	if !exists {
		return nil
	}
	if entryID != "" && user.LastCreditedID == entryID {
		return nil
	}

	user.ContributionsCount++
	user.LastCreditedID = entryID
	users[username] = user

	return s.saveLocked(users)
}

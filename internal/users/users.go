// Package users handles account registration, login, and the ban list.
package users

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/KibbyCaps/gem-casino/internal/store"
)

var (
	ErrUsernameTaken      = errors.New("users: username already taken")
	ErrInvalidCredentials = errors.New("users: invalid username or password")
	ErrBanned             = errors.New("users: account is banned")
	ErrUserNotFound       = errors.New("users: user not found")
	ErrAlreadyBanned      = errors.New("users: user is already banned")
	ErrEmptyField         = errors.New("users: username, email and password are required")
)

// Notifier receives account events. Methods must not block on failure.
type Notifier interface {
	PostSignup(username, email string)
	PostBan(username, email string)
}

// Service wraps the persisted account records.
type Service struct {
	db           store.DB
	notifier     Notifier
	startingGems int64
	log          *zap.Logger
}

// NewService builds the account service. startingGems is the balance
// granted to new accounts.
func NewService(db store.DB, notifier Notifier, startingGems int64, log *zap.Logger) *Service {
	return &Service{db: db, notifier: notifier, startingGems: startingGems, log: log}
}

// Register creates a new account with the starting balance and fires the
// signup notification.
func (s *Service) Register(username, email, password string) (*store.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, ErrEmptyField
	}

	u := &store.User{
		Username: username,
		Email:    email,
		Password: password,
		Gems:     s.startingGems,
	}
	if err := s.db.CreateUser(u); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("users: register: %w", err)
	}

	s.log.Info("user registered", zap.String("username", username))
	if s.notifier != nil {
		go s.notifier.PostSignup(username, email)
	}
	return u, nil
}

// Login checks credentials and the ban list.
func (s *Service) Login(username, password string) (*store.User, error) {
	banned, err := s.db.IsBanned(username)
	if err != nil {
		return nil, fmt.Errorf("users: login: %w", err)
	}
	if banned {
		return nil, ErrBanned
	}

	u, err := s.db.GetUser(username)
	if err != nil {
		return nil, fmt.Errorf("users: login: %w", err)
	}
	if u == nil || u.Password != password {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns an account by username.
func (s *Service) Get(username string) (*store.User, error) {
	u, err := s.db.GetUser(username)
	if err != nil {
		return nil, fmt.Errorf("users: get: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List returns every account.
func (s *Service) List() ([]store.User, error) {
	return s.db.ListUsers()
}

// SaveGems persists a balance for an account.
func (s *Service) SaveGems(username string, gems int64) error {
	return s.db.UpdateGems(username, gems)
}

// Ban adds a user to the ban list and fires the ban notification. The
// account record survives so an unban restores it.
func (s *Service) Ban(username string) error {
	u, err := s.db.GetUser(username)
	if err != nil {
		return fmt.Errorf("users: ban: %w", err)
	}
	if u == nil {
		return ErrUserNotFound
	}

	banned, err := s.db.IsBanned(username)
	if err != nil {
		return fmt.Errorf("users: ban: %w", err)
	}
	if banned {
		return ErrAlreadyBanned
	}

	if err := s.db.BanUser(&store.BannedUser{Username: u.Username, Email: u.Email}); err != nil {
		return fmt.Errorf("users: ban: %w", err)
	}

	s.log.Info("user banned", zap.String("username", username))
	if s.notifier != nil {
		go s.notifier.PostBan(u.Username, u.Email)
	}
	return nil
}

// Unban removes a user from the ban list.
func (s *Service) Unban(username string) error {
	banned, err := s.db.IsBanned(username)
	if err != nil {
		return fmt.Errorf("users: unban: %w", err)
	}
	if !banned {
		return ErrUserNotFound
	}
	if err := s.db.UnbanUser(username); err != nil {
		return fmt.Errorf("users: unban: %w", err)
	}
	s.log.Info("user unbanned", zap.String("username", username))
	return nil
}

// ListBanned returns the ban list.
func (s *Service) ListBanned() ([]store.BannedUser, error) {
	return s.db.ListBanned()
}

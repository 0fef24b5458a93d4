// Package session owns the authentication session: the bearer token and
// the signed-in user identity, kept in memory and mirrored to durable
// storage so a session survives a restart. Token and user are set and
// cleared together; a partial session never exists.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"shopfront/internal/models"
)

// AuthAPI is the slice of the REST client the session store needs.
type AuthAPI interface {
	// Register creates an account and returns a token plus identity.
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	// Login exchanges credentials for a token plus identity.
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
}

// Store holds the current session. All methods are safe for concurrent
// use; the token is read by the outbound pipeline on every request.
type Store struct {
	api        AuthAPI
	storage    Storage
	adminEmail string
	log        *zap.Logger

	mu    sync.RWMutex
	token string
	user  *models.User
}

// NewStore builds a Store and restores any persisted session. A storage
// read failure is logged and treated as a fresh, signed-out state.
func NewStore(api AuthAPI, storage Storage, adminEmail string, log *zap.Logger) *Store {
	s := &Store{
		api:        api,
		storage:    storage,
		adminEmail: adminEmail,
		log:        log,
	}

	token, user, err := storage.Load()
	switch {
	case err == nil:
		s.token = token
		s.user = user
		log.Info("session restored", zap.String("username", user.Username))
	case errors.Is(err, ErrNoSession):
		// fresh start
	default:
		log.Warn("cannot restore session", zap.Error(err))
	}
	return s
}

// Register creates an account and opens a session. On failure nothing
// changes and the transport error is returned untouched; credentials are
// never retried.
func (s *Store) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.open(resp)
}

// Login opens a session for an existing account. Failure semantics match
// Register.
func (s *Store) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.open(resp)
}

// open persists and installs the session from an auth response.
func (s *Store) open(resp *models.AuthResponse) (*models.User, error) {
	user := models.User{
		Username: resp.Username,
		Email:    resp.Email,
	}

	if err := s.storage.Save(resp.Token, user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = &user
	s.mu.Unlock()

	s.log.Info("session created", zap.String("username", user.Username))
	return &user, nil
}

// Logout drops the session from memory and storage. It is idempotent
// and safe to call when already signed out.
func (s *Store) Logout() {
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.storage.Clear(); err != nil {
		s.log.Warn("cannot clear session storage", zap.Error(err))
	}
	if wasAuthenticated {
		s.log.Info("session destroyed")
	}
}

// Token returns the current bearer token, or "" when signed out. It
// satisfies the pipeline's TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser returns a copy of the signed-in identity, or nil.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a token is present. The token is used
// until the server rejects it; there is no client-side expiry check.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// IsAdmin reports whether the session belongs to the designated
// administrator identity. This is a display-level check only; the
// server re-checks authorization on every admin operation.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && strings.EqualFold(s.user.Email, s.adminEmail)
}

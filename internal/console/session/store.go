// Package session holds the operator session of the console: who is signed
// in against the backend, and the bearer token sent with every API call.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/gartstein/guardroster/internal/console/models"
	"go.uber.org/zap"
)

type State int

const (
	Loading State = iota
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	}
	return "anonymous"
}

// Remote is the backend's auth surface.
type Remote interface {
	Verify(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	Logout(ctx context.Context) error
}

// Snapshots persists the last known identity locally.
type Snapshots interface {
	LoadIdentity(ctx context.Context) (*models.User, error)
	SaveSession(ctx context.Context, user models.User, token string) error
	ClearIdentity(ctx context.Context) error
	Token(ctx context.Context) (string, error)
}

type Store struct {
	remote    Remote
	snapshots Snapshots
	logger    *zap.Logger

	mu       sync.RWMutex
	state    State
	user     *models.User
	token    string
	restored bool
	ready    chan struct{}
	once     sync.Once
}

func NewStore(remote Remote, snapshots Snapshots, logger *zap.Logger) *Store {
	return &Store{
		remote:    remote,
		snapshots: snapshots,
		logger:    logger.Named("session"),
		state:     Loading,
		ready:     make(chan struct{}),
	}
}

// Init restores the session: first from the backend, then from the local
// snapshot. It leaves the store authenticated or anonymous.
func (s *Store) Init(ctx context.Context) {
	defer s.once.Do(func() { close(s.ready) })

	token, err := s.snapshots.Token(ctx)
	if err != nil {
		s.logger.Warn("failed to load stored token", zap.Error(err))
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.remote.Verify(ctx)
	if err == nil && user != nil {
		if err := s.snapshots.SaveSession(ctx, *user, token); err != nil {
			s.logger.Warn("failed to persist identity snapshot", zap.Error(err))
		}
		s.set(Authenticated, user, false)
		s.logger.Info("session verified", zap.String("email", user.Email))
		return
	}
	if err != nil {
		s.logger.Warn("session verification failed", zap.Error(err))
	}

	stored, err := s.snapshots.LoadIdentity(ctx)
	if err != nil {
		s.logger.Info("no stored identity", zap.Error(err))
		s.set(Anonymous, nil, false)
		return
	}
	s.set(Authenticated, stored, true)
	s.logger.Info("session restored from snapshot", zap.String("email", stored.Email))
}

// Login signs the operator in. It reports false, without error, when the
// backend refuses the credentials.
func (s *Store) Login(ctx context.Context, email, password string) (bool, error) {
	res, err := s.remote.Login(ctx, email, password)
	if err != nil {
		s.logger.Error("login failed", zap.String("email", email), zap.Error(err))
		return false, fmt.Errorf("login: %w", err)
	}
	if !res.Success {
		s.logger.Info("login refused", zap.String("email", email))
		return false, nil
	}

	user := &models.User{Email: email, Role: res.Role, Message: res.Message}
	if err := s.snapshots.SaveSession(ctx, *user, res.Token); err != nil {
		s.logger.Warn("failed to persist identity snapshot", zap.Error(err))
	}
	s.mu.Lock()
	if res.Token != "" {
		s.token = res.Token
	}
	s.mu.Unlock()
	s.set(Authenticated, user, false)
	return true, nil
}

// Logout tells the backend, then clears the local session whatever the
// backend answered.
func (s *Store) Logout(ctx context.Context) {
	if err := s.remote.Logout(ctx); err != nil {
		s.logger.Warn("remote logout failed", zap.Error(err))
	}
	if err := s.snapshots.ClearIdentity(ctx); err != nil {
		s.logger.Error("failed to clear identity snapshot", zap.Error(err))
	}
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	s.set(Anonymous, nil, false)
}

func (s *Store) set(state State, user *models.User, restored bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.user = user
	s.restored = restored
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Ready() bool         { return s.State() != Loading }
func (s *Store) Authenticated() bool { return s.State() == Authenticated }

// Restored reports whether the identity came from the local snapshot rather
// than the backend.
func (s *Store) Restored() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restored
}

// User returns a copy of the current identity, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Actor names the operator for audit records.
func (s *Store) Actor() string {
	if u := s.User(); u != nil {
		return u.Email
	}
	return ""
}

// Token is the bearer token for backend requests.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// WaitReady blocks until Init has finished or ctx is done.
func (s *Store) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

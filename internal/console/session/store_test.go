package session

import (
	"context"
	"errors"
	"testing"
	"time"

	e "github.com/gartstein/guardroster/internal/console/errors"
	"github.com/gartstein/guardroster/internal/console/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockRemote struct {
	VerifyFunc func(ctx context.Context) (*models.User, error)
	LoginFunc  func(ctx context.Context, email, password string) (*models.LoginResult, error)
	LogoutFunc func(ctx context.Context) error
}

func (m *MockRemote) Verify(ctx context.Context) (*models.User, error) {
	if m.VerifyFunc == nil {
		return nil, e.ErrUnauthenticated
	}
	return m.VerifyFunc(ctx)
}

func (m *MockRemote) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	return m.LoginFunc(ctx, email, password)
}

func (m *MockRemote) Logout(ctx context.Context) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx)
}

// memSnapshots is an in-memory Snapshots.
type memSnapshots struct {
	user    *models.User
	token   string
	cleared int
	saveErr error
}

func (m *memSnapshots) LoadIdentity(context.Context) (*models.User, error) {
	if m.user == nil {
		return nil, e.ErrNotFound
	}
	u := *m.user
	return &u, nil
}

func (m *memSnapshots) SaveSession(_ context.Context, user models.User, token string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.user = &user
	if token != "" {
		m.token = token
	}
	return nil
}

func (m *memSnapshots) ClearIdentity(context.Context) error {
	m.cleared++
	m.user = nil
	m.token = ""
	return nil
}

func (m *memSnapshots) Token(context.Context) (string, error) { return m.token, nil }

var admin = models.User{Email: "admin@registry.mw", Role: "admin"}

func TestStore_InitVerified(t *testing.T) {
	snaps := &memSnapshots{token: "tok"}
	remote := &MockRemote{VerifyFunc: func(context.Context) (*models.User, error) {
		u := admin
		return &u, nil
	}}
	s := NewStore(remote, snaps, zaptest.NewLogger(t))
	assert.False(t, s.Ready())
	assert.Equal(t, Loading, s.State())

	s.Init(context.Background())

	assert.True(t, s.Ready())
	assert.True(t, s.Authenticated())
	assert.False(t, s.Restored())
	assert.Equal(t, &admin, s.User())
	assert.Equal(t, &admin, snaps.user)
	assert.Equal(t, "tok", s.Token())
	require.NoError(t, s.WaitReady(context.Background()))
}

func TestStore_InitFallsBackToSnapshot(t *testing.T) {
	tests := []struct {
		name   string
		verify func(context.Context) (*models.User, error)
	}{
		{name: "backend error", verify: func(context.Context) (*models.User, error) { return nil, errors.New("unreachable") }},
		{name: "no user", verify: func(context.Context) (*models.User, error) { return nil, nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := admin
			snaps := &memSnapshots{user: &u}
			s := NewStore(&MockRemote{VerifyFunc: tt.verify}, snaps, zaptest.NewLogger(t))

			s.Init(context.Background())

			assert.True(t, s.Authenticated())
			assert.True(t, s.Restored())
			assert.Equal(t, "admin@registry.mw", s.Actor())
		})
	}
}

func TestStore_InitAnonymous(t *testing.T) {
	s := NewStore(&MockRemote{}, &memSnapshots{}, zaptest.NewLogger(t))
	s.Init(context.Background())

	assert.True(t, s.Ready())
	assert.False(t, s.Authenticated())
	assert.Equal(t, Anonymous, s.State())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Actor())
}

func TestStore_Login(t *testing.T) {
	snaps := &memSnapshots{}
	remote := &MockRemote{LoginFunc: func(_ context.Context, email, password string) (*models.LoginResult, error) {
		switch password {
		case "right":
			return &models.LoginResult{Success: true, Role: "admin", Message: "Welcome", Token: "tok-9"}, nil
		case "wrong":
			return &models.LoginResult{Success: false, Message: "Invalid credentials"}, nil
		}
		return nil, errors.New("backend down")
	}}
	s := NewStore(remote, snaps, zaptest.NewLogger(t))
	s.Init(context.Background())

	ok, err := s.Login(context.Background(), "admin@registry.mw", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.Authenticated())

	ok, err = s.Login(context.Background(), "admin@registry.mw", "boom")
	require.Error(t, err)
	assert.False(t, ok)

	ok, err = s.Login(context.Background(), "admin@registry.mw", "right")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, s.Authenticated())
	want := models.User{Email: "admin@registry.mw", Role: "admin", Message: "Welcome"}
	assert.Equal(t, &want, s.User())
	assert.Equal(t, &want, snaps.user)
	assert.Equal(t, "tok-9", s.Token())
	assert.Equal(t, "tok-9", snaps.token)
}

func TestStore_LoginSurvivesSnapshotFailure(t *testing.T) {
	snaps := &memSnapshots{saveErr: errors.New("disk full")}
	remote := &MockRemote{LoginFunc: func(context.Context, string, string) (*models.LoginResult, error) {
		return &models.LoginResult{Success: true, Role: "admin"}, nil
	}}
	s := NewStore(remote, snaps, zaptest.NewLogger(t))

	ok, err := s.Login(context.Background(), "admin@registry.mw", "right")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, s.Authenticated())
}

func TestStore_LogoutClearsEvenWhenRemoteFails(t *testing.T) {
	u := admin
	snaps := &memSnapshots{user: &u, token: "tok"}
	remote := &MockRemote{LogoutFunc: func(context.Context) error { return errors.New("network") }}
	s := NewStore(remote, snaps, zaptest.NewLogger(t))
	s.Init(context.Background())
	require.True(t, s.Authenticated())

	s.Logout(context.Background())

	assert.Equal(t, Anonymous, s.State())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Token())
	assert.Equal(t, 1, snaps.cleared)
}

func TestStore_WaitReadyHonoursContext(t *testing.T) {
	s := NewStore(&MockRemote{}, &memSnapshots{}, zaptest.NewLogger(t))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.WaitReady(ctx), context.DeadlineExceeded)
}

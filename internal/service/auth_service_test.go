package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/repository"
	"github.com/iliyamo/event-ticket-reservation/internal/utils"
)

// memTokens keeps refresh token hashes like TokenRepo does.
type memTokens struct {
	mu     sync.Mutex
	owners map[string]uuid.UUID
}

func (m *memTokens) StoreRefresh(_ context.Context, userID uuid.UUID, hash string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[hash] = userID
	return nil
}

func (m *memTokens) ValidateRefresh(_ context.Context, hash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.owners[hash]
	if !ok {
		return uuid.Nil, repository.ErrNotFound
	}
	return id, nil
}

func (m *memTokens) RevokeByHash(_ context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.owners, hash)
	return nil
}

func (m *memTokens) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for h, id := range m.owners {
		if id == userID {
			delete(m.owners, h)
		}
	}
	return nil
}

func newAuthFixture() (*AuthService, *UserService, *memTokens) {
	tokens := &memTokens{owners: map[string]uuid.UUID{}}
	users := NewUserService(newMemUsers(), tokens, &outbox{}, bcrypt.MinCost, nil)
	return NewAuthService(users, tokens, "test-secret", 15, 7), users, tokens
}

func TestRegisterIssuesStudentSession(t *testing.T) {
	auth, _, _ := newAuthFixture()
	ctx := context.Background()

	s, err := auth.Register(ctx, UserInput{Name: "Ann", Email: "ann@example.com", Password: "secret1", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, s.User.Role)

	claims, err := utils.ParseAccessToken("test-secret", s.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, claims.UserID)
	assert.Equal(t, model.RoleStudent, claims.Role)
	assert.NotEmpty(t, s.Refresh.Raw)
}

func TestRefreshRotates(t *testing.T) {
	auth, _, _ := newAuthFixture()
	ctx := context.Background()
	s, err := auth.Register(ctx, UserInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	next, err := auth.Refresh(ctx, s.Refresh.Raw)
	require.NoError(t, err)
	assert.NotEqual(t, s.Refresh.Raw, next.Refresh.Raw)

	_, err = auth.Refresh(ctx, s.Refresh.Raw)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "a rotated token is spent")
}

func TestRefreshInactiveUser(t *testing.T) {
	auth, users, _ := newAuthFixture()
	ctx := context.Background()
	s, err := auth.Register(ctx, UserInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	// deactivation revokes every session, so the old token is unknown
	_, err = users.ToggleStatus(ctx, s.User.ID)
	require.NoError(t, err)
	_, err = auth.Refresh(ctx, s.Refresh.Raw)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "ann@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestLogout(t *testing.T) {
	auth, _, tokens := newAuthFixture()
	ctx := context.Background()
	s, err := auth.Register(ctx, UserInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	other, err := auth.Register(ctx, UserInput{Name: "Bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	assert.ErrorIs(t, auth.Logout(ctx, s.User.ID, other.Refresh.Raw), ErrForbidden)
	assert.ErrorIs(t, auth.Logout(ctx, s.User.ID, "unknown"), ErrInvalidCredentials)
	require.NoError(t, auth.Logout(ctx, s.User.ID, s.Refresh.Raw))

	_, err = auth.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx, s.User.ID, ""))
	for _, id := range tokens.owners {
		assert.NotEqual(t, s.User.ID, id)
	}
}

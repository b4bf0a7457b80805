package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/utils"
)

type revocations struct{ users []uuid.UUID }

func (r *revocations) RevokeAllForUser(_ context.Context, id uuid.UUID) error {
	r.users = append(r.users, id)
	return nil
}

func newUserFixture() (*UserService, *memUsers, *outbox, *revocations) {
	users, mail, revoked := newMemUsers(), &outbox{}, &revocations{}
	return NewUserService(users, revoked, mail, bcrypt.MinCost, nil), users, mail, revoked
}

func TestRegisterRoles(t *testing.T) {
	svc, _, _, _ := newUserFixture()
	ctx := context.Background()
	in := UserInput{Name: "Ann", Email: "Ann@Example.com ", Password: "secret1"}

	u, err := svc.Register(ctx, nil, in)
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, u.Role)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "secret1"))

	_, err = svc.Register(ctx, nil, in)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.EqualError(t, err, "User with email ann@example.com already exists.")

	org := UserInput{Name: "Org", Email: "org@example.com", Password: "secret1", Role: "organizer"}
	_, err = svc.Register(ctx, nil, org)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Register(ctx, &Actor{Role: model.RoleOrganizer}, org)
	assert.ErrorIs(t, err, ErrForbidden)

	u, err = svc.Register(ctx, &Actor{Role: model.RoleAdmin}, org)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOrganizer, u.Role)

	root := UserInput{Name: "Root", Email: "root@example.com", Password: "secret1", Role: model.RoleSuperAdmin}
	_, err = svc.Register(ctx, &Actor{Role: model.RoleAdmin}, root)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Register(ctx, nil, UserInput{Name: "X", Email: "x@example.com", Password: "p", Role: "janitor"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthenticate(t *testing.T) {
	svc, _, _, _ := newUserFixture()
	ctx := context.Background()
	u, err := svc.Register(ctx, nil, UserInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.ToggleStatus(ctx, u.ID)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "ann@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestToggleStatusRevokesSessions(t *testing.T) {
	svc, users, _, revoked := newUserFixture()
	ctx := context.Background()
	id := users.add("ann", model.RoleStudent)

	u, err := svc.ToggleStatus(ctx, id)
	require.NoError(t, err)
	assert.False(t, u.IsActive)
	assert.Equal(t, []uuid.UUID{id}, revoked.users)

	u, err = svc.ToggleStatus(ctx, id)
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	assert.Len(t, revoked.users, 1)

	_, err = svc.ToggleStatus(ctx, uuid.New())
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, EntityUser, nf.Entity)
}

func TestUpdatePermissions(t *testing.T) {
	svc, users, _, _ := newUserFixture()
	ctx := context.Background()
	ann := users.add("ann", model.RoleStudent)
	bob := users.add("bob", model.RoleStudent)

	_, err := svc.Update(ctx, Actor{ID: bob, Role: model.RoleStudent}, ann, UserInput{Name: "Mallory"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, Actor{ID: ann, Role: model.RoleStudent}, ann, UserInput{Role: model.RoleAdmin})
	assert.ErrorIs(t, err, ErrForbidden)

	u, err := svc.Update(ctx, Actor{ID: ann, Role: model.RoleStudent}, ann, UserInput{Name: "Annie", Address: model.Address{City: "Oslo"}})
	require.NoError(t, err)
	assert.Equal(t, "Annie", u.Name)
	assert.Equal(t, "Oslo", u.Address.City)

	u, err = svc.Update(ctx, Actor{Role: model.RoleAdmin}, ann, UserInput{Role: "organizer"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleOrganizer, u.Role)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, users, mail, revoked := newUserFixture()
	ctx := context.Background()
	id := users.add("ann", model.RoleStudent)

	require.NoError(t, svc.SendPasswordReset(ctx, "ann@example.com"))
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "Password Reset", mail.sent[0].Subject)
	token := strings.TrimPrefix(mail.sent[0].Body, "Your password reset token is ")
	assert.Len(t, token, 6)

	ok, err := svc.ResetPassword(ctx, "ann@example.com", "not-it", "newpass")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, revoked.users)

	ok, err = svc.ResetPassword(ctx, "ann@example.com", token, "newpass")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []uuid.UUID{id}, revoked.users)

	u, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "newpass"))

	ok, err = svc.ResetPassword(ctx, "ann@example.com", token, "again")
	require.NoError(t, err)
	assert.False(t, ok, "a token works once")

	err = svc.SendPasswordReset(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPasswordResetDeliveryFailure(t *testing.T) {
	svc, users, mail, _ := newUserFixture()
	users.add("ann", model.RoleStudent)
	mail.err = errBoom

	err := svc.SendPasswordReset(context.Background(), "ann@example.com")
	assert.ErrorIs(t, err, errBoom)
}

func TestEnsureAdmin(t *testing.T) {
	svc, _, _, _ := newUserFixture()
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "Root", "root@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "Root", "root@example.com", "secret1")
	require.NoError(t, err)
	assert.False(t, created)

	admins, err := svc.List(ctx, "superadmin")
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}

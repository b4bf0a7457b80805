package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	glog "github.com/labstack/gommon/log"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/notify"
	"github.com/iliyamo/event-ticket-reservation/internal/repository"
	"github.com/iliyamo/event-ticket-reservation/internal/utils"
)

// UserStore is implemented by repository.UserRepo.
type UserStore interface {
	UserLookup
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, role string) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	ToggleActive(ctx context.Context, id uuid.UUID) error
	SetResetToken(ctx context.Context, id uuid.UUID, token string) error
	ResetPassword(ctx context.Context, id uuid.UUID, token, hash string) (bool, error)
}

// SessionRevoker ends every refresh session of a user.
type SessionRevoker interface {
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

const (
	MsgPasswordResetSent = "Password reset email sent successfully."
	MsgPasswordUpdated   = "User password updated successfully."
	MsgInvalidResetToken = "Invalid token."
	resetTokenDigits     = 6
)

var validRoles = map[string]bool{
	model.RoleSuperAdmin: true,
	model.RoleAdmin:      true,
	model.RoleOrganizer:  true,
	model.RoleStudent:    true,
}

type UserService struct {
	users      UserStore
	sessions   SessionRevoker
	notifier   notify.Notifier
	bcryptCost int
	log        *glog.Logger
}

func NewUserService(users UserStore, sessions SessionRevoker, notifier notify.Notifier, bcryptCost int, logger *glog.Logger) *UserService {
	if logger == nil {
		logger = glog.New("users")
	}
	return &UserService{users: users, sessions: sessions, notifier: notifier, bcryptCost: bcryptCost, log: logger}
}

// UserInput creates or updates a user.  An empty Password on update keeps
// the current one; an empty Role on register means STUDENT.
type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Address  model.Address
}

// Register creates an active user.  Only staff may create users with a
// role other than STUDENT; a nil actor is an anonymous sign-up.
func (s *UserService) Register(ctx context.Context, actor *Actor, in UserInput) (*model.User, error) {
	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if role == "" {
		role = model.RoleStudent
	}
	if !validRoles[role] {
		return nil, invalid("unknown role %q", in.Role)
	}
	if role != model.RoleStudent && (actor == nil || !actor.IsStaff()) {
		return nil, ErrForbidden
	}
	if role == model.RoleSuperAdmin && actor.Role != model.RoleSuperAdmin {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(in.Name) == "" || repository.NormalizeEmail(in.Email) == "" || in.Password == "" {
		return nil, invalid("name, email and password are required")
	}
	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		Address:      in.Address,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, alreadyExists(fmt.Sprintf("User with email %s already exists.", u.Email))
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, EntityUser)
	}
	return u, nil
}

// List returns every user, or only those with role when it is set.
func (s *UserService) List(ctx context.Context, role string) ([]model.User, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role != "" && !validRoles[role] {
		return nil, invalid("unknown role %q", role)
	}
	return s.users.List(ctx, role)
}

// Update edits a profile.  Users may edit themselves; staff may edit
// anyone and are the only ones allowed to change a role.
func (s *UserService) Update(ctx context.Context, actor Actor, id uuid.UUID, in UserInput) (*model.User, error) {
	if actor.ID != id && !actor.IsStaff() {
		return nil, ErrForbidden
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if email := repository.NormalizeEmail(in.Email); email != "" {
		u.Email = email
	}
	if role := strings.ToUpper(strings.TrimSpace(in.Role)); role != "" && role != u.Role {
		if !actor.IsStaff() {
			return nil, ErrForbidden
		}
		if !validRoles[role] {
			return nil, invalid("unknown role %q", in.Role)
		}
		u.Role = role
	}
	u.Address = in.Address
	if in.Password != "" {
		hash, err := utils.HashPassword(in.Password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, alreadyExists(fmt.Sprintf("User with email %s already exists.", u.Email))
		}
		return nil, orNotFound(err, EntityUser)
	}
	return u, nil
}

// ToggleStatus flips a user between active and inactive.  Deactivated
// users lose their refresh sessions.
func (s *UserService) ToggleStatus(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if err := s.users.ToggleActive(ctx, id); err != nil {
		return nil, orNotFound(err, EntityUser)
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsActive && s.sessions != nil {
		if err := s.sessions.RevokeAllForUser(ctx, id); err != nil {
			return nil, fmt.Errorf("revoke sessions: %w", err)
		}
	}
	return u, nil
}

// Authenticate checks an email and password pair.  Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInactiveUser
	}
	return u, nil
}

// SendPasswordReset stores a fresh numeric token and emails it.  Unlike
// reservation emails the message is the whole point of the call, so a
// delivery failure is returned.
func (s *UserService) SendPasswordReset(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return orNotFound(err, EntityUser)
	}
	token, err := utils.NewResetToken(resetTokenDigits)
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, u.ID, token); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.notifier.Notify(ctx, notify.Email{
		To:      u.Email,
		Subject: "Password Reset",
		Body:    fmt.Sprintf("Your password reset token is %s", token),
	}); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ResetPassword sets a new password when token matches the pending one.
// A wrong token is a soft failure: false with no error.
func (s *UserService) ResetPassword(ctx context.Context, email, token, password string) (bool, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return false, orNotFound(err, EntityUser)
	}
	if password == "" {
		return false, invalid("password is required")
	}
	if strings.TrimSpace(token) == "" {
		return false, nil
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	ok, err := s.users.ResetPassword(ctx, u.ID, strings.TrimSpace(token), hash)
	if err != nil {
		return false, err
	}
	if ok && s.sessions != nil {
		if err := s.sessions.RevokeAllForUser(ctx, u.ID); err != nil {
			s.log.Warnf("revoke sessions of %s after password reset: %v", u.ID, err)
		}
	}
	return ok, nil
}

// EnsureAdmin creates the super admin account unless the email is taken.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	root := &Actor{Role: model.RoleSuperAdmin}
	_, err := s.Register(ctx, root, UserInput{Name: name, Email: email, Password: password, Role: model.RoleSuperAdmin})
	if errors.Is(err, ErrAlreadyExists) {
		return false, nil
	}
	return err == nil, err
}

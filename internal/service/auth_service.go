package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/repository"
	"github.com/iliyamo/event-ticket-reservation/internal/utils"
)

// TokenStore is implemented by repository.TokenRepo.
type TokenStore interface {
	SessionRevoker
	StoreRefresh(ctx context.Context, userID uuid.UUID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
}

// Session is an access token plus the raw refresh token handed to the
// client.
type Session struct {
	User    *model.User
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// AuthService issues and rotates sessions on top of UserService.
type AuthService struct {
	users          *UserService
	tokens         TokenStore
	secret         string
	accessTTLMin   int
	refreshTTLDays int
}

func NewAuthService(users *UserService, tokens TokenStore, secret string, accessTTLMin, refreshTTLDays int) *AuthService {
	return &AuthService{users: users, tokens: tokens, secret: secret, accessTTLMin: accessTTLMin, refreshTTLDays: refreshTTLDays}
}

func (s *AuthService) issue(ctx context.Context, u *model.User) (*Session, error) {
	access, err := utils.NewAccessToken(s.secret, u.ID, u.Role, s.accessTTLMin)
	if err != nil {
		return nil, fmt.Errorf("issue access: %w", err)
	}
	refresh, err := utils.NewRefreshToken(s.refreshTTLDays)
	if err != nil {
		return nil, fmt.Errorf("issue refresh: %w", err)
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return nil, fmt.Errorf("save refresh: %w", err)
	}
	return &Session{User: u, Access: access, Refresh: refresh}, nil
}

// Register signs up a student and logs them in.
func (s *AuthService) Register(ctx context.Context, in UserInput) (*Session, error) {
	in.Role = model.RoleStudent
	u, err := s.users.Register(ctx, nil, in)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, u)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*Session, error) {
	hash := utils.HashRefreshRaw(raw)
	userID, err := s.tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return nil, fmt.Errorf("revoke refresh: %w", err)
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInactiveUser
	}
	return s.issue(ctx, u)
}

// Logout revokes one refresh token when raw is given, otherwise every
// session of userID.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, raw string) error {
	if raw == "" {
		return s.tokens.RevokeAllForUser(ctx, userID)
	}
	hash := utils.HashRefreshRaw(raw)
	owner, err := s.tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	return s.tokens.RevokeByHash(ctx, hash)
}

package services

import (
	"context"

	"github.com/jobdeck/jobdeck-cli/internal/client/models"
)

// Credentials is the /auth/login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is the /auth/register payload.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthResult is the authenticated identity the auth endpoints return.
type AuthResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// AuthService wraps the /auth endpoint family.
type AuthService struct {
	gw Gateway
}

func NewAuthService(gw Gateway) *AuthService {
	return &AuthService{gw: gw}
}

func (s *AuthService) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	var out AuthResult
	if err := s.gw.Post(ctx, "/auth/login", creds, &out); err != nil {
		return AuthResult{}, err
	}
	return out, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	var out AuthResult
	if err := s.gw.Post(ctx, "/auth/register", in, &out); err != nil {
		return AuthResult{}, err
	}
	return out, nil
}

// Me returns the fresh identity for the current bearer token. It is the
// authority the session store validates its persisted copy against.
func (s *AuthService) Me(ctx context.Context) (models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if _, err := s.gw.Get(ctx, "/auth/me", nil, &out); err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

// Logout invalidates the token server-side. Callers treat failures as
// best-effort; the local session is cleared regardless.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.gw.Post(ctx, "/auth/logout", nil, nil)
}

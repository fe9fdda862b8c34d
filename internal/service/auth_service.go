package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lab-rental-service/internal/auth"
	"github.com/spec-kit/lab-rental-service/internal/config"
	"github.com/spec-kit/lab-rental-service/internal/domain"
	"github.com/spec-kit/lab-rental-service/internal/repository"
	apperrors "github.com/spec-kit/lab-rental-service/pkg/util"
)

// TokenPair bundles the two grants issued at login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenIdentity is the result of an identity check: the token's embedded
// subject, the current user record, and the raw token that was presented.
type TokenIdentity struct {
	UserID int64
	Kind   auth.TokenKind
	User   *domain.User
	Token  string
}

// AuthService coordinates login and token rotation flows.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL()),
	}
}

// Login validates the credential pair and mints an access+refresh pair bound
// to the resolved user.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	access, refresh, err := s.tokenMgr.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify parses the token and returns its claims. Side-effect free.
func (s *AuthService) Verify(tokenStr string) (*auth.Claims, error) {
	claims, err := s.tokenMgr.Parse(tokenStr)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	return claims, nil
}

// Rotate verifies the presented token and mints replacements.
//
// With refreshRotation set, only a refresh token is accepted and a new
// refresh+access pair is issued. Without it, any valid token yields a fresh
// access token: access renewal does not require the refresh token's
// exclusive privilege, explicit refresh rotation does.
func (s *AuthService) Rotate(tokenStr string, refreshRotation bool) (*TokenPair, error) {
	claims, err := s.Verify(tokenStr)
	if err != nil {
		return nil, err
	}

	if refreshRotation {
		if claims.Kind != auth.TokenKindRefresh {
			return nil, apperrors.NewUnauthorized("refresh token required")
		}
		access, refresh, err := s.tokenMgr.GeneratePair(claims.UserID)
		if err != nil {
			return nil, err
		}
		return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
	}

	access, _, err := s.tokenMgr.Generate(claims.UserID, auth.TokenKindAccess)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access}, nil
}

// CheckToken resolves the identity behind a token: embedded claims plus the
// full current user record. Read-only.
func (s *AuthService) CheckToken(ctx context.Context, tokenStr string) (*TokenIdentity, error) {
	claims, err := s.Verify(tokenStr)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("user not found")
		}
		return nil, err
	}

	return &TokenIdentity{
		UserID: claims.UserID,
		Kind:   claims.Kind,
		User:   user,
		Token:  tokenStr,
	}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chatterbox/backend/internal/blacklist"
	"github.com/chatterbox/backend/internal/domain"
	"github.com/chatterbox/backend/internal/repository"
	"github.com/chatterbox/backend/pkg/auth"
	"github.com/chatterbox/backend/pkg/hash"
	"github.com/chatterbox/backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type authService struct {
	users        repository.Users
	sessions     repository.RefreshSessions
	hasher       hash.PasswordHasher
	tokenManager auth.TokenManager
	blacklist    blacklist.Registry
}

func newAuthService(
	users repository.Users,
	sessions repository.RefreshSessions,
	hasher hash.PasswordHasher,
	tokenManager auth.TokenManager,
	registry blacklist.Registry,
) *authService {
	return &authService{
		users:        users,
		sessions:     sessions,
		hasher:       hasher,
		tokenManager: tokenManager,
		blacklist:    registry,
	}
}

func (s *authService) SignUp(ctx context.Context, input SignUpInput) (*domain.User, error) {
	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	userID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate user id failed: %w", err)
	}

	user := &domain.User{
		ID:           userID,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Nickname:     input.Nickname,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user failed: %w", err)
	}

	return user, nil
}

func (s *authService) SignIn(ctx context.Context, input SignInInput, meta ClientMeta) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("get user by email failed: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		return nil, ErrUnauthorized
	}

	res, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	session, err := s.newSessionRow(user.ID, res, meta)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create refresh session failed: %w", err)
	}

	return res, nil
}

// Refresh redeems a refresh token: the old session is revoked and a new one
// inserted in a single transaction, so a replayed token loses the race and
// fails as unauthorized.
func (s *authService) Refresh(ctx context.Context, refreshToken string, meta ClientMeta) (*AuthResult, error) {
	oldToken, err := uuid.Parse(refreshToken)
	if err != nil {
		return nil, ErrUnauthorized
	}

	newToken, refreshTTL, err := s.tokenManager.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token failed: %w", err)
	}

	sessionID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate refresh session id failed: %w", err)
	}

	next := &domain.RefreshSession{
		ID:           sessionID,
		RefreshToken: newToken,
		UserAgent:    meta.UserAgent,
		IP:           meta.IP,
		ExpiresAt:    time.Now().Add(refreshTTL),
	}

	old, err := s.sessions.Rotate(ctx, oldToken, next)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrSessionInvalid) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("rotate refresh session failed: %w", err)
	}

	user, err := s.users.GetOneByID(ctx, old.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("get user by id failed: %w", err)
	}

	accessToken, accessTTL, err := s.tokenManager.NewJWT(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate access token failed: %w", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		AccessTTL:    accessTTL,
		RefreshToken: newToken,
		RefreshTTL:   refreshTTL,
		User:         user,
	}, nil
}

// Logout blacklists the access token until its natural expiry and revokes the
// supplied refresh session. Garbage input is ignored, the caller's intent is
// honored by the transport clearing cookies regardless, and repeated logout
// with the same token changes nothing.
func (s *authService) Logout(ctx context.Context, accessToken string, refreshToken string) error {
	if accessToken != "" {
		expiresAt, err := s.tokenManager.ExpiryOf(accessToken)
		if err != nil {
			logger.Debug("logout with undecodable access token", zap.Error(err))
		} else if err := s.blacklist.Add(ctx, accessToken, expiresAt); err != nil {
			return fmt.Errorf("blacklist access token failed: %w", err)
		}
	}

	if refreshToken != "" {
		token, err := uuid.Parse(refreshToken)
		if err != nil {
			logger.Debug("logout with malformed refresh token", zap.Error(err))
			return nil
		}
		if err := s.sessions.Revoke(ctx, token); err != nil {
			return fmt.Errorf("revoke refresh session failed: %w", err)
		}
	}

	return nil
}

func (s *authService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.users.GetOneByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("get user by id failed: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return ErrUnauthorized
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user failed: %w", err)
	}

	// Outstanding sessions die with the account, not by natural expiry.
	if err := s.sessions.RevokeAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke user refresh sessions failed: %w", err)
	}

	return nil
}

func (s *authService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetOneByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("get user by id failed: %w", err)
	}

	return user, nil
}

func (s *authService) issueTokens(user *domain.User) (*AuthResult, error) {
	accessToken, accessTTL, err := s.tokenManager.NewJWT(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate access token failed: %w", err)
	}

	refreshToken, refreshTTL, err := s.tokenManager.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token failed: %w", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		AccessTTL:    accessTTL,
		RefreshToken: refreshToken,
		RefreshTTL:   refreshTTL,
		User:         user,
	}, nil
}

func (s *authService) newSessionRow(userID uuid.UUID, res *AuthResult, meta ClientMeta) (*domain.RefreshSession, error) {
	sessionID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate refresh session id failed: %w", err)
	}

	return &domain.RefreshSession{
		ID:           sessionID,
		UserID:       userID,
		RefreshToken: res.RefreshToken,
		UserAgent:    meta.UserAgent,
		IP:           meta.IP,
		ExpiresAt:    time.Now().Add(res.RefreshTTL),
	}, nil
}

package service

import (
	"context"
	"time"

	"github.com/chatterbox/backend/internal/blacklist"
	"github.com/chatterbox/backend/internal/config"
	"github.com/chatterbox/backend/internal/domain"
	"github.com/chatterbox/backend/internal/repository"
	"github.com/chatterbox/backend/pkg/auth"
	"github.com/chatterbox/backend/pkg/hash"

	"github.com/google/uuid"
)

type Services struct {
	Auth Auth
}

type Deps struct {
	Config       *config.Config
	Hasher       hash.PasswordHasher
	TokenManager auth.TokenManager
	Blacklist    blacklist.Registry
	Repos        *repository.Repositories
}

func NewServices(deps Deps) *Services {
	return &Services{
		Auth: newAuthService(
			deps.Repos.Users,
			deps.Repos.RefreshSessions,
			deps.Hasher,
			deps.TokenManager,
			deps.Blacklist,
		),
	}
}

// ClientMeta is the optional client fingerprint captured on login and refresh.
type ClientMeta struct {
	UserAgent string
	IP        string
}

type SignUpInput struct {
	Email    string
	Password string
	Nickname string
}

type SignInInput struct {
	Email    string
	Password string
}

// AuthResult is what login and refresh hand back to the transport layer.
type AuthResult struct {
	AccessToken  string
	AccessTTL    time.Duration
	RefreshToken uuid.UUID
	RefreshTTL   time.Duration
	User         *domain.User
}

type Auth interface {
	SignUp(ctx context.Context, input SignUpInput) (*domain.User, error)
	SignIn(ctx context.Context, input SignInInput, meta ClientMeta) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string, meta ClientMeta) (*AuthResult, error)
	Logout(ctx context.Context, accessToken string, refreshToken string) error
	DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

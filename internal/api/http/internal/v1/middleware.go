package v1

import (
	"errors"

	"github.com/chatterbox/backend/internal/domain"
	"github.com/chatterbox/backend/internal/guard"

	"github.com/gin-gonic/gin"
)

const (
	userCtx         = "user"
	accessTokenCtx  = "accessToken"
	refreshTokenCtx = "refreshToken"
)

// userIdentityMiddleware is the request authenticator: it extracts the access
// token from the Authorization header or the access cookie and runs the
// shared guard. The authenticated user and the raw token are attached to the
// request context.
func (h *Handler) userIdentityMiddleware(c *gin.Context) {
	token, ok := guard.FromRequest(c.Request, h.config.Auth.AccessCookieName)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	user, err := h.guard.Authenticate(c.Request.Context(), token)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	c.Set(userCtx, user)
	c.Set(accessTokenCtx, token)
	c.Next()
}

// refreshIdentityMiddleware is the refresh authenticator. The refresh token
// is accepted strictly from its cookie, never from a header; validity
// checking is left to the session service's rotation.
func (h *Handler) refreshIdentityMiddleware(c *gin.Context) {
	token, err := c.Cookie(h.config.Auth.RefreshCookieName)
	if err != nil || token == "" {
		unauthorizedResponse(c)
		return
	}

	c.Set(refreshTokenCtx, token)
	c.Next()
}

func (h *Handler) contextUser(c *gin.Context) (*domain.User, error) {
	v, ok := c.Get(userCtx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	user, ok := v.(*domain.User)
	if !ok {
		return nil, errors.New("user in context has wrong type")
	}

	return user, nil
}

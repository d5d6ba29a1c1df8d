package v1

import (
	"errors"
	"net/http"

	"github.com/chatterbox/backend/internal/domain"
	"github.com/chatterbox/backend/internal/service"
	"github.com/chatterbox/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) initAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")

	auth.POST("/signup", h.signUp)
	auth.POST("/login", h.signIn)
	auth.POST("/refresh", h.refreshIdentityMiddleware, h.refresh)
	auth.POST("/logout", h.userIdentityMiddleware, h.logout)
	auth.DELETE("/signout", h.userIdentityMiddleware, h.signOut)
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=64"`
	Nickname string `json:"nickname" binding:"required,min=2,max=32,nickname"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type signOutRequest struct {
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	user, err := h.services.Auth.SignUp(c.Request.Context(), service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			errorResponse(c, http.StatusConflict, "email already registered")
			return
		}
		logger.Error("sign up failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	res, err := h.services.Auth.SignIn(c.Request.Context(), service.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	}, h.clientMeta(c))
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			unauthorizedResponse(c)
			return
		}
		logger.Error("sign in failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	h.setAuthCookies(c, res)
	c.JSON(http.StatusCreated, authResponse{Token: res.AccessToken, User: res.User})
}

func (h *Handler) refresh(c *gin.Context) {
	refreshToken := c.GetString(refreshTokenCtx)

	res, err := h.services.Auth.Refresh(c.Request.Context(), refreshToken, h.clientMeta(c))
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			h.clearAuthCookies(c)
			unauthorizedResponse(c)
			return
		}
		logger.Error("refresh failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	h.setAuthCookies(c, res)
	c.JSON(http.StatusCreated, authResponse{Token: res.AccessToken, User: res.User})
}

func (h *Handler) logout(c *gin.Context) {
	accessToken := c.GetString(accessTokenCtx)
	// The refresh cookie may be absent; logout still succeeds.
	refreshToken, _ := c.Cookie(h.config.Auth.RefreshCookieName)

	if err := h.services.Auth.Logout(c.Request.Context(), accessToken, refreshToken); err != nil {
		logger.Error("logout failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *Handler) signOut(c *gin.Context) {
	var req signOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	user, err := h.contextUser(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	if err := h.services.Auth.DeleteAccount(c.Request.Context(), user.ID, req.Password); err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			unauthorizedResponse(c)
			return
		}
		logger.Error("delete account failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	// The current access token dies with the account.
	accessToken := c.GetString(accessTokenCtx)
	refreshToken, _ := c.Cookie(h.config.Auth.RefreshCookieName)
	if err := h.services.Auth.Logout(c.Request.Context(), accessToken, refreshToken); err != nil {
		logger.Error("post-deletion logout failed", zap.Error(err))
	}

	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, messageResponse{Message: "account deleted"})
}

func (h *Handler) clientMeta(c *gin.Context) service.ClientMeta {
	return service.ClientMeta{
		UserAgent: c.Request.UserAgent(),
		IP:        c.ClientIP(),
	}
}

func (h *Handler) setAuthCookies(c *gin.Context, res *service.AuthResult) {
	cfg := h.config.Auth

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cfg.AccessCookieName, res.AccessToken,
		int(res.AccessTTL.Seconds()), "/", cfg.CookieDomain, cfg.CookieSecure, true)
	c.SetCookie(cfg.RefreshCookieName, res.RefreshToken.String(),
		int(res.RefreshTTL.Seconds()), "/", cfg.CookieDomain, cfg.CookieSecure, true)
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	cfg := h.config.Auth

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cfg.AccessCookieName, "", -1, "/", cfg.CookieDomain, cfg.CookieSecure, true)
	c.SetCookie(cfg.RefreshCookieName, "", -1, "/", cfg.CookieDomain, cfg.CookieSecure, true)
}

package apiHttp

import (
	"time"

	ginzap "github.com/gin-contrib/zap"

	"github.com/chatterbox/backend/pkg/limiter"
	"github.com/chatterbox/backend/pkg/logger"
	"github.com/chatterbox/backend/pkg/validator"

	internalV1 "github.com/chatterbox/backend/internal/api/http/internal/v1"
	"github.com/chatterbox/backend/internal/api/ws"
	"github.com/chatterbox/backend/internal/config"
	"github.com/chatterbox/backend/internal/guard"
	"github.com/chatterbox/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	services *service.Services
	guard    *guard.Guard
	hub      *ws.Hub
	config   *config.Config
}

func NewHandlers(
	services *service.Services,
	requestGuard *guard.Guard,
	hub *ws.Hub,
	cfg *config.Config,
) *Handler {
	return &Handler{
		services: services,
		guard:    requestGuard,
		hub:      hub,
		config:   cfg,
	}
}

func (h *Handler) Init(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	validator.RegisterGinValidator()

	router.Use(
		ginzap.Ginzap(logger.Logger(), time.RFC3339, true),
		limiter.Limit(cfg.Limiter.RPS, cfg.Limiter.Burst, cfg.Limiter.TTL),
		// TODO: Get from config
		corsMiddleware([]string{"http://localhost:3000", "https://localhost:3000"}),
	)
	router.Use(ginzap.RecoveryWithZap(logger.Logger(), true))

	h.initAPI(router)

	return router
}

func (h *Handler) initAPI(router *gin.Engine) {
	internalHandlersV1 := internalV1.NewHandler(h.services, h.guard, h.hub, h.config)
	api := router.Group("/api")
	internalHandlersV1.Init(api)
}

package v1

import (
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

func NewHandler(
	services *service.Services,
	requestGuard *guard.Guard,
	hub *ws.Hub,
	config *config.Config,
) *Handler {
	return &Handler{
		services: services,
		guard:    requestGuard,
		hub:      hub,
		config:   config,
	}
}

func (h *Handler) Init(api *gin.RouterGroup) {
	v1 := api.Group("v1")

	h.initAuthRoutes(v1)
	h.initUsersRoutes(v1)
	h.initWSRoutes(v1)
}

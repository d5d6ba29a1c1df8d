package v1

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) initWSRoutes(api *gin.RouterGroup) {
	api.GET("/ws", h.connect)
}

// connect authenticates the handshake with the shared guard and hands the
// request to the hub for the upgrade. A caller that fails authentication is
// rejected before any protocol exchange.
func (h *Handler) connect(c *gin.Context) {
	h.hub.ServeHandshake(c.Writer, c.Request)
}

package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) initUsersRoutes(api *gin.RouterGroup) {
	users := api.Group("/users", h.userIdentityMiddleware)

	users.GET("/me", h.me)
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.contextUser(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	c.JSON(http.StatusOK, user)
}

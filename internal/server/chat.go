package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Chat Widget
// @Description  Chat widget bootstrap configuration for the front-end
// @Tags         chat
// @Produce      json
// @Success      200  {object}  chat.Widget
// @Router       /chat/widget [get]
func (s *Server) ChatWidget(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.widget})
}

package handler

import (
	"net/http"
	"strings"

	"github.com/galleryhub/display-relay/internal/dto"
	"github.com/gin-gonic/gin"
)

// relayedChannelMiddleware answers 404 for channels the bot never stores,
// before the query reaches postgres.
func (h *Handler) relayedChannelMiddleware(c *gin.Context) {
	channel := strings.TrimSpace(c.Query("channel"))
	if channel == "" {
		c.Next()
		return
	}

	if _, ok := h.channels[channel]; !ok {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, errChannelNotRelayed.Error()))
		c.Abort()
		return
	}

	c.Next()
}

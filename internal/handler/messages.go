package handler

import (
	"net/http"
	"strings"

	"github.com/galleryhub/display-relay/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) messagesGet(c *gin.Context) {
	var input dto.GetMessagesRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	messages, err := h.services.Message.FindByChannel(c.Request.Context(), input.Channel, input.Limit, input.Offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *Handler) messagesGetByID(c *gin.Context) {
	messageID := strings.TrimSpace(c.Param("messageID"))

	message, err := h.services.Message.FindByExternalID(c.Request.Context(), messageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
		return
	}
	if message == nil {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, errMessageNotFound.Error()))
		return
	}

	c.JSON(http.StatusOK, message)
}

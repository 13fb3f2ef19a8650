package handler

import (
	"net/http"
	"strings"

	"github.com/galleryhub/display-relay/internal/dto"
	"github.com/galleryhub/display-relay/internal/service"
	"github.com/galleryhub/display-relay/pkg/utils"
	"github.com/gin-gonic/gin"
)

func (h *Handler) settingsGet(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userID"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return
	}

	settings, err := h.services.Profile.Get(c.Request.Context(), userID)
	if err != nil {
		h.logger.Sugar().Errorf("failed to get display settings of user(%s): %s", userID, err.Error())
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, service.ErrInternal.Error()))
		return
	}
	if settings == nil {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, errSettingsNotFound.Error()))
		return
	}

	if settings.UserURL != nil {
		userURL := utils.UnescapeURL(*settings.UserURL)
		settings.UserURL = &userURL
	}

	c.JSON(http.StatusOK, settings)
}

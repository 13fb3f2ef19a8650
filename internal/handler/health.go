package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) healthz(c *gin.Context) {
	status := http.StatusOK
	checks := make(map[string]string)

	for store, err := range h.services.Health.Check(c.Request.Context()) {
		if err != nil {
			h.logger.Sugar().Errorf("health check of %s failed: %s", store, err.Error())
			checks[store] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[store] = "ok"
	}

	c.JSON(status, gin.H{"ok": status == http.StatusOK, "checks": checks})
}

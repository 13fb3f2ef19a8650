package handler

import (
	"github.com/galleryhub/display-relay/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Handler struct {
	logger   *zap.Logger
	services *service.Service
	channels map[string]struct{}
}

func New(logger *zap.Logger, services *service.Service, channels []string) *Handler {
	allowed := make(map[string]struct{}, len(channels))
	for _, channel := range channels {
		allowed[channel] = struct{}{}
	}

	return &Handler{
		logger:   logger,
		services: services,
		channels: allowed,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(h.metricsMiddleware)
	r.Use(cors.New(corsConfig(viper.GetString("client.origin"))))

	r.GET("/healthz", h.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		messages := v1.Group("/messages")
		{
			messages.GET("", h.relayedChannelMiddleware, h.messagesGet)
			messages.GET("/:messageID", h.messagesGetByID)
		}

		users := v1.Group("/users")
		{
			users.GET("/:userID/settings", h.settingsGet)
		}
	}

	return r
}

// corsConfig allows every origin when none or "*" is configured.
func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET"},
	}
	if origin == "" || origin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{origin}
	}
	return cfg
}

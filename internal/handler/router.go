package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sman1la/tatib-bot/pkg/logger"
	"github.com/sman1la/tatib-bot/pkg/middleware/requestid"
)

// NewRouter wires the HTTP surface: health, metrics and evidence links.
func NewRouter(log *zap.Logger, evidence *EvidenceHandler, registry *prometheus.Registry) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.Middleware())
	router.Use(logger.GinMiddleware(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	router.GET("/evidence/:token", evidence.Serve)

	return router
}

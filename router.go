package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/zeroshade/marinaapi/internal/logging"
	"github.com/zeroshade/marinaapi/internal/metrics"
	"github.com/zeroshade/marinaapi/internal/store"
	"go.uber.org/zap"
)

type routerOptions struct {
	cascadeBoatDelete bool
}

func newRouter(repo store.Repository, logger *zap.Logger, m *metrics.Metrics, opts routerOptions) *gin.Engine {
	config := cors.DefaultConfig()
	config.AllowHeaders = append(config.AllowHeaders, logging.RequestIDHeader)
	config.ExposeHeaders = append(config.ExposeHeaders, logging.RequestIDHeader)
	config.AllowOrigins = []string{"*"}

	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(cors.New(config))
	router.Use(logging.RequestID(logger))
	router.Use(m.Middleware())

	router.GET("/healthz", healthCheck(repo))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	addBoatRoutes(router, repo, opts.cascadeBoatDelete)
	addSlipRoutes(router, repo, m)
	return router
}

func healthCheck(repo store.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repo.Ping(c.Request.Context()); err != nil {
			logging.FromContext(c).Warn("store ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

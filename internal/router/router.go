package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/storefront/config"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/apierror"
	v1 "github.com/dmehra2102/prod-golang-projects/storefront/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
)

const healthTimeout = 2 * time.Second

type Deps struct {
	Config        *config.Config
	Log           *zap.Logger
	Metrics       *metrics.Collector
	Authenticator *auth.Authenticator
	Builder       *apierror.Builder
	Services      v1.Services
	// Ping reports storage health for /healthz. Nil means always healthy.
	Ping func(ctx context.Context) error
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		middleware.RequestIDs(),
		middleware.Recovery(d.Log, d.Builder),
	)
	if d.Config.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}
	if d.Config.Metrics.Enabled {
		r.Use(middleware.Metrics(d.Metrics))
	}
	r.Use(middleware.Logger(d.Log))
	if d.Config.RateLimit.Enabled {
		r.Use(middleware.RateLimit(d.Config.RateLimit, d.Builder, d.Metrics))
	}

	r.NoRoute(func(c *gin.Context) {
		d.Builder.Build("Endpoint not found", http.StatusNotFound,
			apierror.WithCode("NOT_FOUND"),
			apierror.WithHint("Check the URL; all resources live under /api/v1"),
		).Respond(c)
	})
	r.NoMethod(func(c *gin.Context) {
		d.Builder.Build("Method not allowed", http.StatusMethodNotAllowed,
			apierror.WithCode("METHOD_NOT_ALLOWED"),
		).Respond(c)
	})

	r.GET("/healthz", health(d))
	if d.Config.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	h := v1.New(d.Services, d.Builder, d.Log, d.Metrics, d.Config.Server.MaxBodyBytes)
	h.Register(r.Group("/api/v1"), middleware.RequireAuth(d.Authenticator, d.Builder, d.Metrics))

	return r
}

func health(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{"status": "ok", "version": d.Config.App.Version}
		if d.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := d.Ping(ctx); err != nil {
				d.Log.Warn("health check failed", zap.Error(err))
				status["status"] = "degraded"
				status["database"] = "unreachable"
				c.JSON(http.StatusServiceUnavailable, status)
				return
			}
			status["database"] = "ok"
		}
		c.JSON(http.StatusOK, status)
	}
}

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"store-rating/internal/core/auth"
	"store-rating/internal/core/config"
	"store-rating/internal/core/server"
	"store-rating/internal/service"
	"store-rating/internal/transport/http/handler"
	mdw "store-rating/internal/transport/http/middleware"
)

type Deps struct {
	Log      *zap.Logger
	Services *service.Services
	JWT      *auth.JWTer
	Limits   config.Limits
}

// NewRegistry registers every feature handler.
func NewRegistry(d Deps) *Registry {
	l := d.Log.Named("http")
	r := &Registry{}
	r.Register(
		handler.NewRoleHandler(d.Services.Roles, l),
		handler.NewUserHandler(d.Services.Users, l),
		handler.NewStoreHandler(d.Services.Stores, l),
		handler.NewRatingHandler(d.Services.Ratings, l),
	)
	return r
}

// base builds the engine shared by both binaries: protective middleware,
// access log, /health and /metrics.
func base(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log)
	lim := d.Limits.WithDefaults()
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.ConcurrencyLimit(lim.Concurrency),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(time.Duration(lim.TimeoutSec)*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(d.Log.Named("access")),
	)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := base(d)

	lim := d.Limits.WithDefaults()
	api := r.Group("/api/v1")
	api.Use(
		mdw.RateLimitPerIP(rate.Limit(lim.RPS/10), max(lim.Burst/10, 1), 10*time.Minute),
		mdw.AuthJWT(d.JWT, d.Services.Roles, d.Log),
	)
	NewRegistry(d).MountAllAPI(api)
	return r
}

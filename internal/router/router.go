package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/upkeephq/upkeep-api/internal/config"
	healthHandler "github.com/upkeephq/upkeep-api/internal/handler/health"
	notificationHandler "github.com/upkeephq/upkeep-api/internal/handler/notification"
	prometheusHandler "github.com/upkeephq/upkeep-api/internal/handler/prometheus"
	subscriptionHandler "github.com/upkeephq/upkeep-api/internal/handler/subscription"
	"github.com/upkeephq/upkeep-api/internal/middleware"
)

// Handler registers its routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine        *gin.Engine
	cfg           *config.Config
	notificationH *notificationHandler.Handler
	subscriptionH *subscriptionHandler.Handler
	healthH       *healthHandler.Handler
	prometheusH   *prometheusHandler.Handler
}

func NewRouter(
	cfg *config.Config,
	notificationH *notificationHandler.Handler,
	subscriptionH *subscriptionHandler.Handler,
	healthH *healthHandler.Handler,
	prometheusH *prometheusHandler.Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	return &Router{
		engine:        gin.New(),
		cfg:           cfg,
		notificationH: notificationH,
		subscriptionH: subscriptionH,
		healthH:       healthH,
		prometheusH:   prometheusH,
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) Setup() {
	corsConfig := middleware.DefaultCORSConfig()
	if len(r.cfg.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = r.cfg.Server.AllowedOrigins
	}

	r.engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		middleware.CORS(corsConfig),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
	)

	api := r.engine.Group("/api/v1")
	api.Use(
		middleware.SizeLimit(middleware.DefaultSizeLimitConfig()),
		middleware.Timeout(middleware.DefaultTimeoutConfig()),
	)

	if r.cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(r.cfg.RateLimit.RequestsPerSecond),
			Burst: r.cfg.RateLimit.Burst,
		})
		api.Use(limiter.RateLimit())
	}

	r.notificationH.RegisterRoutes(api)
	r.subscriptionH.RegisterRoutes(api)

	r.healthH.RegisterRoutes(&r.engine.RouterGroup)
	r.engine.GET("/metrics", r.prometheusH.Handler())
}

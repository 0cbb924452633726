package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/settlement-api/internal/handler"
	"github.com/noah-isme/settlement-api/internal/middleware"
	"github.com/noah-isme/settlement-api/internal/service"
	"github.com/noah-isme/settlement-api/pkg/config"
	appErrors "github.com/noah-isme/settlement-api/pkg/errors"
	"github.com/noah-isme/settlement-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/settlement-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/settlement-api/pkg/middleware/requestid"
	"github.com/noah-isme/settlement-api/pkg/response"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Requests    *handler.RequestHandler
	Settlements *handler.SettlementHandler
	Metrics     *handler.MetricsHandler
}

// New builds the gin engine with the ambient middleware chain and every route.
// Business routes live under cfg.APIPrefix; health, readiness, metrics and docs stay at the root.
func New(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	// Request bodies must only carry documented fields.
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	requests := api.Group("/requests")
	{
		requests.POST("", h.Requests.Create)
		requests.GET("", h.Requests.List)
		requests.GET("/user/:userId", h.Requests.ListForUser)
		requests.GET("/:requestId", h.Requests.Get)
		requests.PATCH("/update/status/:requestId", h.Requests.UpdateStatus)
		requests.PATCH("/update/:requestId", h.Requests.Update)
	}

	settlements := api.Group("/settlement")
	{
		settlements.POST("", h.Settlements.Create)
		settlements.GET("", h.Settlements.List)
		settlements.GET("/user/:userId", h.Settlements.ListForUser)
		settlements.GET("/:requestId", h.Settlements.GetByRequestID)
		settlements.PATCH("/:requestId", h.Settlements.UpdateByRequestID)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	return r
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bizops-backend/internal/analysis"
	"bizops-backend/internal/insights"
	"bizops-backend/internal/services/health"
	"bizops-backend/internal/shared/config"
	"bizops-backend/internal/shared/metrics"
	"bizops-backend/internal/shared/server/middleware"
	"bizops-backend/internal/shared/server/respond"
)

const rateLimitGroupAI = "AI"

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analysis.Handler
	InsightsHandler *insights.Handler
	Health          *health.Service
	Limiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil, deps.Config.LLMProvider)
	}
	healthHandler := func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	}
	r.GET("/health", healthHandler)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler)

	// Model-backed POST routes share one bucket per client; reads are unlimited.
	limit := middleware.RateLimit(middleware.RateLimitConfig{
		Limiter: deps.Limiter,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost {
				return rateLimitGroupAI
			}
			return ""
		},
		Rules: map[string]middleware.RateLimitRule{
			rateLimitGroupAI: {Rate: deps.Config.RateLimitRPS, Burst: deps.Config.RateLimitBurst},
		},
	})

	ai := api.Group("/ai", limit)
	marketing := api.Group("/marketing", limit)
	finance := api.Group("/finance", limit)
	hr := api.Group("/hr", limit)

	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(ai)
		deps.AnalysisHandler.RegisterMarketingRoutes(marketing)
		deps.AnalysisHandler.RegisterFinanceRoutes(finance)
		deps.AnalysisHandler.RegisterHRRoutes(hr)
	}
	if deps.InsightsHandler != nil {
		deps.InsightsHandler.RegisterRoutes(ai)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

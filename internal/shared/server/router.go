package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"credit-backend/internal/applications"
	"credit-backend/internal/assessments"
	"credit-backend/internal/shared/config"
	"credit-backend/internal/shared/metrics"
	"credit-backend/internal/shared/server/middleware"
	"credit-backend/internal/shared/server/respond"
)

const reportsRateGroup = "REPORTS"

// HealthCheck pings one dependency for /healthz.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type RouterDeps struct {
	Config             config.Config
	ApplicationHandler *applications.Handler
	AssessmentHandler  *assessments.Handler
	HealthChecks       []HealthCheck
	Limiter            *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identity(),
	)

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{"message": "Test Routes"})
	})
	r.GET("/healthz", healthHandler(deps.HealthChecks))
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/cred")
	limit := reportsRateLimit(deps)
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterRoutes(api, limit)
	}
	if deps.AssessmentHandler != nil {
		deps.AssessmentHandler.RegisterRoutes(api, limit)
	}

	return r
}

// reportsRateLimit throttles lookups and application creates, which may call
// the bureau source and the model, to the configured requests per minute.
func reportsRateLimit(deps RouterDeps) gin.HandlerFunc {
	perMinute := deps.Config.ReportRateLimitPerMinute
	rules := map[string]middleware.RateLimitRule{}
	if perMinute > 0 {
		rules[reportsRateGroup] = middleware.RateLimitRule{
			Rate:  float64(perMinute) / 60.0,
			Burst: perMinute,
		}
	}
	return middleware.RateLimit(middleware.RateLimitConfig{
		Rules:        rules,
		DefaultGroup: reportsRateGroup,
		Limiter:      deps.Limiter,
	})
}

func healthHandler(checks []HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		ok := true
		results := make(map[string]string, len(checks))
		for _, check := range checks {
			if check.Ping == nil {
				continue
			}
			if err := check.Ping(ctx); err != nil {
				ok = false
				results[check.Name] = err.Error()
				continue
			}
			results[check.Name] = "ok"
		}
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, gin.H{"ok": ok, "checks": results})
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5050"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

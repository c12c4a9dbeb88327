package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bizops-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	AnalysisKindKey    = "analysisKind"
	AnalysisOutcomeKey = "analysisOutcome"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if kind := c.GetString(AnalysisKindKey); kind != "" {
			fields["analysis_kind"] = kind
			fields["analysis_outcome"] = c.GetString(AnalysisOutcomeKey)
		}
		telemetry.Info("request.complete", fields)
	}
}

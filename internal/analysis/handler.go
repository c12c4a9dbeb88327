package analysis

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bizops-backend/internal/shared/metrics"
	"bizops-backend/internal/shared/server/middleware"
	"bizops-backend/internal/shared/server/respond"
	"bizops-backend/internal/shared/telemetry"
	"bizops-backend/internal/shared/util"
)

// Recorder persists finished analyses. Failures are logged and never reach the caller.
type Recorder interface {
	Record(ctx context.Context, kind, subject, outcome string, result any) error
}

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc      *Service
	Recorder Recorder
	Timeout  time.Duration
}

// NewHandler constructs a Handler. recorder may be nil.
func NewHandler(svc *Service, recorder Recorder, timeout time.Duration) *Handler {
	return &Handler{Svc: svc, Recorder: recorder, Timeout: timeout}
}

// RegisterRoutes attaches the AI analysis routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze-client-input", handle(h, KindClientInput, h.Svc.AnalyzeClientInput))
	rg.POST("/analyze-platform-messages", handle(h, KindPlatformMessages, h.Svc.AnalyzePlatformMessages))
	rg.POST("/generate-suggested-tasks", handle(h, KindClientInput, h.Svc.SuggestTasks))
	rg.POST("/predict-task-timeline", handle(h, KindTaskTimeline, h.Svc.PredictTaskTimeline))
	rg.POST("/analyze-meeting-transcript", handle(h, KindMeetingTranscript, h.Svc.AnalyzeMeetingTranscript))
	rg.POST("/generate-marketing-insights", handle(h, KindMarketingInsights, h.Svc.GenerateMarketingInsights))
	rg.POST("/analyze-financial-data", handle(h, KindFinancialData, h.Svc.AnalyzeFinancialData))
	rg.POST("/generate-performance-insights", handle(h, KindEmployeePerformance, h.Svc.GeneratePerformanceInsights))
}

// RegisterMarketingRoutes attaches the marketing routes.
func (h *Handler) RegisterMarketingRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-email-copy", handle(h, KindEmailCopy, h.Svc.GenerateEmailCopy))
	rg.POST("/analyze-market-trends", handle(h, KindMarketTrends, h.Svc.AnalyzeMarketTrends))
}

// RegisterHRRoutes attaches the HR routes.
func (h *Handler) RegisterHRRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume-analysis", handle(h, KindResumeScreening, h.Svc.ScreenResume))
}

// RegisterFinanceRoutes attaches the finance routes.
func (h *Handler) RegisterFinanceRoutes(rg *gin.RouterGroup) {
	rg.POST("/cost-analysis", handle(h, KindCost, h.Svc.AnalyzeCosts))
}

type subjecter interface {
	Subject() string
}

func handle[Req, Res any](h *Handler, kind Kind, fn func(context.Context, Req) (Res, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.AnalysisKindKey, string(kind))
		var req Req
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", []map[string]string{
				{"field": "body", "issue": util.SanitizeError(err)},
			})
			return
		}

		ctx := c.Request.Context()
		if h.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.Timeout)
			defer cancel()
		}
		ctx, obs := Observe(ctx)

		res, err := fn(ctx, req)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				msg := strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
				respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, msg, nil)
				return
			}
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "analysis failed", nil)
			return
		}

		// Dispatching handlers report the kind that actually ran.
		ran := kind
		if obs.Kind != "" {
			ran = obs.Kind
		}
		c.Set(middleware.AnalysisKindKey, string(ran))
		c.Set(middleware.AnalysisOutcomeKey, obs.Outcome)
		var subject string
		if s, ok := any(req).(subjecter); ok {
			subject = strings.TrimSpace(s.Subject())
		}
		h.record(c.Request.Context(), ran, subject, obs.Outcome, res)
		respond.OK(c, res)
	}
}

func (h *Handler) record(ctx context.Context, kind Kind, subject, outcome string, result any) {
	if h.Recorder == nil {
		return
	}
	if err := h.Recorder.Record(ctx, string(kind), subject, outcome, result); err != nil {
		metrics.IncInsightStoreFailed()
		telemetry.Warn("insight.record_failed", map[string]any{
			"kind":  string(kind),
			"error": util.SanitizeError(err),
		})
	}
}

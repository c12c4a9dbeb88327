package analysis

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bizops-backend/internal/analysis/stats"
	"bizops-backend/internal/llm"
	"bizops-backend/internal/sentiment"
	"bizops-backend/internal/shared/metrics"
	"bizops-backend/internal/shared/telemetry"
	"bizops-backend/internal/shared/util"
)

var tracer = otel.Tracer("analysis-service")

const (
	outcomeOK       = "ok"
	outcomeDegraded = "degraded"
	outcomeFault    = "fault"

	reasonDecode = "decode_failed"
)

// Options tunes a Service.
type Options struct {
	HourlyRate float64
	Now        func() time.Time
}

// Service runs the analysis use cases. It holds no per-call state and is safe
// for concurrent use.
type Service struct {
	completer  llm.Completer
	scorer     *sentiment.Scorer
	hourlyRate float64
	now        func() time.Time
}

// NewService constructs a Service. A nil completer behaves like llm.Disabled
// and a nil scorer is replaced by the default lexicon scorer.
func NewService(completer llm.Completer, scorer *sentiment.Scorer, opts Options) *Service {
	if completer == nil {
		completer = llm.Disabled{}
	}
	if scorer == nil {
		scorer = sentiment.New()
	}
	if opts.HourlyRate <= 0 {
		opts.HourlyRate = stats.DefaultHourlyRate
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		completer:  completer,
		scorer:     scorer,
		hourlyRate: opts.HourlyRate,
		now:        opts.Now,
	}
}

// call records what happened during one orchestrator invocation.
type call struct {
	svc        *Service
	kind       Kind
	promptHash string
	reason     string
	err        error
}

func (c *call) degrade(reason string, err error) {
	if reason == "" {
		reason = string(llm.ReasonUnknown)
	}
	c.reason = reason
	c.err = err
}

// complete renders, sends and decodes one prompt. A failed completion or
// decode yields a Payload whose accessors all return their defaults.
func (c *call) complete(ctx context.Context, spec PromptSpec, err error) llm.Payload {
	if err != nil {
		c.degrade(string(llm.ReasonUnknown), err)
		return llm.Payload{Err: err}
	}
	c.promptHash = spec.Hash()
	res := c.svc.completer.Complete(ctx, spec.Instruction, spec.RoleInstruction)
	if !res.OK {
		c.degrade(string(res.Reason), res.Err)
		return llm.Payload{Err: res.Err}
	}
	p := llm.Extract(res.Text)
	if !p.OK {
		c.degrade(reasonDecode, p.Err)
	}
	return p
}

// text is complete without JSON decoding.
func (c *call) text(ctx context.Context, spec PromptSpec, err error) (string, bool) {
	if err != nil {
		c.degrade(string(llm.ReasonUnknown), err)
		return "", false
	}
	c.promptHash = spec.Hash()
	res := c.svc.completer.Complete(llm.WithPlainText(ctx), spec.Instruction, spec.RoleInstruction)
	if !res.OK {
		c.degrade(string(res.Reason), res.Err)
		return "", false
	}
	return res.Text, true
}

// run executes fn for kind. A panic inside fn is logged and replaced by the
// kind's fallback result.
func run[T any](ctx context.Context, s *Service, kind Kind, fallback func() T, fn func(ctx context.Context, c *call) T) (result T) {
	ctx, span := tracer.Start(ctx, "analysis."+string(kind),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("analysis.kind", string(kind))),
	)
	defer span.End()

	c := &call{svc: s, kind: kind}
	start := time.Now()
	defer func() {
		outcome := outcomeOK
		if rec := recover(); rec != nil {
			outcome = outcomeFault
			result = fallback()
			c.degrade(outcomeFault, fmt.Errorf("analysis panic: %v", rec))
			telemetry.Error("analysis.panic", map[string]any{
				"kind":  string(kind),
				"error": fmt.Sprint(rec),
				"stack": string(debug.Stack()),
			})
		} else if c.reason != "" {
			outcome = outcomeDegraded
		}

		elapsed := time.Since(start)
		metrics.IncAnalysis(string(kind), outcome)
		metrics.ObserveAnalysisDuration(elapsed)
		span.SetAttributes(attribute.String("analysis.outcome", outcome))
		if obs := observationFrom(ctx); obs != nil {
			obs.Kind, obs.Outcome, obs.Reason, obs.PromptHash = kind, outcome, c.reason, c.promptHash
		}

		fields := map[string]any{
			"kind":        string(kind),
			"outcome":     outcome,
			"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
		}
		if c.promptHash != "" {
			fields["prompt_hash"] = c.promptHash
		}
		if sc := span.SpanContext(); sc.IsValid() {
			fields["trace_id"] = sc.TraceID().String()
		}
		if outcome != outcomeOK {
			span.SetStatus(codes.Error, c.reason)
			if c.err != nil {
				span.RecordError(c.err)
			}
			fields["reason"] = c.reason
			fields["error"] = util.SanitizeError(c.err)
			telemetry.Warn("analysis.complete", fields)
			return
		}
		telemetry.Info("analysis.complete", fields)
	}()

	return fn(ctx, c)
}

func (s *Service) reject(kind Kind, err error) error {
	metrics.IncAnalysisRejected()
	telemetry.Info("analysis.rejected", map[string]any{
		"kind":  string(kind),
		"error": err.Error(),
	})
	return err
}

// IsInvalidInput reports whether err is a validation failure.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

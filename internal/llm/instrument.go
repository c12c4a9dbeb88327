package llm

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"bizops-backend/internal/shared/metrics"
	"bizops-backend/internal/shared/telemetry"
	"bizops-backend/internal/shared/util"
)

var tracer = otel.Tracer("llm-completer")

// Instrumented wraps a Completer with tracing, metrics and failure logging.
// A panic inside the wrapped Completer is reported as ReasonUnknown.
type Instrumented struct {
	Next     Completer
	Provider string
	Model    string
}

// Complete delegates to Next.
func (i Instrumented) Complete(ctx context.Context, prompt, roleInstruction string) (out Completion) {
	ctx, span := tracer.Start(ctx, "llm.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", i.Provider),
		attribute.String("llm.model", i.Model),
		attribute.String("llm.prompt_hash", util.HashPrompt(prompt)),
	)

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("llm.panic", map[string]any{
				"provider": i.Provider,
				"error":    fmt.Sprint(rec),
				"stack":    string(debug.Stack()),
			})
			out = Failed(ReasonUnknown, fmt.Errorf("completer panic: %v", rec))
		}
		elapsed := time.Since(start)
		metrics.ObserveCompletionDuration(elapsed)
		result := "ok"
		if !out.OK {
			result = string(out.Reason)
			span.RecordError(out.Err)
			span.SetStatus(codes.Error, result)
			telemetry.Warn("llm.complete_failed", map[string]any{
				"provider":    i.Provider,
				"model":       i.Model,
				"reason":      result,
				"error":       util.SanitizeError(out.Err),
				"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
			})
		}
		span.SetAttributes(attribute.String("llm.result", result))
		metrics.IncCompletion(i.Provider, result)
	}()

	if i.Next == nil {
		return Failed(ReasonAuth, ErrNotConfigured)
	}
	return i.Next.Complete(ctx, prompt, roleInstruction)
}

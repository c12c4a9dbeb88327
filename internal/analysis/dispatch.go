package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"bizops-backend/internal/llm"
)

// Kinds lists every analysis kind accepted by Run.
func Kinds() []Kind {
	return []Kind{
		KindClientInput,
		KindPlatformMessages,
		KindTaskTimeline,
		KindMeetingTranscript,
		KindMarketingInsights,
		KindFinancialData,
		KindEmployeePerformance,
		KindMarketTrends,
		KindEmailCopy,
		KindCost,
		KindResumeScreening,
	}
}

// Run decodes raw as the request for kind and runs that analysis.
func (s *Service) Run(ctx context.Context, kind Kind, raw []byte) (any, error) {
	switch kind {
	case KindClientInput:
		return decodeAndRun(ctx, kind, raw, s.AnalyzeClientInput)
	case KindPlatformMessages:
		return decodeAndRun(ctx, kind, raw, s.AnalyzePlatformMessages)
	case KindTaskTimeline:
		return decodeAndRun(ctx, kind, raw, s.PredictTaskTimeline)
	case KindMeetingTranscript:
		return decodeAndRun(ctx, kind, raw, s.AnalyzeMeetingTranscript)
	case KindMarketingInsights:
		return decodeAndRun(ctx, kind, raw, s.GenerateMarketingInsights)
	case KindFinancialData:
		return decodeAndRun(ctx, kind, raw, s.AnalyzeFinancialData)
	case KindEmployeePerformance:
		return decodeAndRun(ctx, kind, raw, s.GeneratePerformanceInsights)
	case KindMarketTrends:
		return decodeAndRun(ctx, kind, raw, s.AnalyzeMarketTrends)
	case KindEmailCopy:
		return decodeAndRun(ctx, kind, raw, s.GenerateEmailCopy)
	case KindCost:
		return decodeAndRun(ctx, kind, raw, s.AnalyzeCosts)
	case KindResumeScreening:
		return decodeAndRun(ctx, kind, raw, s.ScreenResume)
	default:
		return nil, invalid("unknown analysis kind %q", kind)
	}
}

func decodeAndRun[Req, Res any](ctx context.Context, kind Kind, raw []byte, fn func(context.Context, Req) (Res, error)) (any, error) {
	var req Req
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, invalid("decode %s request: %v", kind, err)
	}
	res, err := fn(ctx, req)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Preview renders the prompt that Run would send for raw, without calling a model.
func (s *Service) Preview(ctx context.Context, kind Kind, raw []byte) (PromptSpec, error) {
	rec := &promptRecorder{}
	preview := *s
	preview.completer = rec
	if _, err := preview.Run(ctx, kind, raw); err != nil {
		return PromptSpec{}, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if !rec.called {
		return PromptSpec{}, fmt.Errorf("%s analysis makes no model call", kind)
	}
	return PromptSpec{Kind: kind, Instruction: rec.prompt, RoleInstruction: rec.role}, nil
}

var errPreviewOnly = errors.New("preview only")

type promptRecorder struct {
	mu     sync.Mutex
	called bool
	prompt string
	role   string
}

func (r *promptRecorder) Complete(ctx context.Context, prompt, roleInstruction string) llm.Completion {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.called = true
	r.prompt, r.role = prompt, roleInstruction
	return llm.Failed(llm.ReasonUnknown, errPreviewOnly)
}

package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// Supported providers.
const (
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderDisabled = "disabled"
)

// FailureReason classifies why a completion produced no text.
type FailureReason string

const (
	ReasonNone        FailureReason = ""
	ReasonRateLimited FailureReason = "rate_limited"
	ReasonTimeout     FailureReason = "timeout"
	ReasonAuth        FailureReason = "auth"
	ReasonUnknown     FailureReason = "unknown"
)

// ErrNotConfigured is reported by the disabled completer.
var ErrNotConfigured = errors.New("llm provider not configured")

// Config carries completion client settings.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// Completion is the outcome of one completion call. Failures are values,
// never panics or returned errors.
type Completion struct {
	Text   string
	OK     bool
	Reason FailureReason
	Err    error
}

// Succeeded wraps model text as a successful completion.
func Succeeded(text string) Completion {
	return Completion{Text: text, OK: true}
}

// Failed builds a failed completion.
func Failed(reason FailureReason, err error) Completion {
	if reason == ReasonNone {
		reason = ReasonUnknown
	}
	return Completion{Reason: reason, Err: err}
}

// Completer sends one prompt plus a system role instruction to a text model.
// Implementations make exactly one upstream call and do not retry.
type Completer interface {
	Complete(ctx context.Context, prompt, roleInstruction string) Completion
}

// Disabled is a Completer for deployments without model credentials.
type Disabled struct{}

// Complete always fails with ReasonAuth.
func (Disabled) Complete(ctx context.Context, prompt, roleInstruction string) Completion {
	return Failed(ReasonAuth, ErrNotConfigured)
}

// ClassifyTransportError maps a transport-level error to a FailureReason.
func ClassifyTransportError(err error) FailureReason {
	if err == nil {
		return ReasonNone
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "client.timeout") || strings.Contains(msg, "deadline exceeded") {
		return ReasonTimeout
	}
	return ReasonUnknown
}

// ClassifyStatus maps an upstream HTTP status and error text to a FailureReason.
func ClassifyStatus(status int, body string) FailureReason {
	lower := strings.ToLower(body)
	switch {
	case status == 429 || strings.Contains(lower, "insufficient_quota") || strings.Contains(lower, "resource_exhausted"):
		return ReasonRateLimited
	case status == 401 || status == 403:
		return ReasonAuth
	case status == 408 || status == 504:
		return ReasonTimeout
	default:
		return ReasonUnknown
	}
}

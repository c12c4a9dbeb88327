package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	genai "google.golang.org/genai"

	"bizops-backend/internal/llm"
)

// Client implements llm.Completer on the Gemini API.
type Client struct {
	cli     *genai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a Gemini completer. Without an API key the returned
// client reports every call as an auth failure.
func NewClient(ctx context.Context, cfg llm.Config) (*Client, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("LLM_MODEL is required for Gemini")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := &Client{model: model, timeout: timeout}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return c, nil
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     strings.TrimSpace(cfg.APIKey),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	cli, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	c.cli = cli
	return c, nil
}

// Complete issues one GenerateContent call.
func (c *Client) Complete(ctx context.Context, prompt, roleInstruction string) llm.Completion {
	if c.cli == nil {
		return llm.Failed(llm.ReasonAuth, errors.New("GEMINI_API_KEY is not set"))
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temp := float32(0)
	genCfg := &genai.GenerateContentConfig{Temperature: &temp}
	if !llm.PlainTextFromContext(ctx) {
		genCfg.ResponseMIMEType = "application/json"
	}
	if strings.TrimSpace(roleInstruction) != "" {
		genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: roleInstruction}}}
	}

	resp, err := c.cli.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}},
		genCfg,
	)
	if err != nil {
		return llm.Failed(classifyError(err), fmt.Errorf("gemini generate: %w", err))
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return llm.Failed(llm.ReasonUnknown, errors.New("gemini response missing candidates"))
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return llm.Failed(llm.ReasonUnknown, errors.New("gemini response empty content"))
	}
	return llm.Succeeded(text)
}

// classifyError maps a GenerateContent failure to a FailureReason using the
// status code and canonical status carried by genai.APIError.
func classifyError(err error) llm.FailureReason {
	if reason := llm.ClassifyTransportError(err); reason == llm.ReasonTimeout {
		return reason
	}
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return llm.ReasonUnknown
	}
	switch strings.ToUpper(apiErr.Status) {
	case "UNAUTHENTICATED", "PERMISSION_DENIED":
		return llm.ReasonAuth
	case "RESOURCE_EXHAUSTED":
		return llm.ReasonRateLimited
	case "DEADLINE_EXCEEDED":
		return llm.ReasonTimeout
	}
	// An invalid key is reported as 400 INVALID_ARGUMENT with an ErrorInfo reason.
	for _, d := range apiErr.Details {
		if reason, _ := d["reason"].(string); reason == "API_KEY_INVALID" {
			return llm.ReasonAuth
		}
	}
	return llm.ClassifyStatus(apiErr.Code, apiErr.Message)
}

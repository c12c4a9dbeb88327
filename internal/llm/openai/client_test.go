package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"bizops-backend/internal/llm"
)

func TestIsGPT5(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  bool
	}{
		{name: "gpt5", model: "gpt-5", want: true},
		{name: "gpt5 variant", model: "gpt-5-mini", want: true},
		{name: "gpt5 uppercase", model: " GPT-5o ", want: true},
		{name: "gpt4", model: "gpt-4o", want: false},
		{name: "empty", model: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := isGPT5(tt.model); got != tt.want {
				t.Fatalf("isGPT5(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestNewClientRequiresModel(t *testing.T) {
	if _, err := NewClient(llm.Config{APIKey: "k"}); err == nil {
		t.Fatalf("expected error for empty model")
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(llm.Config{APIKey: "test-key", Model: "gpt-4o", BaseURL: server.URL, Timeout: timeout})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestCompleteSendsRoleInstructionAndJSONMode(t *testing.T) {
	var mu sync.Mutex
	var lastBody map[string]any
	var lastAuth, lastPath string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		lastBody = payload
		lastAuth = r.Header.Get("Authorization")
		lastPath = r.URL.Path
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"a\":1}  "}}],"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`))
	}, time.Second)

	got := client.Complete(context.Background(), "analyze this", "You are a financial analyst.")
	if !got.OK {
		t.Fatalf("expected success, got %s: %v", got.Reason, got.Err)
	}
	if got.Text != `{"a":1}` {
		t.Fatalf("expected trimmed text, got %q", got.Text)
	}

	mu.Lock()
	defer mu.Unlock()
	if lastAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", lastAuth)
	}
	if lastPath != "/chat/completions" {
		t.Fatalf("unexpected path %q", lastPath)
	}
	messages, _ := lastBody["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(messages))
	}
	first, _ := messages[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "You are a financial analyst." {
		t.Fatalf("unexpected system message %v", first)
	}
	format, _ := lastBody["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", lastBody["response_format"])
	}
	if temp, ok := lastBody["temperature"]; !ok || temp != float64(0) {
		t.Fatalf("expected temperature 0, got %v", temp)
	}
}

func TestCompletePlainTextOmitsResponseFormat(t *testing.T) {
	var mu sync.Mutex
	var lastBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		mu.Lock()
		lastBody = payload
		mu.Unlock()
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Subject: Hello"}}]}`))
	}, time.Second)

	got := client.Complete(llm.WithPlainText(context.Background()), "write an email", "")
	if !got.OK || got.Text != "Subject: Hello" {
		t.Fatalf("unexpected completion %+v", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := lastBody["response_format"]; ok {
		t.Fatalf("expected response_format to be omitted")
	}
	if messages, _ := lastBody["messages"].([]any); len(messages) != 1 {
		t.Fatalf("expected only the user message without a role instruction")
	}
}

func TestCompleteClassifiesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   llm.FailureReason
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":{"message":"slow down","type":"requests"}}`, want: llm.ReasonRateLimited},
		{name: "quota", status: http.StatusTooManyRequests, body: `{"error":{"message":"quota","type":"insufficient_quota"}}`, want: llm.ReasonRateLimited},
		{name: "auth", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key","type":"invalid_request_error"}}`, want: llm.ReasonAuth},
		{name: "server error non json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, want: llm.ReasonUnknown},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, want: llm.ReasonUnknown},
		{name: "empty content", status: http.StatusOK, body: `{"choices":[{"message":{"content":"   "}}]}`, want: llm.ReasonUnknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, time.Second)
			got := client.Complete(context.Background(), "p", "r")
			if got.OK {
				t.Fatalf("expected failure")
			}
			if got.Reason != tt.want {
				t.Fatalf("expected reason %s, got %s (%v)", tt.want, got.Reason, got.Err)
			}
			if got.Err == nil {
				t.Fatalf("expected error detail")
			}
		})
	}
}

func TestCompleteTimeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	got := client.Complete(context.Background(), "p", "r")
	if got.OK || got.Reason != llm.ReasonTimeout {
		t.Fatalf("expected timeout, got %+v", got)
	}
}

func TestCompleteMissingKeyMakesNoCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client, err := NewClient(llm.Config{Model: "gpt-4o", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got := client.Complete(context.Background(), "p", "r")
	if got.Reason != llm.ReasonAuth {
		t.Fatalf("expected auth failure, got %s", got.Reason)
	}
	if calls != 0 {
		t.Fatalf("expected no upstream call, got %d", calls)
	}
}

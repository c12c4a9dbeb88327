package bootstrap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bizops-backend/internal/insights"
	"bizops-backend/internal/llm"
	"bizops-backend/internal/shared/config"
	"bizops-backend/internal/shared/telemetry"
)

func TestBuildFallsBackToMemoryInDev(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(io.Discard))
	app, err := Build(context.Background(), config.Config{
		Env:            "dev",
		LLMProvider:    llm.ProviderDisabled,
		RateLimitRPS:   1,
		RateLimitBurst: 5,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	if app.DB != nil {
		t.Fatalf("expected no database")
	}
	if _, ok := app.InsightsRepo.(*insights.MemoryRepo); !ok {
		t.Fatalf("expected memory repo, got %T", app.InsightsRepo)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/analyze-client-input", strings.NewReader(`{"text":"We need this urgently, the site is broken"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"priority_level":"high"`) {
		t.Fatalf("expected locally computed priority, got %s", resp.Body.String())
	}
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	_, err := Build(context.Background(), config.Config{
		Env:         "production",
		LLMProvider: llm.ProviderDisabled,
	})
	if err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}

func TestBuildCompleterRequiresModel(t *testing.T) {
	for _, provider := range []string{llm.ProviderOpenAI, llm.ProviderGemini} {
		_, err := BuildCompleter(context.Background(), config.Config{LLMProvider: provider})
		if err == nil {
			t.Fatalf("%s: expected error without a model", provider)
		}
	}
}

func TestBuildCompleterDisabledFailsWithAuth(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(io.Discard))
	c, err := BuildCompleter(context.Background(), config.Config{LLMProvider: llm.ProviderDisabled})
	if err != nil {
		t.Fatalf("BuildCompleter: %v", err)
	}
	got := c.Complete(context.Background(), "prompt", "role")
	if got.OK || got.Reason != llm.ReasonAuth {
		t.Fatalf("expected auth failure, got %+v", got)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bizops-backend/internal/llm"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"ENV", "LLM_PROVIDER", "LLM_MODEL", "LLM_TIMEOUT", "COST_HOURLY_RATE", "TRACING_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.LLMProvider != llm.ProviderOpenAI || cfg.LLMModel != "gpt-4o" {
		t.Fatalf("unexpected llm defaults: %q %q", cfg.LLMProvider, cfg.LLMModel)
	}
	if cfg.LLMTimeout != 60*time.Second {
		t.Fatalf("expected 60s timeout, got %s", cfg.LLMTimeout)
	}
	if cfg.HourlyRate != 25 {
		t.Fatalf("expected hourly rate 25, got %v", cfg.HourlyRate)
	}
	if cfg.TracingEnabled {
		t.Fatalf("expected tracing disabled by default")
	}
}

func TestLoadReadsDotenvWithoutOverridingEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "LLM_PROVIDER=gemini\nGEMINI_API_KEY=from-file\nLLM_TIMEOUT=15\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	for _, key := range []string{"LLM_PROVIDER", "LLM_MODEL", "LLM_TIMEOUT"} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unsetenv %s: %v", key, err)
		}
	}
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg := Load()
	if cfg.LLMProvider != llm.ProviderGemini {
		t.Fatalf("expected gemini provider from .env, got %q", cfg.LLMProvider)
	}
	if cfg.LLMTimeout != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %s", cfg.LLMTimeout)
	}
	lc := cfg.LLMConfig()
	if lc.APIKey != "from-env" {
		t.Fatalf("expected process env to win, got %q", lc.APIKey)
	}
	if lc.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected gemini default model %q", lc.Model)
	}
}

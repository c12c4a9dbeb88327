package insights

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"bizops-backend/internal/shared/telemetry"
)

func setupInsightsRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Cleanup(telemetry.SetOutput(io.Discard))
	svc := NewService(NewMemoryRepo())
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1/ai"))
	return r, svc
}

func TestGetInsightHandler(t *testing.T) {
	r, svc := setupInsightsRouter(t)
	if err := svc.Record(context.Background(), "market_trends", "retail", "ok", map[string]any{"emerging_trends": []string{"x"}}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	items, _ := svc.List(context.Background(), "", 1, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ai/insights/"+items[0].ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var got Insight
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Kind != "market_trends" || got.Subject != "retail" {
		t.Fatalf("unexpected insight: %+v", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ai/insights/missing", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestListInsightsHandler(t *testing.T) {
	r, svc := setupInsightsRouter(t)
	for _, kind := range []string{"cost", "email_copy", "cost"} {
		if err := svc.Record(context.Background(), kind, "", "ok", map[string]any{}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ai/insights?kind=cost", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body struct {
		Items []Insight `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Items) != 2 {
		t.Fatalf("expected 2 cost insights, got %d", len(body.Items))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ai/insights?limit=abc", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

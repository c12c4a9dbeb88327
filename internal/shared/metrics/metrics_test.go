package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var buf bytes.Buffer
	writeHistogram(&buf, "x", "test", h.Snapshot())
	out := buf.String()
	for _, want := range []string{`x_bucket{le="10"} 1`, `x_bucket{le="100"} 2`, `x_bucket{le="+Inf"} 3`, "x_sum 555", "x_count 3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderIncludesLabeledCounters(t *testing.T) {
	IncAnalysis("task_timeline", "degraded")
	IncCompletion("openai", "timeout")
	ObserveCompletionDuration(1500 * time.Millisecond)

	out := Render()
	if !strings.Contains(out, `analysis_total{kind="task_timeline",outcome="degraded"}`) {
		t.Fatalf("missing labeled analysis counter:\n%s", out)
	}
	if !strings.Contains(out, `llm_completion_total{provider="openai",result="timeout"}`) {
		t.Fatalf("missing completion counter:\n%s", out)
	}
}

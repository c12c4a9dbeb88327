package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	analysisRejectedTotal atomic.Uint64
	insightStoreFailed    atomic.Uint64

	analysisOutcomes   = newLabeledCounter()
	completionOutcomes = newLabeledCounter()

	analysisDuration   = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
	completionDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncAnalysis counts one finished analysis of kind with the given outcome (ok, degraded, fault).
func IncAnalysis(kind, outcome string) {
	analysisOutcomes.Inc(kind, outcome)
}

// IncAnalysisRejected counts an analysis rejected by input validation.
func IncAnalysisRejected() {
	analysisRejectedTotal.Add(1)
}

// IncCompletion counts one completion call for provider; reason is "ok" on success.
func IncCompletion(provider, reason string) {
	completionOutcomes.Inc(provider, reason)
}

// IncInsightStoreFailed counts a failed best-effort insight write.
func IncInsightStoreFailed() {
	insightStoreFailed.Add(1)
}

// ObserveAnalysisDuration records an orchestrator call duration.
func ObserveAnalysisDuration(d time.Duration) {
	analysisDuration.Observe(millis(d))
}

// ObserveCompletionDuration records a completion client call duration.
func ObserveCompletionDuration(d time.Duration) {
	completionDuration.Observe(millis(d))
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeLabeledCounter(&buf, "analysis_total", "Analyses finished by kind and outcome", "kind", "outcome", analysisOutcomes.Snapshot())
	writeCounter(&buf, "analysis_rejected_total", "Analyses rejected by input validation", analysisRejectedTotal.Load())
	writeLabeledCounter(&buf, "llm_completion_total", "Completion calls by provider and result", "provider", "result", completionOutcomes.Snapshot())
	writeCounter(&buf, "insight_store_failed_total", "Insight writes that failed", insightStoreFailed.Load())
	writeHistogram(&buf, "analysis_duration_ms", "Analysis duration in milliseconds", analysisDuration.Snapshot())
	writeHistogram(&buf, "llm_completion_duration_ms", "Completion call duration in milliseconds", completionDuration.Snapshot())
	return buf.String()
}

func millis(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return float64(d.Microseconds()) / 1000.0
}

type labelPair struct {
	a, b string
}

type labeledCounter struct {
	mu     sync.Mutex
	counts map[labelPair]uint64
}

type labeledSample struct {
	a, b  string
	value uint64
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{counts: make(map[labelPair]uint64)}
}

func (l *labeledCounter) Inc(a, b string) {
	l.mu.Lock()
	l.counts[labelPair{a: a, b: b}]++
	l.mu.Unlock()
}

func (l *labeledCounter) Snapshot() []labeledSample {
	l.mu.Lock()
	out := make([]labeledSample, 0, len(l.counts))
	for k, v := range l.counts {
		out = append(out, labeledSample{a: k.a, b: k.b, value: v})
	}
	l.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].a != out[j].a {
			return out[i].a < out[j].a
		}
		return out[i].b < out[j].b
	})
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe adds value to the first bucket whose bound holds it; buckets are cumulated at render time.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, labelA, labelB string, samples []labeledSample) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	for _, s := range samples {
		fmt.Fprintf(buf, "%s{%s=%q,%s=%q} %d\n", name, labelA, s.a, labelB, s.b, s.value)
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

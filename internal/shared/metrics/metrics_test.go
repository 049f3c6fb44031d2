package metrics

import (
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	var cumulative uint64
	for i := range snap.buckets {
		cumulative += snap.counts[i]
	}
	if cumulative != 2 {
		t.Fatalf("expected 2 observations inside bounds, got %d", cumulative)
	}
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	if got := formatFloat(snap.sum); got != "555" {
		t.Fatalf("unexpected sum %s", got)
	}
}

func TestRenderIncludesSubmitCounters(t *testing.T) {
	IncSubmitStarted()
	IncSubmitStale()
	SetActiveSessions(3)

	out := Render()
	for _, want := range []string{
		"# TYPE submit_started_total counter",
		"# TYPE submit_stale_total counter",
		"active_sessions 3",
		"ranking_duration_ms_bucket{le=\"+Inf\"}",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in metrics output:\n%s", want, out)
		}
	}
}

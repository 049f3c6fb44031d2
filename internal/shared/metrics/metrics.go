package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	submitStartedTotal   atomic.Uint64
	submitInvalidTotal   atomic.Uint64
	submitSucceededTotal atomic.Uint64
	submitFailedTotal    atomic.Uint64
	submitStaleTotal     atomic.Uint64
	activeSessions       atomic.Int64

	rankingDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000})
)

// IncSubmitStarted counts a submit attempt, valid or not.
func IncSubmitStarted() { submitStartedTotal.Add(1) }

// IncSubmitInvalid counts attempts rejected by local validation.
func IncSubmitInvalid() { submitInvalidTotal.Add(1) }

// IncSubmitSucceeded counts attempts whose ranking response was applied.
func IncSubmitSucceeded() { submitSucceededTotal.Add(1) }

// IncSubmitFailed counts attempts that ended with the generic failure message.
func IncSubmitFailed() { submitFailedTotal.Add(1) }

// IncSubmitStale counts responses dropped because a newer submit had started.
func IncSubmitStale() { submitStaleTotal.Add(1) }

// SetActiveSessions records the current number of live sessions.
func SetActiveSessions(n int) { activeSessions.Store(int64(n)) }

// ObserveRankingDurationMs records a ranking round trip in milliseconds.
func ObserveRankingDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	rankingDuration.Observe(value)
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
	writeCounter(&buf, "submit_started_total", "Total submit attempts", submitStartedTotal.Load())
	writeCounter(&buf, "submit_invalid_total", "Submit attempts rejected by validation", submitInvalidTotal.Load())
	writeCounter(&buf, "submit_succeeded_total", "Submit attempts with ranked results", submitSucceededTotal.Load())
	writeCounter(&buf, "submit_failed_total", "Submit attempts that failed to reach the ranking service", submitFailedTotal.Load())
	writeCounter(&buf, "submit_stale_total", "Ranking responses discarded as stale", submitStaleTotal.Load())
	writeGauge(&buf, "active_sessions", "Live form sessions", activeSessions.Load())
	writeHistogram(&buf, "ranking_duration_ms", "Ranking service round trip in milliseconds", rankingDuration.Snapshot())
	return buf.String()
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

// Observe places value in the first bucket whose bound covers it.
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

func writeGauge(buf *bytes.Buffer, name, help string, value int64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s gauge\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

// writeHistogram emits cumulative buckets, so counts are summed as bounds grow.
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

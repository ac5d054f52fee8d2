// Package metrics tracks request counts, durations and a sliding-window
// error rate for the health endpoints. A Tracker is constructed once at
// process start and injected into the HTTP layer; it resets only on restart.
package metrics

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const defaultWindow = time.Minute

// Tracker accumulates request outcomes. Safe for concurrent use.
type Tracker struct {
	mu sync.Mutex

	start  time.Time
	window time.Duration
	now    func() time.Time

	totalRequests int64
	totalErrors   int64
	totalDuration time.Duration
	maxDuration   time.Duration

	// timestamps inside the sliding window
	requests []time.Time
	errors   []time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		start:  time.Now(),
		window: defaultWindow,
		now:    time.Now,
	}
}

// Record registers one finished request. Statuses >= 400 count as errors.
func (t *Tracker) Record(status int, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.totalRequests++
	t.totalDuration += duration
	if duration > t.maxDuration {
		t.maxDuration = duration
	}

	t.requests = append(t.requests, now)
	if status >= 400 {
		t.totalErrors++
		t.errors = append(t.errors, now)
	}
	t.pruneLocked(now)
}

func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-t.window)
	t.requests = dropBefore(t.requests, cutoff)
	t.errors = dropBefore(t.errors, cutoff)
}

func dropBefore(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	return ts[i:]
}

// Snapshot is the point-in-time view exposed by the health endpoints.
type Snapshot struct {
	Uptime          string `json:"uptime"`
	TotalRequests   int64  `json:"totalRequests"`
	TotalErrors     int64  `json:"totalErrors"`
	WindowRequests  int    `json:"windowRequests"`
	WindowErrors    int    `json:"windowErrors"`
	ErrorRate       string `json:"errorRate"`
	WindowSize      string `json:"windowSize"`
	AverageDuration string `json:"averageDuration"`
	MaxDuration     string `json:"maxDuration"`
}

// Snapshot computes the current aggregate view. The error rate covers the
// sliding window only; totals cover the whole process lifetime.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.pruneLocked(now)

	rate := "0%"
	if len(t.requests) > 0 {
		rate = fmt.Sprintf("%.2f%%", float64(len(t.errors))/float64(len(t.requests))*100)
	}

	var avg time.Duration
	if t.totalRequests > 0 {
		avg = t.totalDuration / time.Duration(t.totalRequests)
	}

	return Snapshot{
		Uptime:          FormatUptime(now.Sub(t.start)),
		TotalRequests:   t.totalRequests,
		TotalErrors:     t.totalErrors,
		WindowRequests:  len(t.requests),
		WindowErrors:    len(t.errors),
		ErrorRate:       rate,
		WindowSize:      fmt.Sprintf("%ds", int(t.window.Seconds())),
		AverageDuration: avg.Round(time.Millisecond).String(),
		MaxDuration:     t.maxDuration.Round(time.Millisecond).String(),
	}
}

// FormatUptime renders a duration as "1d 2h 3m 4s", dropping leading zero
// parts; the seconds part is always present.
func FormatUptime(d time.Duration) string {
	secs := int64(d.Seconds())
	days := secs / 86400
	hours := (secs % 86400) / 3600
	minutes := (secs % 3600) / 60
	secs = secs % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", secs))

	return strings.Join(parts, " ")
}

package metrics

import (
	"sync"
	"time"
)

type callStats struct {
	calls           int
	errors          int
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about upstream calls and live clients,
// mirroring them into OpenTelemetry instruments when those are configured.
type Recorder struct {
	mu          sync.Mutex
	stats       map[string]*callStats
	liveClients int
	broadcasts  int
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*callStats),
		otel:  otel,
	}
}

// RecordAPICall increments counters for an upstream call and stores the last observed latency.
func (r *Recorder) RecordAPICall(operation string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(operation)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordAPICall(operation, duration, err)
	}
}

// APICalls returns the total attempts recorded for an operation.
func (r *Recorder) APICalls(operation string) int {
	return r.Snapshot(operation).Calls
}

// APIErrors returns the total failed attempts recorded for an operation.
func (r *Recorder) APIErrors(operation string) int {
	return r.Snapshot(operation).Errors
}

// LastCallLatency returns the last recorded latency for an operation.
func (r *Recorder) LastCallLatency(operation string) time.Duration {
	return r.Snapshot(operation).LastCallLatency
}

// Snapshot is a copy of the stats for one operation.
type Snapshot struct {
	Calls           int
	Errors          int
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(operation string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[operation]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordLiveClient tracks websocket clients joining (+1) or leaving (-1).
func (r *Recorder) RecordLiveClient(delta int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.liveClients += delta
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordLiveClient(delta)
	}
}

// RecordBroadcast counts a roster-changed push and how many clients it reached.
func (r *Recorder) RecordBroadcast(delivered int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.broadcasts++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordBroadcast(delivered)
	}
}

// LiveClients returns the number of connected websocket clients.
func (r *Recorder) LiveClients() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.liveClients
}

// Broadcasts returns the number of roster-changed pushes sent.
func (r *Recorder) Broadcasts() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.broadcasts
}

func (r *Recorder) ensureStatsLocked(operation string) *callStats {
	stats, ok := r.stats[operation]
	if !ok {
		stats = &callStats{}
		r.stats[operation] = stats
	}
	return stats
}

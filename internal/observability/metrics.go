package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides in-memory request and error counters plus cumulative
// latency per route. Exposed via Snapshot for health/debug endpoints.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]*routeStats
	errors   map[string]int64
}

type routeStats struct {
	count   int64
	totalMS int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]*routeStats),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts a completed request and accumulates its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := method + " " + path + " " + strconv.Itoa(status)

	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.requests[key]
	if !ok {
		stats = &routeStats{}
		m.requests[key] = stats
	}
	stats.count++
	stats.totalMS += duration.Milliseconds()
}

// RecordError counts a request that resolved to a domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.errors[method+" "+path+" "+code]++
	m.mu.Unlock()
}

// Snapshot copies the current counters. Request values are hit counts keyed
// by "METHOD path status".
func (m *Metrics) Snapshot() (requests, errors map[string]int64) {
	if m == nil {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	requests = make(map[string]int64, len(m.requests))
	for k, stats := range m.requests {
		requests[k] = stats.count
	}
	errors = make(map[string]int64, len(m.errors))
	for k, v := range m.errors {
		errors[k] = v
	}
	return requests, errors
}

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
)

// Metrics counts requests, error responses and tool outcomes.
type Metrics struct {
	requests atomic.Int64
	errors   atomic.Int64

	mu       sync.Mutex
	outcomes map[string]map[string]int64
}

func NewMetrics() *Metrics {
	return &Metrics{outcomes: make(map[string]map[string]int64)}
}

// Middleware counts every request and every 4xx/5xx answer.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requests.Add(1)
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)
		if rw.statusCode >= 400 {
			m.errors.Add(1)
		}
	})
}

// ToolOutcome counts one tool result.
func (m *Metrics) ToolOutcome(tool, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byOutcome, ok := m.outcomes[tool]
	if !ok {
		byOutcome = make(map[string]int64)
		m.outcomes[tool] = byOutcome
	}
	byOutcome[outcome]++
}

type ToolCount struct {
	Tool    string `json:"tool"`
	Outcome string `json:"outcome"`
	Count   int64  `json:"count"`
}

func (m *Metrics) Requests() int64 { return m.requests.Load() }
func (m *Metrics) Errors() int64   { return m.errors.Load() }

// ToolCounts returns the tool outcome counters sorted by tool then outcome.
func (m *Metrics) ToolCounts() []ToolCount {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make([]ToolCount, 0, len(m.outcomes))
	for tool, byOutcome := range m.outcomes {
		for outcome, n := range byOutcome {
			counts = append(counts, ToolCount{Tool: tool, Outcome: outcome, Count: n})
		}
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Tool != counts[j].Tool {
			return counts[i].Tool < counts[j].Tool
		}
		return counts[i].Outcome < counts[j].Outcome
	})
	return counts
}

package qphase

import (
	"sort"
	"sync"
	"time"
)

type Metrics struct {
	mu           sync.RWMutex
	RunCount     int64
	FailedRuns   int64
	TotalShots   int64
	TotalRunTime time.Duration
	LastRun      time.Time

	AverageRunLatency time.Duration
	P95RunLatency     time.Duration
	MaxQubits         int

	latencies  []time.Duration
	windowSize int
}

func NewMetrics() *Metrics {
	return &Metrics{
		latencies:  make([]time.Duration, 0, 256),
		windowSize: 256,
	}
}

func (m *Metrics) recordRun(startTime time.Time, shots, qubits int, err error) {
	duration := time.Since(startTime)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.RunCount++
	m.LastRun = startTime

	if err != nil {
		m.FailedRuns++
		return
	}

	m.TotalShots += int64(shots)
	m.TotalRunTime += duration
	if qubits > m.MaxQubits {
		m.MaxQubits = qubits
	}

	m.updateLatency(duration)
}

func (m *Metrics) updateLatency(duration time.Duration) {
	succeeded := m.RunCount - m.FailedRuns
	m.AverageRunLatency = m.TotalRunTime / time.Duration(succeeded)

	m.latencies = append(m.latencies, duration)
	if len(m.latencies) > m.windowSize {
		m.latencies = m.latencies[1:]
	}

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	p95Index := int(float64(len(sorted)) * 0.95)
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}
	m.P95RunLatency = sorted[p95Index]
}

// ExportMetrics returns a snapshot suitable for printing or encoding.
func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"runs":        m.RunCount,
		"failed_runs": m.FailedRuns,
		"total_shots": m.TotalShots,
		"avg_latency": m.AverageRunLatency.Milliseconds(),
		"p95_latency": m.P95RunLatency.Milliseconds(),
		"max_qubits":  m.MaxQubits,
	}
}

package utils

import (
	"sync"
	"time"
)

// Metrics holds in-process application metrics
type Metrics struct {
	mu sync.RWMutex

	// Request metrics
	TotalRequests   int64
	FailedRequests  int64
	RequestLatency  time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time

	// Circulation metrics
	LoansCreated       int64
	LoansMarkedOverdue int64
	SettlementsWritten int64
	SweepRuns          int64
	LastSweepTime      time.Time

	// Error metrics
	ErrorCount    int64
	LastErrorTime time.Time
	ErrorTypes    map[string]int64
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics returns the metrics singleton
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			ErrorTypes: make(map[string]int64),
		}
	})
	return metrics
}

// RecordRequest records request metrics
func (m *Metrics) RecordRequest(duration time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	m.RequestLatency += duration
	m.AverageLatency = m.RequestLatency / time.Duration(m.TotalRequests)
	m.LastRequestTime = time.Now()

	if failed {
		m.FailedRequests++
	}
}

// RecordLoanCreated records a new loan
func (m *Metrics) RecordLoanCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoansCreated++
}

// RecordSweep records a sweep run and how many loans it flipped to Overdue
func (m *Metrics) RecordSweep(marked int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SweepRuns++
	m.LoansMarkedOverdue += marked
	m.LastSweepTime = time.Now()
}

// RecordSettlement records a settlement write
func (m *Metrics) RecordSettlement() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SettlementsWritten++
}

// RecordError records error metrics
func (m *Metrics) RecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ErrorCount++
	m.LastErrorTime = time.Now()

	errorType := "unknown"
	if err != nil {
		errorType = err.Error()
	}

	m.ErrorTypes[errorType]++
}

// Snapshot returns a snapshot of the current metrics
func (m *Metrics) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errorTypes := make(map[string]int64, len(m.ErrorTypes))
	for k, v := range m.ErrorTypes {
		errorTypes[k] = v
	}

	return map[string]interface{}{
		"total_requests":       m.TotalRequests,
		"failed_requests":      m.FailedRequests,
		"average_latency":      m.AverageLatency.String(),
		"loans_created":        m.LoansCreated,
		"loans_marked_overdue": m.LoansMarkedOverdue,
		"settlements_written":  m.SettlementsWritten,
		"sweep_runs":           m.SweepRuns,
		"last_sweep_time":      m.LastSweepTime,
		"error_count":          m.ErrorCount,
		"last_error_time":      m.LastErrorTime,
		"error_types":          errorTypes,
	}
}

// Reset clears all metrics
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests = 0
	m.FailedRequests = 0
	m.RequestLatency = 0
	m.AverageLatency = 0
	m.LoansCreated = 0
	m.LoansMarkedOverdue = 0
	m.SettlementsWritten = 0
	m.SweepRuns = 0
	m.ErrorCount = 0
	m.ErrorTypes = make(map[string]int64)
}

package pool

import "sync"

// Metrics tracks lease/release traffic through a provider.
type Metrics struct {
	mu       sync.Mutex
	acquired int64
	released int64
	errors   int64
}

func (m *Metrics) incAcquired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acquired++
}

func (m *Metrics) incReleased() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released++
}

func (m *Metrics) incErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors++
}

// Acquired returns the number of successful leases.
func (m *Metrics) Acquired() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquired
}

// Released returns the number of releases.
func (m *Metrics) Released() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// Errors returns the number of failed leases.
func (m *Metrics) Errors() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors
}

// Stats returns a snapshot of the counters.
func (m *Metrics) Stats() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]int64{
		"acquired": m.acquired,
		"released": m.released,
		"errors":   m.errors,
	}
}

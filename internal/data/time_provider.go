package data

import (
	"sync"
	"time"
)

// TimeProvider supplies the wall-clock reads that feed the ledger's logical
// timestamps. The ledger core itself never reads a clock; adapters convert a
// TimeProvider reading into an explicit `now` argument.
type TimeProvider interface {
	// Now returns the current time
	Now() time.Time
	// LogicalNow returns the current logical timestamp (unix seconds)
	LogicalNow() uint64
}

// RealTimeProvider implements TimeProvider using real system time.
type RealTimeProvider struct{}

// Now returns the current system time.
func (r *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// LogicalNow returns the current unix timestamp.
func (r *RealTimeProvider) LogicalNow() uint64 {
	return uint64(time.Now().Unix())
}

// FixedTimeProvider implements TimeProvider with a settable time for testing.
type FixedTimeProvider struct {
	mu        sync.RWMutex
	fixedTime time.Time
}

// NewFixedTimeProvider creates a new FixedTimeProvider with the given time.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{fixedTime: t}
}

// Now returns the fixed time.
func (f *FixedTimeProvider) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.fixedTime
}

// LogicalNow returns the fixed time as a unix timestamp.
func (f *FixedTimeProvider) LogicalNow() uint64 {
	return uint64(f.Now().Unix())
}

// SetTime updates the fixed time (useful for testing time progression).
func (f *FixedTimeProvider) SetTime(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fixedTime = t
}

// AdvanceTime adds a duration to the current fixed time.
func (f *FixedTimeProvider) AdvanceTime(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fixedTime = f.fixedTime.Add(d)
}

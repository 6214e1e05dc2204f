package clock

import (
	"sync"
	"time"
)

// TimeProvider abstracts the time source so code built on it can be tested
// without sleeping.
type TimeProvider interface {
	Now() time.Time
}

type monotonicProvider struct{}

// NewMonotonicProvider returns the wall-clock provider used outside tests.
// time.Now carries a monotonic reading, so differences are immune to clock
// adjustments.
func NewMonotonicProvider() TimeProvider { return monotonicProvider{} }

func (monotonicProvider) Now() time.Time { return time.Now() }

// ManualProvider is a hand-advanced time source. Time moves only when
// Advance is called.
type ManualProvider struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualProvider(start time.Time) *ManualProvider {
	return &ManualProvider{now: start}
}

func (p *ManualProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

func (p *ManualProvider) Advance(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = p.now.Add(d)
}

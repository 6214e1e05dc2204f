package clock

import "time"

// Stopwatch measures the time since its creation or last Reset. Reading the
// elapsed value never resets it.
type Stopwatch struct {
	provider TimeProvider
	start    time.Time
}

// NewStopwatch starts measuring immediately. A nil provider falls back to
// the monotonic clock.
func NewStopwatch(provider TimeProvider) *Stopwatch {
	if provider == nil {
		provider = NewMonotonicProvider()
	}
	return &Stopwatch{
		provider: provider,
		start:    provider.Now(),
	}
}

func (s *Stopwatch) Elapsed() time.Duration {
	return s.provider.Now().Sub(s.start)
}

// Seconds is Elapsed as a float, for frame math and HUD display.
func (s *Stopwatch) Seconds() float64 {
	return s.Elapsed().Seconds()
}

// Reset restarts the measurement from now.
func (s *Stopwatch) Reset() {
	s.start = s.provider.Now()
}

// Delay blocks the calling goroutine for d. It is meant for startup and
// teardown paths, never for a frame loop.
func Delay(d time.Duration) {
	time.Sleep(d)
}

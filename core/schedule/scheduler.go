package schedule

import (
	"runtime/debug"
	"time"

	"github.com/hestiakit/hestia/observability/log"
)

// Scheduler runs callbacks on detached goroutines after wall-clock waits.
// Scheduled work is fire-and-forget by contract: it cannot be joined or
// cancelled and the scheduler keeps no handle to it. A host that needs to
// stop a loop owns the condition its predicate reads (see LoopWhile).
//
// Callbacks run off the frame loop; anything they touch concurrently with
// frame code needs its own synchronization.
type Scheduler struct {
	logger log.Log
}

// New creates a scheduler. A nil logger is replaced with a no-op one.
func New(logger log.Log) *Scheduler {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Scheduler{logger: logger}
}

// After runs fn once, d from now. A nil fn registers nothing.
func (s *Scheduler) After(d time.Duration, fn func()) {
	if fn == nil {
		return
	}
	go func() {
		time.Sleep(d)
		s.invoke(fn)
	}()
}

// LoopOption adjusts Loop and LoopWhile registrations.
type LoopOption func(*loopConfig)

type loopConfig struct {
	immediate bool
}

// WithImmediate fires the callback once at registration, before the first
// wait. The immediate call does not consume a round.
func WithImmediate() LoopOption {
	return func(c *loopConfig) { c.immediate = true }
}

// Loop runs fn every interval for the given number of rounds. rounds == 0
// loops until process exit; there is no way to stop it earlier.
func (s *Scheduler) Loop(interval time.Duration, fn func(), rounds int, opts ...LoopOption) {
	if fn == nil {
		return
	}
	cfg := buildConfig(opts)
	go func() {
		if cfg.immediate {
			s.invoke(fn)
		}
		for n := 0; rounds == 0 || n < rounds; n++ {
			time.Sleep(interval)
			s.invoke(fn)
		}
	}()
}

// LoopWhile runs fn every interval for as long as cond reports true. The
// condition is re-evaluated before each wait, so flipping it stops the loop
// within one interval. Nil fn or cond registers nothing.
func (s *Scheduler) LoopWhile(interval time.Duration, fn func(), cond func() bool, opts ...LoopOption) {
	if fn == nil || cond == nil {
		return
	}
	cfg := buildConfig(opts)
	go func() {
		if cfg.immediate {
			s.invoke(fn)
		}
		for cond() {
			time.Sleep(interval)
			s.invoke(fn)
		}
	}()
}

func buildConfig(opts []LoopOption) loopConfig {
	var cfg loopConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// invoke shields the host from callback panics. The panic is logged with
// its stack and the surrounding loop, if any, moves on to its next round.
func (s *Scheduler) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled callback panicked",
				log.Any("panic", r),
				log.String("stack", string(debug.Stack())),
			)
		}
	}()
	fn()
}

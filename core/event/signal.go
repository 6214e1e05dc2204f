package event

import (
	"sync"
	"weak"

	"github.com/google/uuid"
)

// Signal dispatches values of one payload type to its connected callbacks in
// registration order. Events with several fields use a payload struct; Go
// offers no variadic type parameters.
//
// The zero value is ready to use. All methods are safe for concurrent use,
// and callbacks run without the signal's lock held, so they may connect,
// disconnect and emit freely.
type Signal[T any] struct {
	mu    sync.Mutex
	slots []*slot[T]
}

type slot[T any] struct {
	id string
	fn func(T)
	// alive is nil for strong connections. Weak connections report whether
	// their subscriber is still reachable; dead slots are skipped and pruned
	// by the next emission.
	alive func() bool
}

// Connection is the handle to one subscription.
type Connection interface {
	ID() string
	Connected() bool
	// Disconnect removes the subscription. Idempotent. A slot disconnected
	// during an emission, before its turn, is skipped by that emission.
	Disconnect()
}

func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{}
}

// Connect registers fn. The connection stays live until Disconnect; a nil fn
// yields an already-dead connection.
func (s *Signal[T]) Connect(fn func(T)) Connection {
	if fn == nil {
		return deadConn{}
	}
	return s.connect(fn, nil)
}

// ConnectWeak registers fn bound to subscriber without keeping the
// subscriber alive. Once the collector reclaims it the slot reports
// disconnected and is pruned; no Disconnect call is required. fn receives
// the subscriber explicitly so the callback cannot accidentally capture a
// strong reference to it.
func ConnectWeak[T any, S any](s *Signal[T], subscriber *S, fn func(*S, T)) Connection {
	if subscriber == nil || fn == nil {
		return deadConn{}
	}
	ref := weak.Make(subscriber)
	wrapped := func(v T) {
		// Re-resolve at call time; liveness at snapshot time is not enough.
		if sub := ref.Value(); sub != nil {
			fn(sub, v)
		}
	}
	return s.connect(wrapped, func() bool { return ref.Value() != nil })
}

func (s *Signal[T]) connect(fn func(T), alive func() bool) Connection {
	sl := &slot[T]{
		id:    uuid.NewString(),
		fn:    fn,
		alive: alive,
	}
	s.mu.Lock()
	s.slots = append(s.slots, sl)
	s.mu.Unlock()
	return &conn[T]{sig: s, id: sl.id}
}

// Emit delivers v to every slot connected at the moment of the call, in
// registration order. Slots connected during the emission wait for the next
// one; slots disconnected during the emission, before their turn, are
// skipped.
func (s *Signal[T]) Emit(v T) {
	s.mu.Lock()
	ids := make([]string, len(s.slots))
	for i, sl := range s.slots {
		ids[i] = sl.id
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.mu.Lock()
		var fn func(T)
		if sl := s.find(id); sl != nil {
			if sl.alive != nil && !sl.alive() {
				s.remove(id)
			} else {
				fn = sl.fn
			}
		}
		s.mu.Unlock()
		if fn != nil {
			fn(v)
		}
	}
}

// Len reports the number of live connections.
func (s *Signal[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sl := range s.slots {
		if sl.alive == nil || sl.alive() {
			n++
		}
	}
	return n
}

// DisconnectAll drops every connection, including weak ones.
func (s *Signal[T]) DisconnectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = nil
}

// find and remove run under s.mu.

func (s *Signal[T]) find(id string) *slot[T] {
	for _, sl := range s.slots {
		if sl.id == id {
			return sl
		}
	}
	return nil
}

func (s *Signal[T]) remove(id string) {
	for i, sl := range s.slots {
		if sl.id == id {
			s.slots = append(s.slots[:i], s.slots[i+1:]...)
			return
		}
	}
}

type conn[T any] struct {
	sig *Signal[T]
	id  string
}

func (c *conn[T]) ID() string { return c.id }

func (c *conn[T]) Connected() bool {
	c.sig.mu.Lock()
	defer c.sig.mu.Unlock()
	sl := c.sig.find(c.id)
	return sl != nil && (sl.alive == nil || sl.alive())
}

func (c *conn[T]) Disconnect() {
	c.sig.mu.Lock()
	defer c.sig.mu.Unlock()
	c.sig.remove(c.id)
}

// deadConn is what nil registrations get: a handle that was never live.
type deadConn struct{}

func (deadConn) ID() string      { return "" }
func (deadConn) Connected() bool { return false }
func (deadConn) Disconnect()     {}

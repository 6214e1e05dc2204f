package entity

import (
	"fmt"
	"reflect"
)

// Entity owns an ordered collection of components and dispatches lifecycle
// hooks to them. Lookup by component type is O(1) through a bitmask and a
// fixed slot table. Entities are not safe for concurrent mutation; the host
// serializes access (see Manager).
type Entity struct {
	registry   *Registry
	components []Component
	slots      [MaxComponentTypes]int8
	mask       Mask
	active     bool
	removed    bool
}

// New creates a standalone entity bound to reg. A nil reg gets a private
// registry; entities that must agree on component identity share one.
func New(reg *Registry) *Entity {
	if reg == nil {
		reg = NewRegistry()
	}
	e := &Entity{registry: reg, active: true}
	for i := range e.slots {
		e.slots[i] = -1
	}
	return e
}

func (e *Entity) Registry() *Registry { return e.registry }

// IsActive reports whether the entity survives the next manager refresh.
func (e *Entity) IsActive() bool { return e.active }

// Destroy marks the entity for removal at the next manager refresh. Until
// then it keeps receiving Update and Draw calls. Idempotent.
func (e *Entity) Destroy() { e.active = false }

// Len reports the number of owned components.
func (e *Entity) Len() int { return len(e.components) }

// Update runs every component's Update hook in insertion order. The length
// is re-read each step, so components attached during the pass join it.
func (e *Entity) Update() {
	for i := 0; i < len(e.components); i++ {
		e.components[i].Update()
	}
}

// Draw runs every component's Draw hook in insertion order.
func (e *Entity) Draw() {
	for i := 0; i < len(e.components); i++ {
		e.components[i].Draw()
	}
}

// Has reports whether a component with the given TypeID is attached.
func (e *Entity) Has(id TypeID) bool {
	return int(id) < MaxComponentTypes && e.mask.Has(id)
}

// Component returns the attached component with the given TypeID.
func (e *Entity) Component(id TypeID) (Component, bool) {
	if !e.Has(id) {
		return nil, false
	}
	return e.components[e.slots[id]], true
}

// AddComponent attaches c to e and returns it. The owner back-reference is
// set before Init runs. Adding a second component of an attached type
// replaces the first in place, so dispatch order is unaffected and the old
// instance is released.
//
// Fails with ErrEntityRemoved after a manager compacted the entity away,
// with ErrNilComponent for a nil c, and with ErrTypeCapacity when T would be
// the 33rd registered type.
func AddComponent[T Component](e *Entity, c T) (T, error) {
	var zero T
	if e.removed {
		return zero, fmt.Errorf("add %s: %w", reflect.TypeFor[T](), ErrEntityRemoved)
	}
	if isNil(c) {
		return zero, fmt.Errorf("add %s: %w", reflect.TypeFor[T](), ErrNilComponent)
	}
	id, err := Register[T](e.registry)
	if err != nil {
		return zero, err
	}
	c.bind(e)
	if e.mask.Has(id) {
		e.components[e.slots[id]] = c
	} else {
		e.slots[id] = int8(len(e.components))
		e.components = append(e.components, c)
		e.mask.Set(id)
	}
	c.Init()
	return c, nil
}

// HasComponent reports whether e carries a component of type T. Querying a
// type that was never registered is false, never an error.
func HasComponent[T Component](e *Entity) bool {
	id, ok := TypeIDOf[T](e.registry)
	return ok && e.mask.Has(id)
}

// GetComponent returns e's component of type T. The second result is false
// when no such component is attached.
func GetComponent[T Component](e *Entity) (T, bool) {
	var zero T
	id, ok := TypeIDOf[T](e.registry)
	if !ok || !e.mask.Has(id) {
		return zero, false
	}
	c, ok := e.components[e.slots[id]].(T)
	if !ok {
		return zero, false
	}
	return c, true
}

func isNil(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// dispose clears the entity once a manager has removed it. The components
// slice is dropped wholesale; the removed flag turns later AddComponent
// calls into ErrEntityRemoved.
func (e *Entity) dispose() {
	e.components = nil
	for i := range e.slots {
		e.slots[i] = -1
	}
	e.mask = 0
	e.removed = true
}

package entity

import (
	"fmt"
	"reflect"
	"sync"
)

// TypeID identifies a registered component type within one Registry. IDs are
// dense, start at zero, and stay stable for the registry's lifetime.
type TypeID uint8

// MaxComponentTypes is the fixed number of component types a Registry can
// hold. It matches the width of Mask and never grows at runtime.
const MaxComponentTypes = 32

// Registry assigns TypeIDs to component types. It is an explicit dependency:
// entities sharing component identity must share a Registry, and two
// registries assign IDs independently. Safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	types map[reflect.Type]TypeID
	next  TypeID
}

func NewRegistry() *Registry {
	return &Registry{
		types: make(map[reflect.Type]TypeID, MaxComponentTypes),
	}
}

// Register returns the TypeID for T, assigning the next free one on first
// registration. Registration is idempotent per type. Once MaxComponentTypes
// distinct types exist, further registrations fail with ErrTypeCapacity.
func Register[T Component](r *Registry) (TypeID, error) {
	return r.register(reflect.TypeFor[T]())
}

// TypeIDOf reports the TypeID for T if it has been registered. Unlike
// Register it never assigns: querying a type costs no capacity.
func TypeIDOf[T Component](r *Registry) (TypeID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.types[reflect.TypeFor[T]()]
	return id, ok
}

// Len reports how many component types are registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.types)
}

func (r *Registry) register(t reflect.Type) (TypeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.types[t]; ok {
		return id, nil
	}
	if int(r.next) >= MaxComponentTypes {
		return 0, fmt.Errorf("register %s: %w", t, ErrTypeCapacity)
	}
	id := r.next
	r.types[t] = id
	r.next++
	return id, nil
}

package entity

import "errors"

var (
	// ErrTypeCapacity is returned when registering a component type would
	// exceed MaxComponentTypes. The capacity is fixed; it never grows.
	ErrTypeCapacity = errors.New("component type capacity exceeded")

	// ErrNilComponent is returned when a nil component is added to an entity.
	ErrNilComponent = errors.New("nil component")

	// ErrEntityRemoved is returned when attaching to an entity that a manager
	// already compacted away.
	ErrEntityRemoved = errors.New("entity removed")
)

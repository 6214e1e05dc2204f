package entity

import (
	"github.com/hestiakit/hestia/observability/log"
)

// Manager owns entities in creation order and drives their lifecycle. Like
// the entities themselves it expects single-threaded use: Update, Draw and
// Refresh belong to one frame loop, serialized by the host.
type Manager struct {
	registry *Registry
	entities []*Entity
	logger   log.Log
}

// NewManager creates an empty manager. A nil reg gets a fresh registry
// shared by all entities the manager creates; a nil logger is replaced with
// a no-op one.
func NewManager(reg *Registry, logger log.Log) *Manager {
	if reg == nil {
		reg = NewRegistry()
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Manager{
		registry: reg,
		logger:   logger,
	}
}

// Registry returns the registry shared by this manager's entities.
func (m *Manager) Registry() *Registry { return m.registry }

// AddEntity creates an entity, appends it to the managed set and returns it.
// Entities keep their creation order for the lifetime of the set.
func (m *Manager) AddEntity() *Entity {
	e := New(m.registry)
	m.entities = append(m.entities, e)
	return e
}

// Len reports the number of managed entities, including ones destroyed but
// not yet refreshed away.
func (m *Manager) Len() int { return len(m.entities) }

// Entities returns a snapshot of the managed set in creation order.
func (m *Manager) Entities() []*Entity {
	out := make([]*Entity, len(m.entities))
	copy(out, m.entities)
	return out
}

// Update fans out to every managed entity in creation order. Entities marked
// destroyed still receive the call until Refresh removes them; removal is
// Refresh's job alone.
func (m *Manager) Update() {
	for i := 0; i < len(m.entities); i++ {
		m.entities[i].Update()
	}
}

// Draw fans out to every managed entity in creation order, destroyed ones
// included, mirroring Update.
func (m *Manager) Draw() {
	for i := 0; i < len(m.entities); i++ {
		m.entities[i].Draw()
	}
}

// Refresh removes destroyed entities in one stable compaction pass.
// Survivors keep their relative order and their identity; removed entities
// are disposed and reject further use. Safe to call at any cadence,
// including on an empty set.
func (m *Manager) Refresh() {
	kept := m.entities[:0]
	removed := 0
	for _, e := range m.entities {
		if e.IsActive() {
			kept = append(kept, e)
			continue
		}
		e.dispose()
		removed++
	}
	for i := len(kept); i < len(m.entities); i++ {
		m.entities[i] = nil
	}
	m.entities = kept
	if removed > 0 {
		m.logger.Debug("entities compacted",
			log.Int("removed", removed),
			log.Int("remaining", len(kept)),
		)
	}
}

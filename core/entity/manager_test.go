package entity

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hestiakit/hestia/observability/log"
)

func TestManagerKeepsCreationOrder(t *testing.T) {
	m := NewManager(nil, nil)
	e1 := m.AddEntity()
	e2 := m.AddEntity()
	e3 := m.AddEntity()

	got := m.Entities()
	if len(got) != 3 {
		t.Fatalf("Entities() returned %d entities, want 3", len(got))
	}
	if got[0] != e1 || got[1] != e2 || got[2] != e3 {
		t.Fatal("entities out of creation order")
	}
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
}

func TestManagerSharesOneRegistry(t *testing.T) {
	m := NewManager(nil, nil)
	e1 := m.AddEntity()
	e2 := m.AddEntity()

	if _, err := AddComponent(e1, &position{}); err != nil {
		t.Fatalf("add to e1: %v", err)
	}
	if _, err := AddComponent(e2, &position{}); err != nil {
		t.Fatalf("add to e2: %v", err)
	}
	if m.Registry().Len() != 1 {
		t.Fatalf("registry holds %d types, want 1", m.Registry().Len())
	}
}

func TestManagerDispatchesToDestroyedUntilRefresh(t *testing.T) {
	m := NewManager(nil, nil)
	var journal []string

	for _, label := range []string{"e1", "e2", "e3"} {
		e := m.AddEntity()
		if _, err := AddComponent(e, &alpha{trace{journal: &journal, label: label}}); err != nil {
			t.Fatalf("add component: %v", err)
		}
	}

	m.Entities()[1].Destroy()

	journal = journal[:0]
	m.Update()
	m.Draw()

	want := []string{
		"e1:update", "e2:update", "e3:update",
		"e1:draw", "e2:draw", "e3:draw",
	}
	if len(journal) != len(want) {
		t.Fatalf("journal = %v, want %v", journal, want)
	}
	for i := range want {
		if journal[i] != want[i] {
			t.Fatalf("journal[%d] = %q, want %q", i, journal[i], want[i])
		}
	}

	m.Refresh()
	journal = journal[:0]
	m.Update()
	if len(journal) != 2 || journal[0] != "e1:update" || journal[1] != "e3:update" {
		t.Fatalf("after refresh journal = %v, want [e1:update e3:update]", journal)
	}
}

func TestRefreshRemovesOnlyDestroyed(t *testing.T) {
	m := NewManager(nil, nil)
	e1 := m.AddEntity()
	e2 := m.AddEntity()
	e3 := m.AddEntity()

	if _, err := AddComponent(e1, &position{x: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := AddComponent(e3, &position{x: 3}); err != nil {
		t.Fatalf("add: %v", err)
	}

	e2.Destroy()
	m.Refresh()

	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	rest := m.Entities()
	if rest[0] != e1 || rest[1] != e3 {
		t.Fatal("survivors lost identity or order across refresh")
	}

	p, ok := GetComponent[*position](e3)
	if !ok || p.x != 3 {
		t.Fatal("survivor state damaged by refresh")
	}

	if _, err := AddComponent(e2, &velocity{}); !errors.Is(err, ErrEntityRemoved) {
		t.Fatalf("AddComponent on removed entity: err = %v, want ErrEntityRemoved", err)
	}
}

func TestRefreshDegenerateSets(t *testing.T) {
	m := NewManager(nil, nil)

	m.Refresh() // empty set
	if m.Len() != 0 {
		t.Fatalf("Len() = %d after refreshing empty set", m.Len())
	}

	for i := 0; i < 3; i++ {
		m.AddEntity()
	}
	m.Refresh() // all active
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (all-active refresh must keep everything)", m.Len())
	}

	for _, e := range m.Entities() {
		e.Destroy()
	}
	m.Refresh() // all inactive
	if m.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 (all-inactive refresh must empty the set)", m.Len())
	}

	m.Refresh() // empty again, after a full drain
	if m.Len() != 0 {
		t.Fatalf("Len() = %d after second refresh", m.Len())
	}
}

func TestRefreshLogsCompaction(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := log.NewWith(zap.New(core), log.LevelDebug)

	m := NewManager(nil, logger)
	m.AddEntity()
	m.AddEntity().Destroy()

	m.Refresh()
	m.Refresh() // nothing to remove, nothing to log

	entries := logs.FilterMessage("entities compacted").All()
	if len(entries) != 1 {
		t.Fatalf("got %d compaction log entries, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["removed"] != int64(1) || ctx["remaining"] != int64(1) {
		t.Fatalf("log fields = %v, want removed=1 remaining=1", ctx)
	}
}

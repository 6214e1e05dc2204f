package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct {
	BaseComponent
	x, y float64
}

type velocity struct {
	BaseComponent
	dx, dy float64
}

// trace records hook invocations into a shared journal so tests can assert
// dispatch order.
type trace struct {
	BaseComponent
	journal     *[]string
	label       string
	ownerAtInit *Entity
}

func (t *trace) record(event string) {
	if t.journal != nil {
		*t.journal = append(*t.journal, t.label+":"+event)
	}
}

func (t *trace) Init() {
	t.ownerAtInit = t.Owner()
	t.record("init")
}

func (t *trace) Update() { t.record("update") }

func (t *trace) Draw() { t.record("draw") }

type alpha struct{ trace }

type beta struct{ trace }

type gamma struct{ trace }

// spawner attaches a gamma to its owner on the first update, exercising
// mutation during a dispatch pass.
type spawner struct {
	BaseComponent
	journal *[]string
	done    bool
}

func (s *spawner) Update() {
	if s.done {
		return
	}
	s.done = true
	_, err := AddComponent(s.Owner(), &gamma{trace{journal: s.journal, label: "g"}})
	if err != nil {
		panic(err)
	}
}

func TestAddComponentSetsOwnerBeforeInit(t *testing.T) {
	e := New(nil)
	var journal []string

	a, err := AddComponent(e, &alpha{trace{journal: &journal, label: "a"}})
	require.NoError(t, err)

	assert.Same(t, e, a.ownerAtInit, "owner must be visible inside Init")
	assert.Same(t, e, a.Owner())
	assert.Equal(t, []string{"a:init"}, journal)
}

func TestAddComponentReturnsAttachedInstance(t *testing.T) {
	e := New(nil)

	p := &position{x: 4, y: 2}
	got, err := AddComponent(e, p)
	require.NoError(t, err)
	assert.Same(t, p, got)
}

func TestAddNilComponent(t *testing.T) {
	e := New(nil)

	_, err := AddComponent[*position](e, nil)
	require.ErrorIs(t, err, ErrNilComponent)
	assert.Equal(t, 0, e.Len())
}

func TestLookupIsTypeKeyed(t *testing.T) {
	e := New(nil)

	p, err := AddComponent(e, &position{x: 1, y: 2})
	require.NoError(t, err)
	_, err = AddComponent(e, &velocity{dx: 3})
	require.NoError(t, err)

	require.True(t, HasComponent[*position](e))
	require.True(t, HasComponent[*velocity](e))

	got, ok := GetComponent[*position](e)
	require.True(t, ok)
	assert.Same(t, p, got)
	assert.Equal(t, 1.0, got.x)
}

func TestMissingComponentIsDefinedFailure(t *testing.T) {
	e := New(nil)
	_, err := AddComponent(e, &position{})
	require.NoError(t, err)

	assert.False(t, HasComponent[*velocity](e))
	got, ok := GetComponent[*velocity](e)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestComponentByID(t *testing.T) {
	e := New(nil)
	p, err := AddComponent(e, &position{})
	require.NoError(t, err)

	id, ok := TypeIDOf[*position](e.Registry())
	require.True(t, ok)
	require.True(t, e.Has(id))

	c, ok := e.Component(id)
	require.True(t, ok)
	assert.Same(t, Component(p), c)

	_, ok = e.Component(id + 1)
	assert.False(t, ok)
}

func TestDispatchInsertionOrder(t *testing.T) {
	e := New(nil)
	var journal []string

	_, err := AddComponent(e, &alpha{trace{journal: &journal, label: "a"}})
	require.NoError(t, err)
	_, err = AddComponent(e, &beta{trace{journal: &journal, label: "b"}})
	require.NoError(t, err)
	_, err = AddComponent(e, &gamma{trace{journal: &journal, label: "g"}})
	require.NoError(t, err)

	journal = journal[:0]
	e.Update()
	e.Draw()

	assert.Equal(t, []string{
		"a:update", "b:update", "g:update",
		"a:draw", "b:draw", "g:draw",
	}, journal)
}

func TestComponentAddedDuringPassJoinsIt(t *testing.T) {
	e := New(nil)
	var journal []string

	_, err := AddComponent(e, &spawner{journal: &journal})
	require.NoError(t, err)

	e.Update()
	assert.Equal(t, []string{"g:init", "g:update"}, journal,
		"a component attached mid-pass runs in the same pass")

	journal = journal[:0]
	e.Update()
	assert.Equal(t, []string{"g:update"}, journal)
}

func TestDuplicateAddReplacesInPlace(t *testing.T) {
	e := New(nil)
	var journal []string

	_, err := AddComponent(e, &alpha{trace{journal: &journal, label: "a1"}})
	require.NoError(t, err)
	_, err = AddComponent(e, &beta{trace{journal: &journal, label: "b"}})
	require.NoError(t, err)

	replacement, err := AddComponent(e, &alpha{trace{journal: &journal, label: "a2"}})
	require.NoError(t, err)
	assert.Equal(t, 2, e.Len(), "replacement must not grow the entity")

	got, ok := GetComponent[*alpha](e)
	require.True(t, ok)
	assert.Same(t, replacement, got)

	journal = journal[:0]
	e.Update()
	assert.Equal(t, []string{"a2:update", "b:update"}, journal,
		"the replacement keeps the original dispatch slot")
}

func TestDestroyIsIdempotent(t *testing.T) {
	e := New(nil)
	require.True(t, e.IsActive())

	e.Destroy()
	assert.False(t, e.IsActive())
	e.Destroy()
	assert.False(t, e.IsActive())
}

func TestDestroyedEntityStillDispatches(t *testing.T) {
	e := New(nil)
	var journal []string
	_, err := AddComponent(e, &alpha{trace{journal: &journal, label: "a"}})
	require.NoError(t, err)

	e.Destroy()
	journal = journal[:0]
	e.Update()

	assert.Equal(t, []string{"a:update"}, journal,
		"destroy marks for removal, it does not mute the entity")
}

func TestAddAfterDisposeFails(t *testing.T) {
	e := New(nil)
	_, err := AddComponent(e, &position{})
	require.NoError(t, err)

	e.dispose()

	_, err = AddComponent(e, &velocity{})
	require.ErrorIs(t, err, ErrEntityRemoved)
	assert.Equal(t, 0, e.Len())
	assert.False(t, HasComponent[*position](e))
}

func TestCapacityFaultSurfacesThroughAdd(t *testing.T) {
	e := New(nil)

	var err error
	for i := 0; i < MaxComponentTypes; i++ {
		_, err = e.registry.register(arrayType(i))
		require.NoError(t, err)
	}

	_, err = AddComponent(e, &position{})
	require.ErrorIs(t, err, ErrTypeCapacity)
	assert.Equal(t, 0, e.Len(), "a failed add must leave the entity unchanged")
}

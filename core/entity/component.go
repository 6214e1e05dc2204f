package entity

// Component is the behavior an Entity owns. Implementations embed
// BaseComponent and override the hooks they care about.
//
// Init runs once, after the component is attached and its owner is set.
// Update and Draw run every time the owning entity is updated or drawn, in
// the order components were added. None of the hooks take a context: they
// are frame-path calls and must not block.
type Component interface {
	Init()
	Update()
	Draw()

	// Owner is the entity this component is attached to, nil before
	// attachment. It is a back-reference only; the entity owns the
	// component, never the reverse.
	Owner() *Entity

	bind(*Entity)
}

// BaseComponent provides no-op hooks and the owner back-reference. Its
// unexported bind method makes embedding it the only way to satisfy
// Component, so the owner plumbing cannot be skipped.
type BaseComponent struct {
	owner *Entity
}

func (b *BaseComponent) Init() {}

func (b *BaseComponent) Update() {}

func (b *BaseComponent) Draw() {}

func (b *BaseComponent) Owner() *Entity { return b.owner }

func (b *BaseComponent) bind(e *Entity) { b.owner = e }

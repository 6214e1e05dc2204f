package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/hestiakit/hestia/core/entity"
	"github.com/hestiakit/hestia/core/event"
)

// expiry is broadcast when a glyph's lifetime runs out.
type expiry struct {
	Glyph rune
	Age   int
}

// Transform moves its owner every tick and bounces off the scene bounds.
type Transform struct {
	entity.BaseComponent
	X, Y   float64
	VX, VY float64

	bounds func() (w, h int)
}

func (t *Transform) Update() {
	w, h := t.bounds()
	if w < 1 || h < 1 {
		return
	}
	t.X += t.VX
	t.Y += t.VY
	if t.X < 0 {
		t.X, t.VX = 0, -t.VX
	}
	if t.X > float64(w-1) {
		t.X, t.VX = float64(w-1), -t.VX
	}
	if t.Y < 0 {
		t.Y, t.VY = 0, -t.VY
	}
	if t.Y > float64(h-1) {
		t.Y, t.VY = float64(h-1), -t.VY
	}
}

// Glyph renders a rune at its owner's transform.
type Glyph struct {
	entity.BaseComponent
	Rune  rune
	Style tcell.Style

	screen tcell.Screen
	// offsetY shifts rendering below the HUD rows.
	offsetY int
}

func (g *Glyph) Draw() {
	tr, ok := entity.GetComponent[*Transform](g.Owner())
	if !ok {
		return
	}
	g.screen.SetContent(int(tr.X), int(tr.Y)+g.offsetY, g.Rune, nil, g.Style)
}

// Decay destroys its owner after a fixed number of ticks and announces the
// expiry once.
type Decay struct {
	entity.BaseComponent
	Remaining int

	age     int
	expired *event.Signal[expiry]
}

func (d *Decay) Update() {
	// Destroyed owners keep receiving Update until the next refresh; bail
	// early so the expiry fires exactly once.
	if !d.Owner().IsActive() {
		return
	}
	d.age++
	d.Remaining--
	if d.Remaining > 0 {
		return
	}
	d.Owner().Destroy()
	if d.expired != nil {
		r := ' '
		if g, ok := entity.GetComponent[*Glyph](d.Owner()); ok {
			r = g.Rune
		}
		d.expired.Emit(expiry{Glyph: r, Age: d.age})
	}
}

func styleFor(r rune) tcell.Style {
	switch {
	case r >= 'a' && r <= 'z':
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case r >= 'A' && r <= 'Z':
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case r >= '0' && r <= '9':
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorPurple)
	}
}

// Profiling:
// go build ./profile/frameloop
// ./frameloop -mode cpu
// go tool pprof -http=":8000" -nodefraction=0.001 ./frameloop cpu.pprof

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/profile"

	"github.com/hestiakit/hestia/core/entity"
)

type mover struct {
	entity.BaseComponent
	x, y   float64
	vx, vy float64
}

func (m *mover) Update() {
	m.x += m.vx
	m.y += m.vy
	if m.x < 0 || m.x > 512 {
		m.vx = -m.vx
	}
	if m.y < 0 || m.y > 512 {
		m.vy = -m.vy
	}
}

type fader struct {
	entity.BaseComponent
	remaining int
}

func (f *fader) Update() {
	if !f.Owner().IsActive() {
		return
	}
	f.remaining--
	if f.remaining <= 0 {
		f.Owner().Destroy()
	}
}

func main() {
	mode := flag.String("mode", "mem", "profile mode: cpu or mem")
	entities := flag.Int("entities", 4096, "entities per round")
	frames := flag.Int("frames", 2000, "frames per round")
	rounds := flag.Int("rounds", 10, "rounds")
	flag.Parse()

	var opt func(*profile.Profile)
	switch *mode {
	case "cpu":
		opt = profile.CPUProfile
	case "mem":
		opt = profile.MemProfileAllocs
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}

	p := profile.Start(opt, profile.ProfilePath("."), profile.NoShutdownHook)
	run(*rounds, *frames, *entities)
	p.Stop()
}

func run(rounds, frames, numEntities int) {
	for range rounds {
		m := entity.NewManager(nil, nil)
		for i := 0; i < numEntities; i++ {
			spawn(m, i)
		}
		for frame := 0; frame < frames; frame++ {
			m.Update()
			m.Draw()
			if frame%32 == 0 {
				before := m.Len()
				m.Refresh()
				for i := before - m.Len(); i > 0; i-- {
					spawn(m, frame+i)
				}
			}
		}
	}
}

func spawn(m *entity.Manager, seed int) {
	e := m.AddEntity()
	if _, err := entity.AddComponent(e, &mover{
		x:  float64(seed % 512),
		y:  float64((seed * 7) % 512),
		vx: 0.5,
		vy: -0.25,
	}); err != nil {
		panic(err)
	}
	if _, err := entity.AddComponent(e, &fader{remaining: 64 + seed%256}); err != nil {
		panic(err)
	}
}

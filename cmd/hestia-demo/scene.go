package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hestiakit/hestia/core/clock"
	"github.com/hestiakit/hestia/core/config"
	"github.com/hestiakit/hestia/core/entity"
	"github.com/hestiakit/hestia/core/event"
	"github.com/hestiakit/hestia/core/schedule"
	"github.com/hestiakit/hestia/internal/injector"
	"github.com/hestiakit/hestia/observability/log"
)

const glyphRunes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789#@%&*+"

// hudRows is the screen area reserved above the glyph field.
const hudRows = 2

var errQuit = errors.New("quit requested")

// scene glues the kit together: the manager drives glyph entities, the
// scheduler feeds spawn requests, expiries fan out over a signal, the
// stopwatch clocks the session and the store persists its tallies.
//
// The manager is single-threaded by contract, so everything that touches it
// runs on the frame goroutine; the detached spawner only bumps an atomic
// counter the frame loop drains.
type scene struct {
	cfg    *RuntimeConfig
	rt     *injector.Runtime
	screen tcell.Screen
	stats  *config.Store

	uptime  *clock.Stopwatch
	expired *event.Signal[expiry]

	width  atomic.Int32 // written by the input goroutine on resize
	height atomic.Int32

	pendingSpawns atomic.Int32

	frame        int
	spawnedTotal int
	expiredTotal int
	runs         int
}

func newScene(cfg *RuntimeConfig, rt *injector.Runtime, screen tcell.Screen, stats *config.Store) *scene {
	s := &scene{
		cfg:     cfg,
		rt:      rt,
		screen:  screen,
		stats:   stats,
		uptime:  clock.NewStopwatch(nil),
		expired: event.NewSignal[expiry](),
	}
	w, h := screen.Size()
	s.width.Store(int32(w))
	s.height.Store(int32(h))

	s.expired.Connect(func(e expiry) {
		s.expiredTotal++
		rt.Logger.Debug("glyph expired",
			log.String("glyph", string(e.Glyph)),
			log.Int("age_ticks", e.Age),
		)
	})

	s.runs = config.GetOr(stats, "session", "runs", 0) + 1
	config.Set(stats, "session", "runs", s.runs)

	return s
}

// fieldBounds is the glyph playfield: the screen minus the HUD rows.
func (s *scene) fieldBounds() (int, int) {
	return int(s.width.Load()), int(s.height.Load()) - hudRows
}

// startSpawner registers the detached spawn loop. The callback never touches
// the manager; it enqueues, and the frame loop spawns.
func (s *scene) startSpawner() {
	interval := time.Duration(s.cfg.SpawnEveryMS) * time.Millisecond
	s.rt.Scheduler.Loop(interval, func() {
		s.pendingSpawns.Add(1)
	}, 0, schedule.WithImmediate())
}

func (s *scene) spawnGlyph() error {
	if s.rt.Manager.Len() >= s.cfg.MaxGlyphs {
		return nil
	}
	w, h := s.fieldBounds()
	if w < 1 || h < 1 {
		return nil
	}

	e := s.rt.Manager.AddEntity()

	tr := &Transform{
		X:      float64(rand.IntN(w)),
		Y:      float64(rand.IntN(h)),
		VX:     randVelocity(),
		VY:     randVelocity(),
		bounds: s.fieldBounds,
	}
	if _, err := entity.AddComponent(e, tr); err != nil {
		return err
	}

	r := rune(glyphRunes[rand.IntN(len(glyphRunes))])
	glyph := &Glyph{
		Rune:    r,
		Style:   styleFor(r),
		screen:  s.screen,
		offsetY: hudRows,
	}
	if _, err := entity.AddComponent(e, glyph); err != nil {
		return err
	}

	lifetime := s.cfg.LifetimeTicks/2 + rand.IntN(s.cfg.LifetimeTicks)
	if _, err := entity.AddComponent(e, &Decay{Remaining: lifetime, expired: s.expired}); err != nil {
		return err
	}

	s.spawnedTotal++
	return nil
}

func randVelocity() float64 {
	v := 0.2 + rand.Float64()*0.6
	if rand.IntN(2) == 0 {
		return -v
	}
	return v
}

// tick advances one frame: drain spawn requests, update, draw, compact on
// the configured cadence.
func (s *scene) tick() error {
	s.frame++

	for n := s.pendingSpawns.Swap(0); n > 0; n-- {
		if err := s.spawnGlyph(); err != nil {
			return err
		}
	}

	s.rt.Manager.Update()

	s.screen.Clear()
	s.rt.Manager.Draw()
	s.drawHUD()
	s.screen.Show()

	if s.frame%s.cfg.RefreshEvery == 0 {
		s.rt.Manager.Refresh()
	}
	return nil
}

func (s *scene) drawHUD() {
	w := int(s.width.Load())
	line := fmt.Sprintf(" hestia demo | up %6.1fs | run #%d | alive %d | spawned %d | expired %d | q quits",
		s.uptime.Seconds(), s.runs, s.rt.Manager.Len(), s.spawnedTotal, s.expiredTotal)
	drawText(s.screen, 0, 0, w, line, tcell.StyleDefault.Reverse(true))
	for x := 0; x < w; x++ {
		s.screen.SetContent(x, 1, tcell.RuneHLine, nil, tcell.StyleDefault)
	}
}

func drawText(screen tcell.Screen, x, y, maxW int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= maxW {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
}

func (s *scene) run(ctx context.Context) error {
	for i := 0; i < s.cfg.InitialGlyphs; i++ {
		if err := s.spawnGlyph(); err != nil {
			return err
		}
	}
	s.startSpawner()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.frameLoop(ctx) })
	g.Go(func() error { return s.inputLoop(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

func (s *scene) frameLoop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.TickRateHz))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.tick(); err != nil {
				return err
			}
		}
	}
}

func (s *scene) inputLoop(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				// Fini unblocks PollEvent with nil.
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					return errQuit
				}
			case *tcell.EventResize:
				w, h := ev.Size()
				s.width.Store(int32(w))
				s.height.Store(int32(h))
				s.screen.Sync()
			}
		}
	}
}

// persistStats folds this session's tallies into the store and closes it.
func (s *scene) persistStats() error {
	config.Set(s.stats, "session", "total_spawned",
		config.GetOr(s.stats, "session", "total_spawned", 0)+s.spawnedTotal)
	config.Set(s.stats, "session", "total_expired",
		config.GetOr(s.stats, "session", "total_expired", 0)+s.expiredTotal)

	if up := s.uptime.Seconds(); up > config.GetOr(s.stats, "session", "best_uptime_seconds", 0.0) {
		config.Set(s.stats, "session", "best_uptime_seconds", up)
	}
	return s.stats.Close()
}

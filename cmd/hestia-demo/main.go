package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/hestiakit/hestia/core/config"
	"github.com/hestiakit/hestia/internal/injector"
	"github.com/hestiakit/hestia/observability/log"
)

func main() {
	configPath := flag.String("config", "hestia-demo.yaml", "runtime config file")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	rt := injector.NewRuntime(log.ParseLevel(cfg.LogLevel))
	stats := config.Open(cfg.StatsFile, config.WithLogger(rt.Logger))

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, "screen:", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "screen init:", err)
		os.Exit(1)
	}
	var finiOnce sync.Once
	fini := func() { finiOnce.Do(screen.Fini) }
	defer fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := newScene(cfg, rt, screen, stats)
	runErr := s.run(ctx)

	// Restore the terminal before anything writes to stderr.
	fini()

	if err := s.persistStats(); err != nil {
		rt.Logger.Warn("session stats not persisted", log.Error(err))
	}
	if runErr != nil {
		rt.Logger.Error("demo exited", log.Error(runErr))
		os.Exit(1)
	}
	rt.Logger.Info("session complete",
		log.Int("run", s.runs),
		log.Int("spawned", s.spawnedTotal),
		log.Int("expired", s.expiredTotal),
		log.Float64("uptime_seconds", s.uptime.Seconds()),
	)
}

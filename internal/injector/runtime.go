package injector

import (
	"github.com/hestiakit/hestia/core/entity"
	"github.com/hestiakit/hestia/core/schedule"
	"github.com/hestiakit/hestia/observability/log"
)

// Runtime bundles the services a host boots together: one logger, one
// component registry, the entity manager on top of it and a scheduler.
type Runtime struct {
	Logger    log.Log
	Registry  *entity.Registry
	Manager   *entity.Manager
	Scheduler *schedule.Scheduler
}

// NewRuntime assembles a Runtime at the given log level. It mirrors the
// wire provider set in injector.go for hosts that do not run wire.
func NewRuntime(level log.Level) *Runtime {
	logger := log.New(level)
	registry := entity.NewRegistry()
	return &Runtime{
		Logger:    logger,
		Registry:  registry,
		Manager:   entity.NewManager(registry, logger),
		Scheduler: schedule.New(logger),
	}
}

//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/hestiakit/hestia/core/entity"
	"github.com/hestiakit/hestia/core/schedule"
	"github.com/hestiakit/hestia/observability/log"
)

func ProvideLogger(level log.Level) log.Log {
	wire.Build(
		log.New,
		wire.Bind(new(log.Log), new(*log.Logger)),
	)
	return nil
}

func ProvideRuntime(level log.Level) *Runtime {
	wire.Build(
		log.New,
		wire.Bind(new(log.Log), new(*log.Logger)),
		entity.NewRegistry,
		entity.NewManager,
		schedule.New,
		wire.Struct(new(Runtime), "*"),
	)
	return nil
}

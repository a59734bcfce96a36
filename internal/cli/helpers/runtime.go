package helpers

import (
	"github.com/rs/zerolog"

	"github.com/coral-mesh/symsize/internal/config"
)

// Runtime carries the state shared by all commands. The root command fills
// it in before any subcommand runs.
type Runtime struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRuntime returns a Runtime with default configuration and a no-op
// logger.
func NewRuntime() *Runtime {
	return &Runtime{
		Config: config.DefaultConfig(),
		Logger: zerolog.Nop(),
	}
}

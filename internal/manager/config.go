package manager

import (
	"time"

	"github.com/rs/zerolog"

	"motiond/internal/common/fsutil"
	"motiond/internal/config"
	"motiond/internal/offload"
	"motiond/internal/runtime"
)

// RuntimeFactory builds the runtime handle. Injectable so tests can
// substitute a fake without touching process globals.
type RuntimeFactory func(cfg config.Config, log zerolog.Logger) (runtime.Runtime, error)

// OffloadFunc applies the offload policy to a freshly constructed runtime
// and returns the outcome. Injectable for the same reason.
type OffloadFunc func(rt runtime.Runtime) offload.Outcome

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Service config.Config
	Logger  zerolog.Logger
	// Factory defaults to constructing a T2MRuntime from Service.
	Factory RuntimeFactory
	// Offload defaults to offload.Apply with the configured profile.
	Offload OffloadFunc
}

// NewWithConfig constructs a Manager from ManagerConfig, filling defaults
// for unset hooks.
func NewWithConfig(mc ManagerConfig) *Manager {
	m := &Manager{
		cfg:       mc.Service,
		log:       mc.Logger,
		factory:   mc.Factory,
		offload:   mc.Offload,
		startTime: time.Now(),
	}
	if m.factory == nil {
		m.factory = defaultFactory
	}
	if m.offload == nil {
		prof := mc.Service.OffloadProfile
		verb := mc.Service.OffloadVerbose
		logger := mc.Logger
		m.offload = func(rt runtime.Runtime) offload.Outcome {
			return offload.Apply(rt.ExtractTunableComponents(), prof, verb, logger)
		}
	}
	return m
}

// defaultFactory builds the real model runtime. A missing checkpoint file
// switches to degraded skip-weights mode rather than failing.
func defaultFactory(cfg config.Config, log zerolog.Logger) (runtime.Runtime, error) {
	return runtime.New(runtime.Options{
		ConfigPath:               cfg.ConfigPath(),
		CheckpointPath:           cfg.CheckpointPath(),
		SkipWeights:              !fsutil.PathExists(cfg.CheckpointPath()),
		DisablePromptEngineering: cfg.DisablePromptEngineering,
		Quantization:             cfg.Quantization,
		SkipWoodenMesh:           cfg.SkipWoodenMesh,
		Logger:                   log,
	})
}

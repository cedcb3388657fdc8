package manager

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"motiond/internal/common/fsutil"
	"motiond/internal/config"
	"motiond/internal/offload"
	"motiond/internal/runtime"
)

// Manager owns the single runtime handle. The check-then-create sequence in
// Handle is guarded by mu so concurrent first requests converge on one
// instance; only the instance is remembered, never a construction error.
//
// mu is held for the whole construction, which can take minutes. State read
// by Ready and Status lives behind stateMu, which is only ever held for a
// few field accesses, so probes stay responsive while construction runs.
type Manager struct {
	cfg config.Config
	log zerolog.Logger

	// mu serializes the check-then-create sequence in Handle.
	mu sync.Mutex

	stateMu        sync.Mutex
	rt             runtime.Runtime
	offloadOutcome offload.Outcome
	lastErr        string

	ready atomic.Bool

	// genMu serializes Generate calls: accelerator state is single-flight.
	genMu sync.Mutex

	factory RuntimeFactory
	offload OffloadFunc

	startTime   time.Time
	generations atomic.Uint64
}

// New constructs a Manager with default hooks.
func New(cfg config.Config, log zerolog.Logger) *Manager {
	return NewWithConfig(ManagerConfig{Service: cfg, Logger: log})
}

func (m *Manager) current() runtime.Runtime {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.rt
}

func (m *Manager) recordErr(err error) {
	m.stateMu.Lock()
	m.lastErr = err.Error()
	m.stateMu.Unlock()
}

// Handle returns the runtime handle, constructing it on first use. Safe for
// concurrent callers; at most one construction proceeds. On first successful
// construction the offload policy is applied exactly once.
func (m *Manager) Handle() (runtime.Runtime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rt := m.current(); rt != nil {
		return rt, nil
	}

	if !fsutil.PathExists(m.cfg.ConfigPath()) {
		err := ErrConfigMissing(m.cfg.ConfigPath())
		m.recordErr(err)
		return nil, err
	}

	start := time.Now()
	m.log.Info().Str("model_dir", m.cfg.ModelDir).Msg("constructing runtime")
	rt, err := m.factory(m.cfg, m.log)
	if err != nil {
		werr := ErrConstruction(err)
		m.recordErr(werr)
		m.log.Error().Err(err).Msg("runtime construction failed")
		return nil, werr
	}

	outcome := m.offload(rt)
	m.log.Info().
		Str("offload", outcome.String()).
		Bool("weights_loaded", rt.WeightsLoaded()).
		Dur("dur", time.Since(start)).
		Msg("runtime ready")
	runtimeLoaded.Set(1)
	if rt.WeightsLoaded() {
		weightsLoaded.Set(1)
	}

	m.stateMu.Lock()
	m.rt = rt
	m.offloadOutcome = outcome
	m.lastErr = ""
	m.stateMu.Unlock()
	m.ready.Store(true)
	return rt, nil
}

// Ready reports whether the runtime handle exists. It never blocks behind
// an in-flight construction.
func (m *Manager) Ready() bool {
	return m.ready.Load()
}

// Preload attempts to construct the runtime at startup. Best-effort: a
// failure is logged and the first real request pays the initialization cost.
func (m *Manager) Preload(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	if _, err := m.Handle(); err != nil {
		m.log.Warn().Err(err).Msg("runtime not loaded at startup")
	}
}

// Close releases the runtime if one was constructed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt := m.current()
	if rt == nil {
		return nil
	}
	m.ready.Store(false)
	err := rt.Close()
	m.stateMu.Lock()
	m.rt = nil
	m.stateMu.Unlock()
	return err
}

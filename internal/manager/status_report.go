package manager

import (
	"time"

	"motiond/pkg/types"
)

// Status builds a detailed status response for /status. It reads the state
// snapshot only, so it stays responsive while a construction is in flight.
func (m *Manager) Status() types.StatusResponse {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	state := "cold"
	weights := false
	if m.rt != nil {
		state = "ready"
		weights = m.rt.WeightsLoaded()
	} else if m.lastErr != "" {
		state = "error"
	}

	return types.StatusResponse{
		State:            state,
		RuntimeLoaded:    m.rt != nil,
		WeightsLoaded:    weights,
		OffloadProfile:   m.cfg.OffloadProfile,
		OffloadOutcome:   string(m.offloadOutcome.Status),
		GenerationsTotal: m.generations.Load(),
		LastError:        m.lastErr,
		UptimeSeconds:    int64(time.Since(m.startTime).Seconds()),
		ServerTimeUnix:   time.Now().Unix(),
	}
}

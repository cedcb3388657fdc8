// Package offload applies a profile-driven memory/speed trade-off to the
// runtime's model components, moving them between the accelerator and host
// tiers. Application is best-effort: every failure mode is folded into the
// returned Outcome and never reaches the caller as an error.
package offload

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Tier names a placement target for a model component.
type Tier string

const (
	TierAccelerator Tier = "accelerator"
	TierHost        Tier = "host"
)

// Component is one tunable model component extracted from the runtime.
// Tier is mutated in place by Apply.
type Component struct {
	Name   string
	SizeMB int
	Tier   Tier
}

// DefaultBudgetMB is the per-component ceiling used by custom profiles
// (anything positive other than 1 or 3).
const DefaultBudgetMB = 4000

// Profile numbers with built-in placement strategies.
const (
	ProfileMaxOffload = 1
	ProfileBalanced   = 3
)

// Status classifies the result of an Apply call.
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome reports what Apply did. Callers log it and move on; a skipped or
// failed outcome must never prevent the service from becoming usable.
type Outcome struct {
	Status  Status
	Reason  string
	Profile int
	Moved   int
}

func (o Outcome) String() string {
	if o.Reason == "" {
		return fmt.Sprintf("%s (profile %d, moved %d)", o.Status, o.Profile, o.Moved)
	}
	return fmt.Sprintf("%s: %s (profile %d)", o.Status, o.Reason, o.Profile)
}

// errUnavailable signals that no placement support is present in this build.
var errUnavailable = errors.New("offload support unavailable")

// planner performs the actual placement pass. budgetMB == 0 means the
// profile's own defaults govern placement.
type planner interface {
	place(comps []*Component, profile, budgetMB int) (moved int, err error)
}

// newPlanner is a hook so tests can simulate an absent or failing planner.
var newPlanner = func() (planner, error) { return tierPlanner{}, nil }

// Apply runs the placement pass for the given profile. It never panics past
// its own boundary and never returns an error; the Outcome carries the result.
func Apply(comps []*Component, profile, verbose int, log zerolog.Logger) (out Outcome) {
	out = Outcome{Status: StatusApplied, Profile: profile}
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Status: StatusFailed, Reason: fmt.Sprintf("panic: %v", r), Profile: profile}
			log.Error().Str("outcome", out.String()).Msg("offload apply panicked")
		}
	}()

	if profile <= 0 {
		out.Status = StatusSkipped
		out.Reason = "disabled"
		return out
	}

	p, err := newPlanner()
	if err != nil {
		if errors.Is(err, errUnavailable) {
			out.Status = StatusSkipped
			out.Reason = err.Error()
			log.Info().Int("profile", profile).Msg("offload support not present, continuing without it")
			return out
		}
		out.Status = StatusFailed
		out.Reason = err.Error()
		log.Error().Err(err).Int("profile", profile).Msg("offload planner init failed")
		return out
	}

	if len(comps) == 0 {
		out.Status = StatusSkipped
		out.Reason = "no tunable components"
		log.Warn().Int("profile", profile).Msg("no components extracted for offload, skipping")
		return out
	}

	budget := 0
	if profile != ProfileMaxOffload && profile != ProfileBalanced {
		budget = DefaultBudgetMB
	}

	moved, err := p.place(comps, profile, budget)
	if err != nil {
		out.Status = StatusFailed
		out.Reason = err.Error()
		log.Error().Err(err).Int("profile", profile).Msg("offload apply failed")
		return out
	}
	out.Moved = moved

	if verbose >= 1 {
		log.Info().Int("profile", profile).Int("moved", moved).Int("components", len(comps)).Msg("offload profile applied")
	}
	if verbose >= 2 {
		for _, c := range comps {
			log.Debug().Str("component", c.Name).Int("size_mb", c.SizeMB).Str("tier", string(c.Tier)).Msg("offload placement")
		}
	}
	return out
}

package manager

import (
	"context"
	"strconv"
	"time"

	"motiond/pkg/types"
)

// GenerateMotion runs one validated request through the pipeline: acquire
// the singleton, generate inside a scoped scratch workspace, serialize the
// result. The request must already have defaults applied and bounds checked
// at the boundary.
func (m *Manager) GenerateMotion(ctx context.Context, req types.MotionRequest) (*types.MotionResponse, error) {
	rt, err := m.Handle()
	if err != nil {
		// Service-unavailable: the request was never attempted.
		return nil, err
	}

	ws, err := newScratchWorkspace()
	if err != nil {
		return nil, ErrGeneration(err)
	}
	defer ws.cleanup(m.log)

	start := time.Now()
	m.genMu.Lock()
	out, err := rt.Generate(ctx, runtimeParams(req, ws.dir))
	m.genMu.Unlock()
	if err != nil {
		generationsTotal.WithLabelValues("error").Inc()
		m.log.Error().Err(err).Str("text", req.Text).Msg("generation failed")
		return nil, ErrGeneration(err)
	}

	motion, err := serializeMotion(out, m.cfg.MotionFPS)
	if err != nil {
		generationsTotal.WithLabelValues("error").Inc()
		return nil, ErrGeneration(err)
	}

	m.generations.Add(1)
	generationsTotal.WithLabelValues("ok").Inc()
	generationSeconds.Observe(time.Since(start).Seconds())
	m.log.Info().
		Int("num_frames", motion.NumFrames).
		Str("seed", strconv.FormatInt(*req.Seed, 10)).
		Dur("dur", time.Since(start)).
		Msg("motion generated")

	return &types.MotionResponse{
		Motion: *motion,
		Meta: types.MotionMeta{
			Text:     req.Text,
			Duration: *req.Duration,
			Seed:     *req.Seed,
		},
	}, nil
}

// Package runtime wraps the text-to-motion generative model. The rest of the
// service treats it as an opaque handle: construct once, generate many times.
package runtime

import (
	"context"

	"motiond/internal/offload"
	"motiond/internal/tensor"
)

// GenerateParams are the inputs of one generation call.
type GenerateParams struct {
	// Text is the generation prompt; the rewriter may expand it internally.
	Text string
	// OriginalText is passed through unmodified for downstream consumers
	// that want the pre-rewrite prompt.
	OriginalText string
	Seed         int64
	Duration     float64
	CfgScale     float64
	// OutputDir is a sink for intermediate artifacts. The caller owns its
	// lifecycle.
	OutputDir string
}

// Output is the structured result of one generation. All tensors carry a
// leading batch axis.
type Output struct {
	Keypoints3D      tensor.Tensor
	Rot6D            tensor.Tensor
	Transl           tensor.Tensor
	RootRotationsMat tensor.Tensor
	// Text is the original prompt passthrough.
	Text string
}

// Runtime abstracts the loaded model so the manager can be tested against a
// fake. Generate is not safe for concurrent use; callers serialize.
type Runtime interface {
	Generate(ctx context.Context, params GenerateParams) (*Output, error)
	// ExtractTunableComponents lists the model components the offload pass
	// may relocate. May return nil when nothing is tunable.
	ExtractTunableComponents() []*offload.Component
	// WeightsLoaded reports whether checkpoint weights were actually loaded
	// (false when the runtime was built in degraded skip-weights mode).
	WeightsLoaded() bool
	// Close releases resources associated with the runtime.
	Close() error
}

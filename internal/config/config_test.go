package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	c := Default()
	if c.Addr != ":8080" {
		t.Fatalf("addr=%s", c.Addr)
	}
	if c.OffloadProfile != 3 {
		t.Fatalf("profile=%d", c.OffloadProfile)
	}
	if c.MotionFPS != 30 {
		t.Fatalf("fps=%d", c.MotionFPS)
	}
	if !c.DisablePromptEngineering {
		t.Fatalf("prompt engineering should default off")
	}
	if c.Quantization != "int4" {
		t.Fatalf("quant=%s", c.Quantization)
	}
}

func TestDerivedPaths(t *testing.T) {
	c := Config{ModelDir: "/models/hy"}
	if got := c.ConfigPath(); got != filepath.Join("/models/hy", "config.yml") {
		t.Fatalf("config path=%s", got)
	}
	if got := c.CheckpointPath(); got != filepath.Join("/models/hy", "latest.ckpt") {
		t.Fatalf("ckpt path=%s", got)
	}
}

func TestFromEnvOverlay(t *testing.T) {
	t.Setenv(EnvModelDir, "/tmp/model")
	t.Setenv(EnvOffloadProfile, "1")
	t.Setenv(EnvOffloadVerbose, "2")
	t.Setenv(EnvDisablePromptRW, "false")
	t.Setenv(EnvQuantization, "INT8")
	t.Setenv(EnvSkipWoodenMesh, "1")
	t.Setenv(EnvAddr, ":9999")

	c := FromEnv()
	if c.ModelDir != "/tmp/model" || c.OffloadProfile != 1 || c.OffloadVerbose != 2 {
		t.Fatalf("env overlay failed: %+v", c)
	}
	if c.DisablePromptEngineering {
		t.Fatalf("expected prompt engineering enabled")
	}
	if c.Quantization != "int8" {
		t.Fatalf("quant=%s", c.Quantization)
	}
	if !c.SkipWoodenMesh || c.Addr != ":9999" {
		t.Fatalf("env overlay failed: %+v", c)
	}
}

func TestFromEnvIgnoresUnparsableInts(t *testing.T) {
	t.Setenv(EnvOffloadProfile, "banana")
	c := FromEnv()
	if c.OffloadProfile != Default().OffloadProfile {
		t.Fatalf("profile=%d", c.OffloadProfile)
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "Yes", "on", " 1 "} {
		if !truthy(v) {
			t.Fatalf("%q should be truthy", v)
		}
	}
	for _, v := range []string{"0", "false", "no", "off", "", "2"} {
		if truthy(v) {
			t.Fatalf("%q should be falsy", v)
		}
	}
}

func TestNormalizeRejectsUnknownQuantization(t *testing.T) {
	c := Default()
	c.Quantization = "fp9"
	if _, err := c.Normalize(); err == nil {
		t.Fatalf("expected quantization error")
	}
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	c := Config{ModelDir: "/m", Quantization: ""}
	out, err := c.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Quantization != "int4" || out.MotionFPS != 30 || out.MaxBodyBytes != 1<<20 {
		t.Fatalf("normalize defaults: %+v", out)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "motiond.yaml")
	body := "addr: \":7070\"\noffload_profile: 2\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p, Default())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Addr != ":7070" || c.OffloadProfile != 2 {
		t.Fatalf("loaded=%+v", c)
	}
	// Fields absent from the file keep base values.
	if c.MotionFPS != 30 || c.Quantization != "int4" {
		t.Fatalf("base values lost: %+v", c)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "motiond.toml")
	body := "addr = \":7171\"\nskip_wooden_mesh = true\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p, Default())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Addr != ":7171" || !c.SkipWoodenMesh {
		t.Fatalf("loaded=%+v", c)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "motiond.json")
	body := `{"model_dir":"/opt/hy","log_level":"debug"}`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p, Default())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.ModelDir != "/opt/hy" || c.LogLevel != "debug" {
		t.Fatalf("loaded=%+v", c)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "motiond.ini")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p, Default()); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := Load("", Default()); err == nil {
		t.Fatalf("expected empty path error")
	}
}

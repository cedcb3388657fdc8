package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"motiond/internal/common/fsutil"
	"motiond/internal/config"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	// Environment supplies defaults; flags override.
	cfg := config.FromEnv()
	var cfgFile string

	root := &cobra.Command{
		Use:           "motiond",
		Short:         "Text-to-motion inference daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Optional config file (.toml/.yaml/.json)")
	pf.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address, e.g. :8080")
	pf.StringVar(&cfg.ModelDir, "model-dir", cfg.ModelDir, "Directory containing config.yml and latest.ckpt")
	pf.IntVar(&cfg.OffloadProfile, "offload-profile", cfg.OffloadProfile, "Offload profile: 0 off, 1 max offload, 3 balanced, other=fixed budget")
	pf.IntVar(&cfg.OffloadVerbose, "offload-verbose", cfg.OffloadVerbose, "Offload logging verbosity")
	pf.BoolVar(&cfg.DisablePromptEngineering, "disable-prompt-engineering", cfg.DisablePromptEngineering, "Skip the LLM prompt rewriter")
	pf.StringVar(&cfg.Quantization, "quantization", cfg.Quantization, "Prompt rewriter quantization: int4, int8 or none")
	pf.BoolVar(&cfg.SkipWoodenMesh, "skip-wooden-mesh", cfg.SkipWoodenMesh, "Skip the wooden body model (keypoints zeroed)")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	root.AddCommand(newServeCmd(&cfg, &cfgFile))
	root.AddCommand(newCheckCmd(&cfg, &cfgFile))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("motiond", version)
		},
	})

	// Default to serve when no subcommand given.
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cfg, cfgFile)
	}
	return root
}

// resolveConfig merges the optional config file over the flag-resolved
// config, then normalizes. The file only supplies fields it declares, so
// unset file fields keep their env/flag values.
func resolveConfig(cfg config.Config, cfgFile string) (config.Config, error) {
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile, cfg)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		cfg = loaded
	}
	return cfg.Normalize()
}

func newCheckCmd(cfg *config.Config, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and model directory without loading weights",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveConfig(*cfg, *cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("model dir:    %s\n", c.ModelDir)
			if !fsutil.PathExists(c.ConfigPath()) {
				return fmt.Errorf("model config not found: %s", c.ConfigPath())
			}
			fmt.Printf("model config: %s\n", c.ConfigPath())
			if fsutil.PathExists(c.CheckpointPath()) {
				fmt.Printf("checkpoint:   %s\n", c.CheckpointPath())
			} else {
				fmt.Printf("checkpoint:   %s (absent, runtime would start degraded)\n", c.CheckpointPath())
			}
			fmt.Printf("offload:      profile %d\n", c.OffloadProfile)
			return nil
		},
	}
}

func newServeCmd(cfg *config.Config, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*cfg, *cfgFile)
		},
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

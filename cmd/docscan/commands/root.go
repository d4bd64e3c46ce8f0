// Package commands wires the docscan CLI.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/brightpage/docscan/internal/camera"
	"github.com/brightpage/docscan/internal/config"
	"github.com/brightpage/docscan/internal/enhance"
	"github.com/brightpage/docscan/internal/logging"
)

var (
	cfgFile  string
	verbose  bool
	jsonLogs bool

	// cfg and logger are built once in the root PersistentPreRunE and shared
	// by every subcommand.
	cfg    *config.Config
	logger zerolog.Logger

	buildVersion = "dev"
	buildTime    = "unknown"
	buildCommit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "docscan",
	Short: "Document capture and enhancement pipeline",
	Long: `docscan detects document boundaries in camera frames, rectifies the
perspective-distorted page onto an upright fixed-size raster, cleans it up
(shadow removal, brightness normalization, contrast, sharpening), and
assembles captured pages into a print-ready PDF.

Frame input comes from a directory of still images served in filename order,
or from a built-in synthetic scene for demos and smoke tests.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A local .env participates in the config environment overrides.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		format := cfg.Logging.Format
		if jsonLogs {
			format = "json"
		}

		// Stdout stays reserved for command output (and for the control
		// protocol under serve); logs always go to stderr.
		logger = logging.New(level, format, os.Stderr, "docscan")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit JSON logs instead of console format")
}

// SetBuildInfo records the build identity stamped into the binary by
// ldflags; the version command reports it.
func SetBuildInfo(version, builtAt, commit string) {
	buildVersion = version
	buildTime = builtAt
	buildCommit = commit
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openSource builds the frame source shared by scan and serve: a directory
// of stills, or the synthetic demo scene when demo is set.
func openSource(input string, demo bool) (camera.Source, error) {
	if demo {
		return camera.NewSynthetic(0, 0), nil
	}
	if input == "" {
		return nil, errors.New("--input is required (or pass --demo)")
	}
	return camera.OpenDirectory(input)
}

// parseMode validates a --mode flag value.
func parseMode(s string) (enhance.Mode, error) {
	switch m := enhance.Mode(s); m {
	case enhance.ModeAuto, enhance.ModeColor, enhance.ModeMonochrome:
		return m, nil
	default:
		return "", fmt.Errorf("mode %q is not supported, use auto, color or monochrome", s)
	}
}

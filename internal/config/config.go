// Package config provides unified configuration loading for docscan.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brightpage/docscan/internal/assemble"
	"github.com/brightpage/docscan/internal/capture"
	"github.com/brightpage/docscan/internal/detection"
	"github.com/brightpage/docscan/internal/enhance"
	"github.com/brightpage/docscan/internal/rectify"
)

// Config holds all configuration for docscan.
type Config struct {
	Detection DetectionConfig `yaml:"detection"`
	Page      PageConfig      `yaml:"page"`
	Enhance   EnhanceConfig   `yaml:"enhance"`
	Assemble  AssembleConfig  `yaml:"assemble"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DetectionConfig holds boundary detection and detection loop settings.
type DetectionConfig struct {
	IntervalMS      int     `yaml:"interval_ms"`
	AnalysisMaxDim  int     `yaml:"analysis_max_dim"`
	LowThreshold    int     `yaml:"low_threshold"`
	HighThreshold   int     `yaml:"high_threshold"`
	MinContourSize  int     `yaml:"min_contour_size"`
	MinAreaFraction float64 `yaml:"min_area_fraction"`
	MaxAreaFraction float64 `yaml:"max_area_fraction"`
	MinConfidence   float64 `yaml:"min_confidence"`
}

// PageConfig selects the output page preset.
type PageConfig struct {
	Size string `yaml:"size"` // letter or a4
	DPI  int    `yaml:"dpi"`
}

// EnhanceConfig holds the default enhancement settings for captures.
type EnhanceConfig struct {
	Mode                string  `yaml:"mode"` // auto, color or monochrome
	ShadowRemoval       bool    `yaml:"shadow_removal"`
	BrightnessNormalize bool    `yaml:"brightness_normalize"`
	ContrastBoost       float64 `yaml:"contrast_boost"`
	Sharpen             bool    `yaml:"sharpen"`
}

// AssembleConfig holds document assembly settings.
type AssembleConfig struct {
	JPEGQuality int `yaml:"jpeg_quality"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// pageDims carries the physical page dimensions of one preset. Pixel sizes
// derive from inches and DPI; point sizes are the PDF-standard values.
type pageDims struct {
	widthIn  float64
	heightIn float64
	widthPt  float64
	heightPt float64
}

var pageSizes = map[string]pageDims{
	"letter": {widthIn: 8.5, heightIn: 11, widthPt: 612, heightPt: 792},
	"a4":     {widthIn: 210.0 / 25.4, heightIn: 297.0 / 25.4, widthPt: 595, heightPt: 842},
}

// Load reads configuration from a YAML file and applies environment
// overrides. An empty path loads defaults plus overrides only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			IntervalMS:      200,
			AnalysisMaxDim:  detection.DefaultAnalysisMaxDim,
			LowThreshold:    detection.DefaultLowThreshold,
			HighThreshold:   detection.DefaultHighThreshold,
			MinContourSize:  detection.DefaultMinContourSize,
			MinAreaFraction: detection.DefaultMinAreaFraction,
			MaxAreaFraction: detection.DefaultMaxAreaFraction,
			MinConfidence:   capture.DefaultMinConfidence,
		},
		Page: PageConfig{
			Size: "letter",
			DPI:  300,
		},
		Enhance: EnhanceConfig{
			Mode:                string(enhance.ModeAuto),
			ShadowRemoval:       true,
			BrightnessNormalize: true,
			ContrastBoost:       1.3,
			Sharpen:             true,
		},
		Assemble: AssembleConfig{
			JPEGQuality: assemble.DefaultJPEGQuality,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Detection.IntervalMS < 10 {
		return fmt.Errorf("detection.interval_ms must be at least 10, got %d", c.Detection.IntervalMS)
	}
	if c.Detection.AnalysisMaxDim < 32 {
		return fmt.Errorf("detection.analysis_max_dim must be at least 32, got %d", c.Detection.AnalysisMaxDim)
	}
	if c.Detection.LowThreshold >= c.Detection.HighThreshold {
		return fmt.Errorf("detection.low_threshold (%d) must be below high_threshold (%d)",
			c.Detection.LowThreshold, c.Detection.HighThreshold)
	}
	if c.Detection.MinAreaFraction <= 0 || c.Detection.MaxAreaFraction > 1 ||
		c.Detection.MinAreaFraction >= c.Detection.MaxAreaFraction {
		return fmt.Errorf("detection area fractions must satisfy 0 < min (%g) < max (%g) <= 1",
			c.Detection.MinAreaFraction, c.Detection.MaxAreaFraction)
	}
	if c.Detection.MinConfidence < 0 || c.Detection.MinConfidence > 1 {
		return fmt.Errorf("detection.min_confidence must be between 0 and 1, got %g", c.Detection.MinConfidence)
	}

	if _, ok := pageSizes[strings.ToLower(c.Page.Size)]; !ok {
		return fmt.Errorf("page.size %q is not supported, use letter or a4", c.Page.Size)
	}
	if c.Page.DPI < 72 || c.Page.DPI > 1200 {
		return fmt.Errorf("page.dpi must be between 72 and 1200, got %d", c.Page.DPI)
	}

	switch enhance.Mode(c.Enhance.Mode) {
	case enhance.ModeAuto, enhance.ModeColor, enhance.ModeMonochrome:
	default:
		return fmt.Errorf("enhance.mode %q is not supported, use auto, color or monochrome", c.Enhance.Mode)
	}
	if c.Enhance.ContrastBoost < 0 || c.Enhance.ContrastBoost > 5 {
		return fmt.Errorf("enhance.contrast_boost must be between 0 and 5, got %g", c.Enhance.ContrastBoost)
	}

	if c.Assemble.JPEGQuality < 1 || c.Assemble.JPEGQuality > 100 {
		return fmt.Errorf("assemble.jpeg_quality must be between 1 and 100, got %d", c.Assemble.JPEGQuality)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not supported, use json or console", c.Logging.Format)
	}

	return nil
}

// Pixels returns the output page dimensions in pixels for the preset at the
// configured DPI.
func (p PageConfig) Pixels() (int, int) {
	d := pageSizes[strings.ToLower(p.Size)]
	return int(math.Round(d.widthIn * float64(p.DPI))), int(math.Round(d.heightIn * float64(p.DPI)))
}

// Points returns the PDF MediaBox dimensions for the preset.
func (p PageConfig) Points() (float64, float64) {
	d := pageSizes[strings.ToLower(p.Size)]
	return d.widthPt, d.heightPt
}

// Rectifier builds the perspective rectifier for the configured page.
func (p PageConfig) Rectifier() rectify.Rectifier {
	w, h := p.Pixels()
	return rectify.Rectifier{Width: w, Height: h}
}

// DetectorConfig maps the detection section onto the detector's knobs.
func (d DetectionConfig) DetectorConfig() detection.Config {
	return detection.Config{
		LowThreshold:    d.LowThreshold,
		HighThreshold:   d.HighThreshold,
		MinContourSize:  d.MinContourSize,
		MinAreaFraction: d.MinAreaFraction,
		MaxAreaFraction: d.MaxAreaFraction,
	}
}

// SchedulerConfig maps the detection section onto the detection loop.
func (d DetectionConfig) SchedulerConfig() capture.SchedulerConfig {
	return capture.SchedulerConfig{
		Interval:       time.Duration(d.IntervalMS) * time.Millisecond,
		AnalysisMaxDim: d.AnalysisMaxDim,
		MinConfidence:  d.MinConfidence,
	}
}

// Settings maps the enhance section onto capture-time defaults.
func (e EnhanceConfig) Settings() enhance.Settings {
	return enhance.Settings{
		Mode:                enhance.Mode(e.Mode),
		ShadowRemoval:       e.ShadowRemoval,
		BrightnessNormalize: e.BrightnessNormalize,
		ContrastBoost:       e.ContrastBoost,
		Sharpen:             e.Sharpen,
	}
}

// Assembler builds the document assembler for the configured page preset.
func (c *Config) Assembler() assemble.Assembler {
	wpt, hpt := c.Page.Points()
	return assemble.Assembler{
		PageWidthPt:  wpt,
		PageHeightPt: hpt,
		JPEGQuality:  c.Assemble.JPEGQuality,
	}
}

// CaptureOptions bundles the full pipeline configuration for a controller.
func (c *Config) CaptureOptions() capture.Options {
	return capture.Options{
		Detector:  c.Detection.DetectorConfig(),
		Scheduler: c.Detection.SchedulerConfig(),
		Rectifier: c.Page.Rectifier(),
		Assembler: c.Assembler(),
		Defaults:  c.Enhance.Settings(),
	}
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DOCSCAN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DOCSCAN_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("DOCSCAN_DETECTION_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.Detection.IntervalMS = ms
		}
	}
	if v := os.Getenv("DOCSCAN_PAGE_SIZE"); v != "" {
		cfg.Page.Size = v
	}
	if v := os.Getenv("DOCSCAN_PAGE_DPI"); v != "" {
		if dpi, err := strconv.Atoi(v); err == nil {
			cfg.Page.DPI = dpi
		}
	}
}

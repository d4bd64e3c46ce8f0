package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}

	if cfg.Detection.IntervalMS != 200 {
		t.Errorf("IntervalMS = %d, want 200", cfg.Detection.IntervalMS)
	}
	if cfg.Detection.MinConfidence != 0.5 {
		t.Errorf("MinConfidence = %g, want 0.5", cfg.Detection.MinConfidence)
	}
	if cfg.Page.Size != "letter" || cfg.Page.DPI != 300 {
		t.Errorf("page preset = %s@%d, want letter@300", cfg.Page.Size, cfg.Page.DPI)
	}
	if cfg.Enhance.ContrastBoost != 1.3 {
		t.Errorf("ContrastBoost = %g, want 1.3", cfg.Enhance.ContrastBoost)
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("loading a missing config file should fail")
	}
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
detection:
  interval_ms: 100
  min_confidence: 0.7
page:
  size: a4
enhance:
  mode: monochrome
  contrast_boost: 1.5
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Detection.IntervalMS != 100 {
		t.Errorf("IntervalMS = %d, want 100", cfg.Detection.IntervalMS)
	}
	if cfg.Detection.MinConfidence != 0.7 {
		t.Errorf("MinConfidence = %g, want 0.7", cfg.Detection.MinConfidence)
	}
	if cfg.Page.Size != "a4" {
		t.Errorf("page size = %s, want a4", cfg.Page.Size)
	}
	if cfg.Enhance.Mode != "monochrome" || cfg.Enhance.ContrastBoost != 1.5 {
		t.Errorf("enhance = %s/%g, want monochrome/1.5", cfg.Enhance.Mode, cfg.Enhance.ContrastBoost)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %s/%s, want debug/json", cfg.Logging.Level, cfg.Logging.Format)
	}
	// Untouched sections keep their defaults.
	if cfg.Detection.AnalysisMaxDim != Default().Detection.AnalysisMaxDim {
		t.Error("fields absent from the file should keep defaults")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("detection: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed YAML should fail to load")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCSCAN_LOG_LEVEL", "warn")
	t.Setenv("DOCSCAN_LOG_FORMAT", "json")
	t.Setenv("DOCSCAN_DETECTION_INTERVAL_MS", "50")
	t.Setenv("DOCSCAN_PAGE_SIZE", "a4")
	t.Setenv("DOCSCAN_PAGE_DPI", "150")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %s, want warn", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Format = %s, want json", cfg.Logging.Format)
	}
	if cfg.Detection.IntervalMS != 50 {
		t.Errorf("IntervalMS = %d, want 50", cfg.Detection.IntervalMS)
	}
	if cfg.Page.Size != "a4" || cfg.Page.DPI != 150 {
		t.Errorf("page = %s@%d, want a4@150", cfg.Page.Size, cfg.Page.DPI)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"interval too small", func(c *Config) { c.Detection.IntervalMS = 5 }},
		{"analysis dim too small", func(c *Config) { c.Detection.AnalysisMaxDim = 16 }},
		{"thresholds inverted", func(c *Config) { c.Detection.LowThreshold = 200 }},
		{"area window inverted", func(c *Config) { c.Detection.MinAreaFraction = 0.99 }},
		{"area max above one", func(c *Config) { c.Detection.MaxAreaFraction = 1.2 }},
		{"confidence above one", func(c *Config) { c.Detection.MinConfidence = 1.5 }},
		{"unknown page size", func(c *Config) { c.Page.Size = "tabloid" }},
		{"dpi too low", func(c *Config) { c.Page.DPI = 20 }},
		{"unknown mode", func(c *Config) { c.Enhance.Mode = "sepia" }},
		{"contrast out of range", func(c *Config) { c.Enhance.ContrastBoost = 9 }},
		{"jpeg quality zero", func(c *Config) { c.Assemble.JPEGQuality = 0 }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestPageConfig_Pixels(t *testing.T) {
	letter := PageConfig{Size: "letter", DPI: 300}
	if w, h := letter.Pixels(); w != 2550 || h != 3300 {
		t.Errorf("letter@300 = %dx%d px, want 2550x3300", w, h)
	}

	a4 := PageConfig{Size: "a4", DPI: 300}
	if w, h := a4.Pixels(); w != 2480 || h != 3508 {
		t.Errorf("a4@300 = %dx%d px, want 2480x3508", w, h)
	}
}

func TestPageConfig_Points(t *testing.T) {
	letter := PageConfig{Size: "letter", DPI: 300}
	if w, h := letter.Points(); w != 612 || h != 792 {
		t.Errorf("letter = %gx%g pt, want 612x792", w, h)
	}

	a4 := PageConfig{Size: "A4", DPI: 300} // case-insensitive
	if w, h := a4.Points(); w != 595 || h != 842 {
		t.Errorf("a4 = %gx%g pt, want 595x842", w, h)
	}
}

func TestConfig_CaptureOptions(t *testing.T) {
	cfg := Default()
	opts := cfg.CaptureOptions()

	if opts.Scheduler.Interval != 200*time.Millisecond {
		t.Errorf("Interval = %v, want 200ms", opts.Scheduler.Interval)
	}
	if opts.Rectifier.Width != 2550 || opts.Rectifier.Height != 3300 {
		t.Errorf("rectifier = %dx%d, want 2550x3300", opts.Rectifier.Width, opts.Rectifier.Height)
	}
	if opts.Assembler.PageWidthPt != 612 || opts.Assembler.PageHeightPt != 792 {
		t.Errorf("assembler MediaBox = %gx%g, want 612x792",
			opts.Assembler.PageWidthPt, opts.Assembler.PageHeightPt)
	}
	if opts.Defaults.Mode != "auto" {
		t.Errorf("default mode = %s, want auto", opts.Defaults.Mode)
	}
	if opts.Detector.LowThreshold != cfg.Detection.LowThreshold {
		t.Error("detector config should mirror the detection section")
	}
}

package commands

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/brightpage/docscan/internal/camera"
	"github.com/brightpage/docscan/internal/capture"
	"github.com/brightpage/docscan/internal/render"
)

var (
	scanInput    string
	scanOut      string
	scanPages    int
	scanMode     string
	scanWait     time.Duration
	scanDemo     bool
	scanDebugDir string
)

// overlayColor marks detected boundaries in debug dumps.
var overlayColor = color.RGBA{R: 0, G: 200, B: 60, A: 255}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run the live capture pipeline and assemble a PDF",
	Long: `Scan runs the full capture loop against a frame source: the detection
loop looks for a document boundary in the live frames, each page is captured
once a confident detection appears (or the per-page wait expires, in which
case the whole frame is captured), and the captured pages are assembled into
a single PDF.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanInput, "input", "i", "", "directory of frames, served in filename order")
	scanCmd.Flags().StringVarP(&scanOut, "out", "o", "scan.pdf", "output PDF path")
	scanCmd.Flags().IntVar(&scanPages, "pages", 1, "number of pages to capture")
	scanCmd.Flags().StringVar(&scanMode, "mode", "", "enhancement mode override: auto, color or monochrome")
	scanCmd.Flags().DurationVar(&scanWait, "wait", 3*time.Second, "max wait for a confident detection per page")
	scanCmd.Flags().BoolVar(&scanDemo, "demo", false, "scan the synthetic demo scene instead of --input")
	scanCmd.Flags().StringVar(&scanDebugDir, "debug-dir", "", "dump detection overlay PNGs into this directory")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if scanPages < 1 {
		return fmt.Errorf("--pages must be at least 1, got %d", scanPages)
	}
	if scanDebugDir != "" {
		if err := os.MkdirAll(scanDebugDir, 0o755); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := openSource(scanInput, scanDemo)
	if err != nil {
		return err
	}

	ctrl := capture.NewController(source, cfg.CaptureOptions(), logger)
	defer ctrl.Close()

	if err := ctrl.Start(ctx); err != nil {
		return fmt.Errorf("start detection loop: %w", err)
	}

	settings := cfg.Enhance.Settings()
	if scanMode != "" {
		mode, err := parseMode(scanMode)
		if err != nil {
			return err
		}
		settings.Mode = mode
	}

	interval := cfg.Detection.SchedulerConfig().Interval
	for page := 0; page < scanPages; page++ {
		det, ok := awaitDetection(ctx, ctrl, interval)
		if err := ctx.Err(); err != nil {
			return err
		}
		if !ok {
			logger.Warn().Int("page", page).Dur("waited", scanWait).
				Msg("no confident detection, capturing full frame")
		} else if scanDebugDir != "" {
			if err := dumpOverlay(source, det, page); err != nil {
				logger.Warn().Err(err).Msg("overlay dump failed")
			}
		}

		info, err := ctrl.CapturePage(ctx, settings)
		if err != nil {
			return fmt.Errorf("capture page %d: %w", page, err)
		}
		logger.Info().
			Int("page", info.Index).
			Str("mode", string(info.Mode)).
			Bool("full_frame", info.FullFrame).
			Int64("elapsed_ms", info.ElapsedMS).
			Msg("page captured")
	}

	doc, err := ctrl.Finalize(ctx)
	if err != nil {
		return fmt.Errorf("assemble document: %w", err)
	}
	if err := doc.WriteFile(scanOut); err != nil {
		return err
	}

	m := ctrl.Metrics()
	logger.Info().
		Uint64("ticks_run", m.TicksRun).
		Uint64("ticks_skipped", m.TicksSkipped).
		Uint64("detections", m.Detections).
		Uint64("misses", m.Misses).
		Msg("scan finished")

	fmt.Printf("%s: %d pages (%s), %d bytes\n", scanOut, doc.PageCount, doc.Mode, len(doc.Data))
	return nil
}

// awaitDetection polls the controller until a confident detection is
// available or the per-page wait expires. A timeout is not an error: the
// capture simply falls back to the full frame.
func awaitDetection(ctx context.Context, ctrl *capture.Controller, interval time.Duration) (capture.Detection, bool) {
	deadline := time.After(scanWait)
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		if det, ok := ctrl.Latest(); ok {
			return det, true
		}
		select {
		case <-ctx.Done():
			return capture.Detection{}, false
		case <-deadline:
			return capture.Detection{}, false
		case <-tick.C:
		}
	}
}

// dumpOverlay saves the current frame with the detected boundary drawn on it.
// The frame is pulled fresh from the source, so the overlay shows what the
// camera sees at dump time, not the exact frame the detection ran against.
func dumpOverlay(source camera.Source, det capture.Detection, page int) error {
	frame, err := source.LatestFrame()
	if err != nil {
		return err
	}
	overlay := render.DrawQuad(frame.Image, det.Quad, overlayColor)
	path := filepath.Join(scanDebugDir, fmt.Sprintf("page_%03d_seq_%d.png", page, det.FrameSeq))
	return imaging.Save(overlay, path)
}

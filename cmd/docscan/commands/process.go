package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/brightpage/docscan/internal/detection"
	"github.com/brightpage/docscan/internal/enhance"
	"github.com/brightpage/docscan/internal/geometry"
	"github.com/brightpage/docscan/internal/rectify"
	"github.com/brightpage/docscan/internal/session"
)

var (
	processOutDir  string
	processPDF     string
	processMode    string
	processWorkers int
)

var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Batch-process still images into enhanced pages",
	Long: `Process runs the capture pipeline once over each input image: detect the
document boundary, rectify the page onto the configured page size, and
enhance it. Results are written either as individual page images into
--out-dir or assembled into a single PDF with --pdf.

Files are processed in parallel, but pages always come out in argument
order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processOutDir, "out-dir", "", "write enhanced page images into this directory")
	processCmd.Flags().StringVar(&processPDF, "pdf", "", "assemble enhanced pages into this PDF")
	processCmd.Flags().StringVar(&processMode, "mode", "", "enhancement mode override: auto, color or monochrome")
	processCmd.Flags().IntVar(&processWorkers, "workers", runtime.NumCPU(), "parallel enhancement workers")
	rootCmd.AddCommand(processCmd)
}

// batchPipeline bundles the per-file pipeline stages so workers share one
// configuration.
type batchPipeline struct {
	detector      *detection.Detector
	rectifier     rectify.Rectifier
	analysisDim   int
	minConfidence float64
	settings      enhance.Settings
}

type batchResult struct {
	page *session.Page
	err  error
}

func runProcess(cmd *cobra.Command, args []string) error {
	if (processOutDir == "") == (processPDF == "") {
		return fmt.Errorf("exactly one of --out-dir or --pdf is required")
	}
	workers := processWorkers
	if workers < 1 {
		workers = 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings := cfg.Enhance.Settings()
	if processMode != "" {
		mode, err := parseMode(processMode)
		if err != nil {
			return err
		}
		settings.Mode = mode
	}
	pipeline := batchPipeline{
		detector:      detection.NewDetector(cfg.Detection.DetectorConfig()),
		rectifier:     cfg.Page.Rectifier(),
		analysisDim:   cfg.Detection.AnalysisMaxDim,
		minConfidence: cfg.Detection.MinConfidence,
		settings:      settings,
	}

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetDescription("processing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
	)

	// Worker pool over the input files. Results land at their input index,
	// so page order equals argument order no matter which worker finishes
	// first.
	jobs := make(chan int, len(args))
	results := make([]batchResult, len(args))
	var wg sync.WaitGroup

	for i := 0; i < workers && i < len(args); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = batchResult{err: ctx.Err()}
					continue
				}
				results[idx] = pipeline.processFile(args[idx])
				_ = bar.Add(1)
			}
		}()
	}
	for i := range args {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	pages := make([]*session.Page, len(args))
	for i, r := range results {
		if r.err != nil {
			return fmt.Errorf("process %s: %w", args[i], r.err)
		}
		pages[i] = r.page
	}

	if processPDF != "" {
		doc, err := cfg.Assembler().Assemble(ctx, pages)
		if err != nil {
			return fmt.Errorf("assemble document: %w", err)
		}
		if err := doc.WriteFile(processPDF); err != nil {
			return err
		}
		fmt.Printf("%s: %d pages (%s), %d bytes\n", processPDF, doc.PageCount, doc.Mode, len(doc.Data))
		return nil
	}

	if err := os.MkdirAll(processOutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for i, page := range pages {
		out := filepath.Join(processOutDir, pageFileName(args[i]))
		if err := imaging.Save(page.Image, out); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		logger.Debug().Str("path", out).Str("mode", string(page.Settings.Mode)).Msg("page written")
	}
	fmt.Printf("%s: %d pages\n", processOutDir, len(pages))
	return nil
}

// processFile runs the one-shot pipeline on a single still image: detect,
// rectify (full frame when nothing confident), enhance.
func (p batchPipeline) processFile(path string) batchResult {
	img, err := imaging.Open(path)
	if err != nil {
		return batchResult{err: fmt.Errorf("decode: %w", err)}
	}

	analysis, factor := detection.Downsample(img, p.analysisDim)
	bounds := img.Bounds()
	quad := geometry.FullFrame(bounds.Dx(), bounds.Dy())
	fullFrame := true
	if q, ok := p.detector.Detect(analysis); ok && q.Confidence >= p.minConfidence {
		quad = q.ScaleToFrame(factor)
		fullFrame = false
	}

	rectified, fellBack := p.rectifier.Rectify(img, quad)
	if fellBack {
		fullFrame = true
	}

	resolved := p.settings.Resolve(rectified)
	enhanced := enhance.Apply(rectified, resolved)

	// For stills, the file's modification time is the closest thing to a
	// capture timestamp.
	capturedAt := time.Now()
	if fi, err := os.Stat(path); err == nil {
		capturedAt = fi.ModTime()
	}
	return batchResult{page: session.NewPage(enhanced, resolved, fullFrame, capturedAt)}
}

// pageFileName maps an input filename to its enhanced output name.
func pageFileName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}

package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightpage/docscan/internal/camera"
	"github.com/brightpage/docscan/internal/detection"
	"github.com/brightpage/docscan/internal/geometry"
)

const (
	// DefaultInterval is the delay between detection passes.
	DefaultInterval = 200 * time.Millisecond

	// DefaultMinConfidence is the score below which a detector result is
	// treated as a miss.
	DefaultMinConfidence = 0.5
)

// ErrAlreadyRunning is returned by Start when the detection loop is active.
var ErrAlreadyRunning = errors.New("capture: detection loop already running")

// Detection is one published detector result, with corners in
// full-resolution frame coordinates.
type Detection struct {
	Quad       geometry.Quad `json:"quad"`
	Confidence float64       `json:"confidence"`
	FrameSeq   uint64        `json:"frame_seq"`
	At         time.Time     `json:"at"`
}

// Metrics counts scheduler activity over the scheduler's lifetime; the
// counters survive Stop and restart.
type Metrics struct {
	TicksRun     uint64 `json:"ticks_run"`
	TicksSkipped uint64 `json:"ticks_skipped"`
	Detections   uint64 `json:"detections"`
	Misses       uint64 `json:"misses"`
	SourceErrors uint64 `json:"source_errors"`
}

// SchedulerConfig tunes the detection loop. Zero fields fall back to the
// package defaults.
type SchedulerConfig struct {
	// Interval is the delay between detection passes.
	Interval time.Duration

	// AnalysisMaxDim bounds the longest side of the downsampled buffer
	// that detection runs against.
	AnalysisMaxDim int

	// MinConfidence is the publishing threshold; weaker results are
	// recorded as misses.
	MinConfidence float64
}

// DefaultSchedulerConfig returns the detection loop defaults.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Interval:       DefaultInterval,
		AnalysisMaxDim: detection.DefaultAnalysisMaxDim,
		MinConfidence:  DefaultMinConfidence,
	}
}

// Scheduler drives the detection loop against a frame source and keeps the
// most recent confident detection available for capture.
type Scheduler struct {
	source   camera.Source
	detector *detection.Detector
	cfg      SchedulerConfig
	logger   zerolog.Logger

	// busy gates the single in-flight pass. A tick that finds it set is
	// skipped so passes never pile up behind a slow detection.
	busy atomic.Bool

	ticksRun     atomic.Uint64
	ticksSkipped atomic.Uint64
	detections   atomic.Uint64
	misses       atomic.Uint64
	sourceErrors atomic.Uint64

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	latest  Detection
	has     bool
}

// NewScheduler creates a detection loop over the given source and detector.
// Zero fields of cfg fall back to defaults.
func NewScheduler(source camera.Source, detector *detection.Detector, cfg SchedulerConfig, logger zerolog.Logger) *Scheduler {
	def := DefaultSchedulerConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.AnalysisMaxDim <= 0 {
		cfg.AnalysisMaxDim = def.AnalysisMaxDim
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = def.MinConfidence
	}
	return &Scheduler{
		source:   source,
		detector: detector,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start probes the frame source and launches the detection loop. A source
// that cannot produce a frame fails Start and the loop never begins; the
// error is surfaced here once rather than logged on every tick.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}

	if _, err := s.source.LatestFrame(); err != nil {
		return fmt.Errorf("failed to probe frame source: %w", err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.wg.Add(1)
	go s.run(loopCtx)

	s.logger.Info().
		Dur("interval", s.cfg.Interval).
		Int("analysis_max_dim", s.cfg.AnalysisMaxDim).
		Float64("min_confidence", s.cfg.MinConfidence).
		Msg("detection loop started")
	return nil
}

// Stop cancels the loop, waits for any in-flight pass, and discards the
// last detection. Stopping an idle scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	s.running = false
	s.mu.Unlock()

	cancel()
	s.wg.Wait()

	s.mu.Lock()
	s.latest = Detection{}
	s.has = false
	s.mu.Unlock()

	s.logger.Info().Msg("detection loop stopped")
}

// Running reports whether the detection loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Latest returns the most recent confident detection. The boolean is false
// when the last pass missed, the loop has not detected anything yet, or the
// scheduler is stopped.
func (s *Scheduler) Latest() (Detection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.has
}

// Metrics returns a snapshot of the loop counters.
func (s *Scheduler) Metrics() Metrics {
	return Metrics{
		TicksRun:     s.ticksRun.Load(),
		TicksSkipped: s.ticksSkipped.Load(),
		Detections:   s.detections.Load(),
		Misses:       s.misses.Load(),
		SourceErrors: s.sourceErrors.Load(),
	}
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.busy.CompareAndSwap(false, true) {
				s.ticksSkipped.Add(1)
				continue
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				defer s.busy.Store(false)
				s.pass()
			}()
		}
	}
}

// pass runs one detection attempt: pull the newest frame, detect against a
// downsampled copy, and publish the result in frame coordinates.
func (s *Scheduler) pass() {
	s.ticksRun.Add(1)

	frame, err := s.source.LatestFrame()
	if err != nil {
		s.sourceErrors.Add(1)
		s.logger.Warn().Err(err).Msg("frame acquisition failed")
		return
	}

	analysis, factor := detection.Downsample(frame.Image, s.cfg.AnalysisMaxDim)
	quad, ok := s.detector.Detect(analysis)
	if !ok || quad.Confidence < s.cfg.MinConfidence {
		s.misses.Add(1)
		s.clearLatest()
		return
	}

	s.detections.Add(1)
	det := Detection{
		Quad:       quad.ScaleToFrame(factor),
		Confidence: quad.Confidence,
		FrameSeq:   frame.Seq,
		At:         time.Now(),
	}

	s.mu.Lock()
	s.latest = det
	s.has = true
	s.mu.Unlock()

	s.logger.Debug().
		Uint64("frame_seq", frame.Seq).
		Float64("confidence", quad.Confidence).
		Msg("document boundary detected")
}

// clearLatest publishes a miss so stale quads never outlive the page that
// produced them.
func (s *Scheduler) clearLatest() {
	s.mu.Lock()
	s.latest = Detection{}
	s.has = false
	s.mu.Unlock()
}

package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightpage/docscan/internal/assemble"
	"github.com/brightpage/docscan/internal/camera"
	"github.com/brightpage/docscan/internal/detection"
	"github.com/brightpage/docscan/internal/enhance"
	"github.com/brightpage/docscan/internal/geometry"
	"github.com/brightpage/docscan/internal/rectify"
	"github.com/brightpage/docscan/internal/session"
)

// ErrSessionClosed is returned by operations after Close, including
// captures that were in flight when teardown began.
var ErrSessionClosed = errors.New("capture: session closed")

// Letter at 300 DPI, used when Options carries no rectifier geometry.
const (
	defaultPageWidthPx  = 2550
	defaultPageHeightPx = 3300
)

// Options assembles the pipeline stages a Controller drives.
type Options struct {
	// Detector tunes boundary detection; zero fields use defaults.
	Detector detection.Config

	// Scheduler tunes the detection loop; zero fields use defaults.
	Scheduler SchedulerConfig

	// Rectifier fixes the output page geometry in pixels.
	Rectifier rectify.Rectifier

	// Assembler produces the final document; zero fields use defaults.
	Assembler assemble.Assembler

	// Defaults are the enhancement settings used when a capture request
	// does not carry its own.
	Defaults enhance.Settings
}

// PageInfo summarizes one captured page for operator surfaces.
type PageInfo struct {
	Index      int          `json:"index"`
	ID         string       `json:"id"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Mode       enhance.Mode `json:"mode"`
	FullFrame  bool         `json:"full_frame"`
	CapturedAt time.Time    `json:"captured_at"`
	ElapsedMS  int64        `json:"elapsed_ms"`
}

// Controller is the operator facade over one capture session: it owns the
// frame source, the detection loop, and the accumulating session, and runs
// the rectify/enhance pipeline on capture. All methods are safe for
// concurrent use.
type Controller struct {
	source    camera.Source
	scheduler *Scheduler
	rectifier rectify.Rectifier
	assembler assemble.Assembler
	defaults  enhance.Settings
	logger    zerolog.Logger

	// captureMu serializes captures among themselves. Detection ticks run
	// entirely inside the scheduler and never take this lock.
	captureMu sync.Mutex

	mu     sync.Mutex
	sess   *session.Session
	closed bool
}

// NewController wires a frame source into a fresh capture session.
func NewController(source camera.Source, opts Options, logger zerolog.Logger) *Controller {
	if opts.Rectifier.Width <= 0 || opts.Rectifier.Height <= 0 {
		opts.Rectifier = rectify.Rectifier{Width: defaultPageWidthPx, Height: defaultPageHeightPx}
	}
	if opts.Defaults == (enhance.Settings{}) {
		opts.Defaults = enhance.DefaultSettings()
	}
	detector := detection.NewDetector(opts.Detector)
	return &Controller{
		source:    source,
		scheduler: NewScheduler(source, detector, opts.Scheduler, logger),
		rectifier: opts.Rectifier,
		assembler: opts.Assembler,
		defaults:  opts.Defaults,
		logger:    logger,
		sess:      session.New(),
	}
}

// SessionID identifies the current session.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.ID().String()
}

// Start launches the detection loop. Acquisition failures propagate and
// the loop never begins.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrSessionClosed
	}
	return c.scheduler.Start(ctx)
}

// Latest returns the most recent confident detection, if any.
func (c *Controller) Latest() (Detection, bool) {
	return c.scheduler.Latest()
}

// Metrics returns a snapshot of the detection loop counters.
func (c *Controller) Metrics() Metrics {
	return c.scheduler.Metrics()
}

// CapturePage snapshots the latest frame and detection, rectifies the page
// region, enhances it, and appends the page to the session. Without a
// confident detection the whole frame is treated as the document. A zero
// settings value means the controller defaults.
//
// Captures are serialized among themselves; a capture that finishes after
// Close is discarded with ErrSessionClosed rather than written.
func (c *Controller) CapturePage(ctx context.Context, settings enhance.Settings) (*PageInfo, error) {
	c.captureMu.Lock()
	defer c.captureMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.isClosed() {
		return nil, ErrSessionClosed
	}

	start := time.Now()

	frame, err := c.source.LatestFrame()
	if err != nil {
		if c.isClosed() {
			return nil, ErrSessionClosed
		}
		return nil, fmt.Errorf("failed to acquire frame: %w", err)
	}

	bounds := frame.Image.Bounds()
	quad := geometry.FullFrame(bounds.Dx(), bounds.Dy())
	fullFrame := true
	if det, ok := c.scheduler.Latest(); ok {
		quad = det.Quad
		fullFrame = false
	}

	if settings == (enhance.Settings{}) {
		settings = c.defaults
	}

	rectified, fellBack := c.rectifier.Rectify(frame.Image, quad)
	if fellBack && !fullFrame {
		c.logger.Debug().Uint64("frame_seq", frame.Seq).Msg("detected quad unusable, captured full frame")
		fullFrame = true
	}

	resolved := settings.Resolve(rectified)
	enhanced := enhance.Apply(rectified, resolved)
	capturedAt := time.Now()
	page := session.NewPage(enhanced, resolved, fullFrame, capturedAt)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrSessionClosed
	}
	index := c.sess.Append(page)
	c.mu.Unlock()

	elapsed := time.Since(start)
	c.logger.Info().
		Int("index", index).
		Str("page_id", page.ID.String()).
		Str("mode", string(resolved.Mode)).
		Bool("full_frame", fullFrame).
		Dur("elapsed", elapsed).
		Msg("page captured")

	outBounds := enhanced.Bounds()
	return &PageInfo{
		Index:      index,
		ID:         page.ID.String(),
		Width:      outBounds.Dx(),
		Height:     outBounds.Dy(),
		Mode:       resolved.Mode,
		FullFrame:  fullFrame,
		CapturedAt: capturedAt,
		ElapsedMS:  elapsed.Milliseconds(),
	}, nil
}

// RemovePage deletes the page at index, shifting later pages down.
func (c *Controller) RemovePage(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrSessionClosed
	}
	return c.sess.Remove(index)
}

// Pages returns a snapshot of the captured pages in capture order.
func (c *Controller) Pages() []*session.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Pages()
}

// Len returns the number of captured pages.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Len()
}

// Finalize assembles the captured pages into a document. The session keeps
// its pages; callers may capture more or finalize again.
func (c *Controller) Finalize(ctx context.Context) (*assemble.Document, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrSessionClosed
	}
	pages := c.sess.Pages()
	c.mu.Unlock()

	doc, err := c.assembler.Assemble(ctx, pages)
	if err != nil {
		return nil, err
	}
	c.logger.Info().Int("pages", doc.PageCount).Str("mode", doc.Mode).Msg("document assembled")
	return doc, nil
}

// Cancel stops the detection loop and discards all captured pages. The
// controller stays usable: a later Start begins a fresh scan over the same
// source.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	c.mu.Unlock()

	c.scheduler.Stop()

	c.mu.Lock()
	c.sess.Clear()
	c.mu.Unlock()

	c.logger.Info().Msg("session canceled")
	return nil
}

// Close tears the session down: marks it closed so in-flight captures are
// discarded, stops the detection loop, and releases the frame source. It
// returns only after the loop has fully stopped. Close is idempotent.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.scheduler.Stop()
	if err := c.source.Close(); err != nil {
		return fmt.Errorf("failed to release frame source: %w", err)
	}
	return nil
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

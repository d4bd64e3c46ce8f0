package camera

import (
	"errors"
	"image"
	"time"
)

var (
	// ErrNoFrames means a source could not produce a single frame, e.g. a
	// directory with no decodable image in it.
	ErrNoFrames = errors.New("camera: no frames available")

	// ErrSourceClosed is returned by LatestFrame after Close.
	ErrSourceClosed = errors.New("camera: source is closed")
)

// Frame is one full-resolution capture from a source.
//
// The pixel data is shared between callers and must be treated as read-only;
// every processing stage that needs to modify pixels works on its own copy.
type Frame struct {
	// Image holds the full-resolution frame pixels.
	Image *image.RGBA

	// Seq increases by one for every frame served by the source. It ties
	// detections and captures back to the frame that produced them.
	Seq uint64

	// Timestamp is when the frame was served.
	Timestamp time.Time
}

// Source delivers the most recent camera frame on demand.
type Source interface {
	// LatestFrame returns the current frame. It never blocks waiting for
	// a newer frame.
	LatestFrame() (*Frame, error)

	// Close releases the source. LatestFrame fails with ErrSourceClosed
	// afterwards. Close is idempotent.
	Close() error
}

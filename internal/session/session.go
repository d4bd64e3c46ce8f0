package session

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/brightpage/docscan/internal/enhance"
)

// PreviewHeight is the uniform pixel height of page preview thumbnails.
const PreviewHeight = 240

// ErrInvalidIndex is returned by Remove when the index does not name a page.
var ErrInvalidIndex = errors.New("session: page index out of range")

// Page is one captured, enhanced page. Pages are immutable once created.
type Page struct {
	// ID uniquely identifies the page across the session.
	ID uuid.UUID

	// Image is the enhanced page raster, *image.RGBA for color pages and
	// *image.Gray for monochrome ones.
	Image image.Image

	// Preview is a small thumbnail of Image with PreviewHeight rows.
	Preview image.Image

	// Settings are the resolved enhancement settings the page was
	// produced with; Settings.Mode is always concrete, never auto.
	Settings enhance.Settings

	// FullFrame marks a page captured without a confident detection, i.e.
	// the whole frame was used instead of a rectified document quad.
	FullFrame bool

	// CapturedAt is when the source frame was captured.
	CapturedAt time.Time
}

// NewPage builds an immutable page around an enhanced image, deriving the
// preview thumbnail.
func NewPage(img image.Image, settings enhance.Settings, fullFrame bool, capturedAt time.Time) *Page {
	return &Page{
		ID:         uuid.New(),
		Image:      img,
		Preview:    imaging.Resize(img, 0, PreviewHeight, imaging.Box),
		Settings:   settings,
		FullFrame:  fullFrame,
		CapturedAt: capturedAt,
	}
}

// Session is an ordered collection of captured pages. Safe for concurrent
// use.
type Session struct {
	id uuid.UUID

	mu    sync.Mutex
	pages []*Page
}

// New starts an empty session.
func New() *Session {
	return &Session{id: uuid.New()}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Append adds a page at the end and returns its index.
func (s *Session) Append(p *Page) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pages = append(s.pages, p)
	return len(s.pages) - 1
}

// Remove deletes the page at index. Later pages shift down by one; their
// relative order never changes. An out-of-range index leaves the session
// untouched.
func (s *Session) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.pages) {
		return fmt.Errorf("remove page %d of %d: %w", index, len(s.pages), ErrInvalidIndex)
	}
	s.pages = append(s.pages[:index], s.pages[index+1:]...)
	return nil
}

// Pages returns a snapshot of the pages in capture order. The slice is a
// copy; the session can keep changing underneath it.
func (s *Session) Pages() []*Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]*Page, len(s.pages))
	copy(snapshot, s.pages)
	return snapshot
}

// Len reports the number of pages.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Clear discards every page, leaving the session reusable.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = nil
}

package session

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/brightpage/docscan/internal/enhance"
)

// testPage builds a page with a tiny solid image, tagged by shade for
// identification in order checks
func testPage(shade uint8) *Page {
	img := image.NewRGBA(image.Rect(0, 0, 8, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}
	return NewPage(img, enhance.Settings{Mode: enhance.ModeColor}, false, time.Now())
}

func pageShade(p *Page) uint8 {
	return p.Image.(*image.RGBA).RGBAAt(0, 0).R
}

func TestSession_AppendReturnsIndices(t *testing.T) {
	s := New()

	for i := 0; i < 3; i++ {
		if idx := s.Append(testPage(uint8(i))); idx != i {
			t.Errorf("append %d returned index %d", i, idx)
		}
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
}

func TestSession_RemoveShiftsWithoutReordering(t *testing.T) {
	s := New()
	s.Append(testPage(10)) // A
	s.Append(testPage(20)) // B
	s.Append(testPage(30)) // C

	if err := s.Remove(1); err != nil {
		t.Fatalf("Remove(1) failed: %v", err)
	}

	pages := s.Pages()
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages after removal, got %d", len(pages))
	}
	if pageShade(pages[0]) != 10 || pageShade(pages[1]) != 30 {
		t.Errorf("pages after removal = [%d, %d], want [10, 30]",
			pageShade(pages[0]), pageShade(pages[1]))
	}
}

func TestSession_RemoveInvalidIndex(t *testing.T) {
	s := New()
	s.Append(testPage(10))

	for _, idx := range []int{-1, 1, 99} {
		err := s.Remove(idx)
		if !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("Remove(%d): expected ErrInvalidIndex, got %v", idx, err)
		}
	}
	if s.Len() != 1 {
		t.Errorf("failed removals must leave the session untouched, Len = %d", s.Len())
	}
}

func TestSession_RemoveFromEmpty(t *testing.T) {
	s := New()
	if err := s.Remove(0); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("expected ErrInvalidIndex on empty session, got %v", err)
	}
}

func TestSession_PagesSnapshotIsolation(t *testing.T) {
	s := New()
	s.Append(testPage(10))
	s.Append(testPage(20))

	snapshot := s.Pages()
	if err := s.Remove(0); err != nil {
		t.Fatal(err)
	}

	if len(snapshot) != 2 {
		t.Errorf("snapshot changed after session mutation, len = %d", len(snapshot))
	}
	if s.Len() != 1 {
		t.Errorf("session Len = %d, want 1", s.Len())
	}
}

func TestSession_Clear(t *testing.T) {
	s := New()
	s.Append(testPage(10))
	s.Append(testPage(20))

	s.Clear()

	if s.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", s.Len())
	}
	if idx := s.Append(testPage(30)); idx != 0 {
		t.Errorf("cleared session should accept pages from index 0, got %d", idx)
	}
}

func TestSession_ConcurrentAppends(t *testing.T) {
	s := New()

	const n = 50
	indices := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(shade uint8) {
			defer wg.Done()
			indices <- s.Append(testPage(shade))
		}(uint8(i))
	}
	wg.Wait()
	close(indices)

	seen := make(map[int]bool)
	for idx := range indices {
		if seen[idx] {
			t.Errorf("index %d handed out twice", idx)
		}
		seen[idx] = true
	}
	if s.Len() != n {
		t.Errorf("Len = %d, want %d", s.Len(), n)
	}
}

func TestNewPage_Preview(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 600))
	p := NewPage(img, enhance.Settings{Mode: enhance.ModeColor}, false, time.Now())

	b := p.Preview.Bounds()
	if b.Dy() != PreviewHeight {
		t.Errorf("preview height = %d, want %d", b.Dy(), PreviewHeight)
	}
	if b.Dx() != 160 {
		t.Errorf("preview width = %d, want 160 (aspect preserved)", b.Dx())
	}
	if p.ID == (Page{}).ID {
		t.Error("page should get a non-zero ID")
	}
}

func TestNewPage_UniqueIDs(t *testing.T) {
	a := testPage(1)
	b := testPage(2)
	if a.ID == b.ID {
		t.Error("two pages should not share an ID")
	}
}

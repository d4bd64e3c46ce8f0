package camera

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
)

// Directory serves the images of a folder as a frame sequence, in filename
// order. Each pull advances to the next image; once the folder is exhausted
// the last image is served forever, like a camera pointed at a still scene.
type Directory struct {
	mu      sync.Mutex
	paths   []string
	next    int
	current *image.RGBA
	seq     uint64
	closed  bool

	cache *frameCache
}

// OpenDirectory builds a frame source from the image files in dir. Files are
// served in filename order; non-image files are ignored. It fails with
// ErrNoFrames when the directory holds no decodable image at all.
func OpenDirectory(dir string) (*Directory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}

	// Probe for the first decodable image so an unusable directory fails
	// at construction rather than on the first pull.
	cache := newFrameCache()
	first := -1
	for i, p := range paths {
		if _, err := cache.load(p); err == nil {
			first = i
			break
		}
	}
	if first == -1 {
		return nil, fmt.Errorf("%w: %s", ErrNoFrames, dir)
	}

	return &Directory{
		paths: paths,
		next:  first,
		cache: cache,
	}, nil
}

// LatestFrame serves the next image in the sequence, skipping files that
// fail to decode. After the last image it keeps serving that image.
func (d *Directory) LatestFrame() (*Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrSourceClosed
	}

	img := d.current
	for d.next < len(d.paths) {
		candidate, err := d.cache.load(d.paths[d.next])
		d.next++
		if err == nil {
			img = candidate
			break
		}
	}
	d.current = img

	d.seq++
	return &Frame{Image: img, Seq: d.seq, Timestamp: time.Now()}, nil
}

// Close releases the directory source and frees the decoded frame cache.
func (d *Directory) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.current = nil
	d.cache.clear()
	return nil
}

// frameCache memoizes decoded frames so replaying a directory does not
// re-read or re-decode files. Safe for concurrent use.
type frameCache struct {
	mu     sync.RWMutex
	frames map[string]*image.RGBA
}

func newFrameCache() *frameCache {
	return &frameCache{frames: make(map[string]*image.RGBA)}
}

func (c *frameCache) load(path string) (*image.RGBA, error) {
	c.mu.RLock()
	if img, ok := c.frames[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %s: %w", path, err)
	}
	rgba := clone.AsRGBA(img)

	c.mu.Lock()
	c.frames[path] = rgba
	c.mu.Unlock()

	return rgba, nil
}

func (c *frameCache) clear() {
	c.mu.Lock()
	c.frames = make(map[string]*image.RGBA)
	c.mu.Unlock()
}

package enhance

import (
	"image"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// chromaGridStep is the sampling stride for mode suggestion. Every
	// 16th pixel is plenty to judge whether a page carries color.
	chromaGridStep = 16

	// chromaThreshold is the mean Lab chroma below which a page is
	// considered ink-on-paper.
	chromaThreshold = 0.05
)

// SuggestMode recommends color or monochrome rendering for a page by
// sampling its Lab chroma on a sparse grid. Warm paper and gray ink land
// well under the threshold; photos, stamps, and highlighter marks push the
// mean over it.
func SuggestMode(img image.Image) Mode {
	b := img.Bounds()
	if b.Empty() {
		return ModeColor
	}

	var total float64
	var samples int
	for y := b.Min.Y; y < b.Max.Y; y += chromaGridStep {
		for x := b.Min.X; x < b.Max.X; x += chromaGridStep {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			_, labA, labB := c.Lab()
			total += math.Hypot(labA, labB)
			samples++
		}
	}
	if samples == 0 {
		return ModeColor
	}

	if total/float64(samples) < chromaThreshold {
		return ModeMonochrome
	}
	return ModeColor
}

package detection

import (
	"image"

	"github.com/disintegration/imaging"
)

// DefaultAnalysisMaxDim is the default longest side of the analysis buffer.
const DefaultAnalysisMaxDim = 320

// Downsample reduces a full-resolution frame to an analysis buffer whose
// longest side is at most maxDim, returning the buffer and the factor that
// maps analysis coordinates back to frame coordinates.
//
// Frames already within maxDim are cloned unchanged with factor 1; the
// analysis buffer is never an upsample of the frame. Nearest-neighbor
// resampling keeps the per-frame cost low, and edge detection smooths
// the buffer again anyway.
func Downsample(img image.Image, maxDim int) (*image.NRGBA, float64) {
	if maxDim <= 0 {
		maxDim = DefaultAnalysisMaxDim
	}

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return imaging.Clone(img), 1
	}

	var small *image.NRGBA
	if w >= h {
		small = imaging.Resize(img, maxDim, 0, imaging.NearestNeighbor)
	} else {
		small = imaging.Resize(img, 0, maxDim, imaging.NearestNeighbor)
	}

	factor := float64(w) / float64(small.Bounds().Dx())
	return small, factor
}

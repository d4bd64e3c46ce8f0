package enhance

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
	"github.com/disintegration/imaging"
)

const (
	// shadowDownsample and shadowBlurRadius shape the background estimate:
	// coarse enough that text and line art disappear into paper.
	shadowDownsample = 8
	shadowBlurRadius = 8.0

	// backgroundTarget is the paper-white luma the background is divided
	// toward during shadow removal.
	backgroundTarget = 245.0

	// brightnessPercentile and brightnessTarget define brightness
	// normalization: the 95th-percentile luma is pulled to 235.
	brightnessPercentile = 0.95
	brightnessTarget     = 235.0

	// minGain and maxGain clamp the normalization gain so a nearly black
	// or blown-out capture cannot be amplified into noise.
	minGain = 0.5
	maxGain = 3.0

	unsharpRadius = 1.0
	unsharpAmount = 0.5

	// monoContrastLift is the extra contrast applied when reducing to
	// grayscale, making ink pop against paper.
	monoContrastLift = 0.2
)

// Apply enhances a rectified page according to the settings. The result is
// an *image.RGBA for color output or an *image.Gray for monochrome output,
// always with the input's dimensions. Apply is pure: identical input and
// settings produce bit-identical output.
func Apply(img image.Image, s Settings) image.Image {
	rgba := clone.AsRGBA(img)

	if s.ShadowRemoval {
		rgba = removeShadows(rgba)
	}
	if s.BrightnessNormalize {
		rgba = normalizeBrightness(rgba)
	}
	if s.ContrastBoost > 0 && s.ContrastBoost != 1 {
		rgba = adjust.Contrast(rgba, s.ContrastBoost-1)
	}
	if s.Sharpen {
		rgba = effect.UnsharpMask(rgba, unsharpRadius, unsharpAmount)
	}

	if s.Mode == ModeMonochrome {
		return toMonochrome(rgba)
	}
	return rgba
}

// removeShadows flattens uneven lighting. The background is estimated by
// downsampling 8x and Gaussian-blurring, which erases content strokes but
// keeps the large-scale illumination field; each pixel is then scaled by
// how far its local background falls below paper white.
func removeShadows(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	bw, bh := w/shadowDownsample, h/shadowDownsample
	if bw < 1 {
		bw = 1
	}
	if bh < 1 {
		bh = 1
	}
	small := imaging.Resize(img, bw, bh, imaging.Box)
	blurred := blur.Gaussian(small, shadowBlurRadius)
	background := imaging.Resize(blurred, w, h, imaging.Linear)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			bg := background.NRGBAAt(x, y)

			bgLuma := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
			if bgLuma < 1 {
				bgLuma = 1
			}
			gain := backgroundTarget / bgLuma

			out.SetRGBA(x, y, color.RGBA{
				R: clampU8(float64(px.R) * gain),
				G: clampU8(float64(px.G) * gain),
				B: clampU8(float64(px.B) * gain),
				A: px.A,
			})
		}
	}
	return out
}

// normalizeBrightness scales the image so bright paper sits near the target
// luma. The 95th percentile is used as the paper reference because the true
// maximum tracks specular highlights instead.
func normalizeBrightness(img *image.RGBA) *image.RGBA {
	gray := effect.Grayscale(img)
	bins := histogram.NewRGBAHistogram(gray).R.Bins

	total := 0
	for _, n := range bins {
		total += n
	}
	if total == 0 {
		return img
	}

	cutoff := int(float64(total) * brightnessPercentile)
	cumulative := 0
	paper := 255
	for i, n := range bins {
		cumulative += n
		if cumulative >= cutoff {
			paper = i
			break
		}
	}
	if paper < 1 {
		paper = 1
	}

	gain := brightnessTarget / float64(paper)
	if gain < minGain {
		gain = minGain
	} else if gain > maxGain {
		gain = maxGain
	}
	if gain == 1 {
		return img
	}

	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			px := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			out.SetRGBA(x, y, color.RGBA{
				R: clampU8(float64(px.R) * gain),
				G: clampU8(float64(px.G) * gain),
				B: clampU8(float64(px.B) * gain),
				A: px.A,
			})
		}
	}
	return out
}

// toMonochrome reduces the page to 8-bit grayscale with a small contrast
// lift.
func toMonochrome(img *image.RGBA) *image.Gray {
	gray := adjust.Contrast(effect.Grayscale(img), monoContrastLift)

	b := gray.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetGray(x, y, color.Gray{Y: gray.RGBAAt(b.Min.X+x, b.Min.Y+y).R})
		}
	}
	return out
}

func clampU8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

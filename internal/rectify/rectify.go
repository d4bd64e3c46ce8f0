package rectify

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"

	"github.com/brightpage/docscan/internal/geometry"
)

// Rectifier warps detected document quads onto an upright page of a fixed
// pixel size. The zero value is not usable; Width and Height must be
// positive.
type Rectifier struct {
	// Width and Height are the output page dimensions in pixels, derived
	// from the configured page preset and DPI.
	Width  int
	Height int
}

// Rectify maps the quad region of src onto an upright Width x Height page.
//
// The boolean reports that the quad was unusable (degenerate corners or a
// singular corner system) and the result is a centered crop-and-scale of
// the whole frame instead of a perspective correction. Rectify never fails:
// a capture always yields a page image of the configured size.
func (r Rectifier) Rectify(src image.Image, quad geometry.Quad) (*image.RGBA, bool) {
	if quad.IsDegenerate() {
		return r.fallback(src), true
	}

	target := [4]geometry.Point{
		{X: 0, Y: 0},
		{X: float64(r.Width - 1), Y: 0},
		{X: float64(r.Width - 1), Y: float64(r.Height - 1)},
		{X: 0, Y: float64(r.Height - 1)},
	}
	h, ok := computeHomography(target, quad.Corners())
	if !ok {
		return r.fallback(src), true
	}

	rgba := clone.AsRGBA(src)
	minX := float64(rgba.Bounds().Min.X)
	minY := float64(rgba.Bounds().Min.Y)

	out := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			c := color.RGBA{A: 255}
			if sx, sy, ok := h.apply(float64(x), float64(y)); ok {
				c = bilinear(rgba, sx+minX, sy+minY)
			}
			out.SetRGBA(x, y, c)
		}
	}
	return out, false
}

// fallback produces a page-sized image without perspective correction: the
// frame is scaled and center-cropped to cover the page exactly.
func (r Rectifier) fallback(src image.Image) *image.RGBA {
	return clone.AsRGBA(imaging.Fill(src, r.Width, r.Height, imaging.Center, imaging.Lanczos))
}

// bilinear samples src at a fractional position. Positions outside the
// image come back black.
func bilinear(src *image.RGBA, x, y float64) color.RGBA {
	b := src.Bounds()
	if x < float64(b.Min.X) || y < float64(b.Min.Y) ||
		x > float64(b.Max.X-1) || y > float64(b.Max.Y-1) {
		return color.RGBA{A: 255}
	}

	x0, y0 := int(x), int(y)
	x1, y1 := x0+1, y0+1
	if x1 >= b.Max.X {
		x1 = b.Max.X - 1
	}
	if y1 >= b.Max.Y {
		y1 = b.Max.Y - 1
	}
	fx := x - float64(x0)
	fy := y - float64(y0)

	c00 := src.RGBAAt(x0, y0)
	c10 := src.RGBAAt(x1, y0)
	c01 := src.RGBAAt(x0, y1)
	c11 := src.RGBAAt(x1, y1)

	lerp2 := func(a, b, c, d uint8) uint8 {
		top := float64(a) + (float64(b)-float64(a))*fx
		bottom := float64(c) + (float64(d)-float64(c))*fx
		return uint8(top + (bottom-top)*fy + 0.5)
	}
	return color.RGBA{
		R: lerp2(c00.R, c10.R, c01.R, c11.R),
		G: lerp2(c00.G, c10.G, c01.G, c11.G),
		B: lerp2(c00.B, c10.B, c01.B, c11.B),
		A: lerp2(c00.A, c10.A, c01.A, c11.A),
	}
}

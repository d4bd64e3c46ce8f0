package assemble

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/brightpage/docscan/internal/session"
)

// Reference defaults: US letter at 72 points per inch, JPEG quality 90.
const (
	DefaultPageWidthPt  = 612.0
	DefaultPageHeightPt = 792.0
	DefaultJPEGQuality  = 90
)

// ErrEmptySession is returned when finalizing a session with no pages; no
// document artifact is produced.
var ErrEmptySession = errors.New("assemble: session has no pages")

// Assembler renders captured pages into a PDF with a fixed page size.
// Zero-valued fields fall back to the package defaults.
type Assembler struct {
	// PageWidthPt and PageHeightPt set the MediaBox in PDF points.
	PageWidthPt  float64
	PageHeightPt float64

	// JPEGQuality is the encoding quality for page rasters, 1-100.
	JPEGQuality int
}

// Document is an immutable finalize artifact.
type Document struct {
	// Data is the complete PDF file.
	Data []byte

	// PageCount is the number of pages in the document.
	PageCount int

	// Mode is the enhancement mode shared by every page, or "mixed".
	Mode string

	// CapturedAt is the capture time of the first page.
	CapturedAt time.Time
}

// WriteFile writes the document to path.
func (d *Document) WriteFile(path string) error {
	if err := os.WriteFile(path, d.Data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// Assemble renders the pages, in the order given, into a PDF document. It
// fails with ErrEmptySession when there are no pages and honors context
// cancellation between pages.
func (a Assembler) Assemble(ctx context.Context, pages []*session.Page) (*Document, error) {
	if len(pages) == 0 {
		return nil, ErrEmptySession
	}

	widthPt := a.PageWidthPt
	heightPt := a.PageHeightPt
	if widthPt <= 0 {
		widthPt = DefaultPageWidthPt
	}
	if heightPt <= 0 {
		heightPt = DefaultPageHeightPt
	}
	quality := a.JPEGQuality
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}

	w := newPDFWriter()
	w.addObject("<< /Type /Catalog /Pages 2 0 R >>")

	// Page object numbers are fixed by layout: page i occupies objects
	// 3+3i (page), 4+3i (image), 5+3i (content).
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+3*i)
	}
	w.addObject(fmt.Sprintf(
		"<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 %s %s] >>",
		strings.Join(kids, " "), len(pages), formatPt(widthPt), formatPt(heightPt)))

	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("assemble canceled at page %d: %w", i, err)
		}
		if err := addPage(w, i, page, widthPt, heightPt, quality); err != nil {
			return nil, err
		}
	}

	first := pages[0].CapturedAt
	infoNum := w.addObject(fmt.Sprintf(
		"<< /Producer (docscan) /CreationDate (D:%sZ) >>",
		first.UTC().Format("20060102150405")))

	return &Document{
		Data:       w.finish(1, infoNum),
		PageCount:  len(pages),
		Mode:       documentMode(pages),
		CapturedAt: first,
	}, nil
}

// addPage emits the three objects of one page: the page node, the JPEG
// image XObject, and the content stream scaling the image edge-to-edge
// onto the MediaBox.
func addPage(w *pdfWriter, index int, page *session.Page, widthPt, heightPt float64, quality int) error {
	imageNum := 4 + 3*index
	contentNum := 5 + 3*index

	w.addObject(fmt.Sprintf(
		"<< /Type /Page /Parent 2 0 R /Resources << /XObject << /Im0 %d 0 R >> >> /Contents %d 0 R >>",
		imageNum, contentNum))

	var raster bytes.Buffer
	if err := jpeg.Encode(&raster, page.Image, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("encode page %d: %w", index, err)
	}

	colorSpace := "/DeviceRGB"
	if _, ok := page.Image.(*image.Gray); ok {
		colorSpace = "/DeviceGray"
	}
	b := page.Image.Bounds()
	w.addStream(fmt.Sprintf(
		"<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace %s /BitsPerComponent 8 /Filter /DCTDecode /Length %d >>",
		b.Dx(), b.Dy(), colorSpace, raster.Len()), raster.Bytes())

	content := fmt.Sprintf("q %s 0 0 %s 0 0 cm /Im0 Do Q", formatPt(widthPt), formatPt(heightPt))
	w.addStream(fmt.Sprintf("<< /Length %d >>", len(content)), []byte(content))

	return nil
}

// documentMode reports the mode shared by all pages, or "mixed".
func documentMode(pages []*session.Page) string {
	mode := string(pages[0].Settings.Mode)
	for _, p := range pages[1:] {
		if string(p.Settings.Mode) != mode {
			return "mixed"
		}
	}
	return mode
}

// formatPt renders a point value without a trailing fraction when whole.
func formatPt(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

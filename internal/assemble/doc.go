// Package assemble finalizes a capture session into a PDF document.
//
// The writer emits a minimal but well-formed PDF 1.4 file by hand: the
// reference stacks in this area only parse PDFs, and the subset needed
// here (one JPEG image per page, placed edge-to-edge on a fixed MediaBox)
// is small enough that a dependency would bring far more surface than it
// saves.
//
// # File Layout
//
// Object 1 is the document catalog and object 2 the page tree, which also
// carries the shared MediaBox. Each captured page then contributes three
// consecutive objects: the page node, the image XObject (DCTDecode, i.e.
// baseline JPEG; DeviceGray for monochrome pages, DeviceRGB otherwise), and
// the content stream that scales the image onto the page. The document
// information dictionary comes last, followed by the xref table and
// trailer.
//
// Pages appear in the order given to Assemble, which is the session's
// capture order.
package assemble

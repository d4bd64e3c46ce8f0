package assemble

import (
	"bytes"
	"fmt"
)

// pdfWriter accumulates a PDF file: header, numbered indirect objects with
// recorded byte offsets, then the xref table and trailer. Objects are
// numbered 1..n in the order they are added, so callers lay out the file by
// write order and may reference objects forward.
type pdfWriter struct {
	buf     bytes.Buffer
	offsets []int64
}

func newPDFWriter() *pdfWriter {
	w := &pdfWriter{}
	w.buf.WriteString("%PDF-1.4\n")
	// Binary marker comment so transfer tools treat the file as binary.
	w.buf.Write([]byte{'%', 0xE2, 0xE3, 0xCF, 0xD3, '\n'})
	return w
}

// addObject writes an indirect object with the given body and returns its
// object number.
func (w *pdfWriter) addObject(body string) int {
	num := len(w.offsets) + 1
	w.offsets = append(w.offsets, int64(w.buf.Len()))
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", num, body)
	return num
}

// addStream writes an indirect object carrying a stream payload and returns
// its object number. The dictionary must already include /Length.
func (w *pdfWriter) addStream(dict string, data []byte) int {
	num := len(w.offsets) + 1
	w.offsets = append(w.offsets, int64(w.buf.Len()))
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nstream\n", num, dict)
	w.buf.Write(data)
	w.buf.WriteString("\nendstream\nendobj\n")
	return num
}

// finish appends the xref table and trailer and returns the complete file.
// Every xref entry is exactly 20 bytes, as the format requires.
func (w *pdfWriter) finish(rootNum, infoNum int) []byte {
	xrefStart := w.buf.Len()

	fmt.Fprintf(&w.buf, "xref\n0 %d\n", len(w.offsets)+1)
	w.buf.WriteString("0000000000 65535 f \n")
	for _, off := range w.offsets {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", off)
	}

	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root %d 0 R /Info %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(w.offsets)+1, rootNum, infoNum, xrefStart)

	return w.buf.Bytes()
}

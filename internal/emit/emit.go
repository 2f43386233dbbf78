// Package emit writes per-file transformation output to a single
// buffered sink, optionally preceded by a delimiter header, and flushes
// on every exit path (clean or error).
package emit

import (
	"bufio"
	"fmt"
	"io"
)

// Writer buffers writes to an underlying sink and tracks whether a
// delimiter header should precede each file's output.
type Writer struct {
	buf      *bufio.Writer
	noHeader bool
}

// New wraps sink in a buffered writer. noHeader suppresses the
// "// === <path> ===" delimiter line in multi-file mode.
func New(sink io.Writer, noHeader bool) *Writer {
	return &Writer{buf: bufio.NewWriter(sink), noHeader: noHeader}
}

// WriteFile emits one file's transformed output as a single contiguous
// write, preceded by a delimiter line when headers are enabled. The
// delimiter and content are written together so a concurrent flush can
// never interleave a bare delimiter with another file's bytes.
func (w *Writer) WriteFile(path string, content []byte) error {
	if !w.noHeader {
		if _, err := fmt.Fprintf(w.buf, "// === %s ===\n", path); err != nil {
			return err
		}
	}
	if _, err := w.buf.Write(content); err != nil {
		return err
	}
	return nil
}

// Flush flushes any buffered bytes to the underlying sink. Callers must
// call Flush on every exit path, including error paths, so partial
// output already produced is not lost.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}

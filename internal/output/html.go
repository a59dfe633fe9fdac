package output

import (
	"bufio"
	"io"
)

// HTMLWriter writes cleaned fragments as-is, one per line.
type HTMLWriter struct {
	w *bufio.Writer
}

// NewHTMLWriter creates an HTML writer.
func NewHTMLWriter(w io.Writer) *HTMLWriter {
	return &HTMLWriter{w: bufio.NewWriter(w)}
}

// Write outputs the record's content followed by a newline.
func (w *HTMLWriter) Write(rec Record) error {
	if _, err := w.w.WriteString(rec.Content); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return nil
}

// Flush flushes the buffer.
func (w *HTMLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *HTMLWriter) Close() error {
	return w.Flush()
}

package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter writes records as JSON.
type JSONWriter struct {
	w      *bufio.Writer
	pretty bool
	indent string
	items  []Record
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
	}
}

// Write buffers a single record for JSON output.
func (w *JSONWriter) Write(rec Record) error {
	w.items = append(w.items, rec)
	return nil
}

// Flush writes the buffered records. A single record is output directly,
// several become an array.
func (w *JSONWriter) Flush() error {
	var payload any = w.items
	if len(w.items) == 1 {
		payload = w.items[0]
	}

	var out []byte
	var err error
	if w.pretty {
		out, err = json.MarshalIndent(payload, "", w.indent)
	} else {
		out, err = json.Marshal(payload)
	}
	if err != nil {
		return err
	}

	if _, err := w.w.Write(out); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

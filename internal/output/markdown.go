package output

import (
	"bufio"
	"fmt"
	"io"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// MarkdownWriter converts cleaned fragments to Markdown before writing.
// Since the cleaned fragment is already confined to a small semantic tag
// set, the conversion is lossless for everything the pipeline emits.
type MarkdownWriter struct {
	w *bufio.Writer
}

// NewMarkdownWriter creates a Markdown writer.
func NewMarkdownWriter(w io.Writer) *MarkdownWriter {
	return &MarkdownWriter{w: bufio.NewWriter(w)}
}

// Write converts the record's content to Markdown and outputs it.
func (w *MarkdownWriter) Write(rec Record) error {
	md, err := htmltomarkdown.ConvertString(rec.Content)
	if err != nil {
		return fmt.Errorf("converting to markdown: %w", err)
	}
	if _, err := w.w.WriteString(md); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return nil
}

// Flush flushes the buffer.
func (w *MarkdownWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *MarkdownWriter) Close() error {
	return w.Flush()
}

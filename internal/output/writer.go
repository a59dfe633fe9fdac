// Package output handles serialization of cleaning results for the CLI.
package output

import (
	"fmt"
	"io"

	"github.com/vpotap/CleanHTML/pkg/cleanhtml"
)

// Format represents output format types.
type Format string

const (
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Record is one cleaning result ready for serialization.
type Record struct {
	Source   string              `json:"source,omitempty" yaml:"source,omitempty"`
	Content  string              `json:"content" yaml:"content"`
	Stats    *cleanhtml.Stats    `json:"stats,omitempty" yaml:"stats,omitempty"`
	Warnings []cleanhtml.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Writer handles output serialization.
type Writer interface {
	// Write outputs (or buffers) a single record.
	Write(rec Record) error

	// Flush ensures all buffered data is written.
	Flush() error

	// Close releases resources.
	Close() error
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatHTML:
		return NewHTMLWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w, true, "  "), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	case FormatMarkdown:
		return NewMarkdownWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

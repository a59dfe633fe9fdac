package cleanhtml

import (
	"fmt"
	"strings"
	"time"
)

// Stats captures what one cleaning pass did.
type Stats struct {
	// Size metrics
	InputBytes  int `json:"input_bytes"`
	OutputBytes int `json:"output_bytes"`

	// Transform counters
	ScriptsRemoved          int `json:"scripts_removed"`
	HeadingsDemoted         int `json:"headings_demoted"`
	HeadingsSynthesized     int `json:"headings_synthesized"`
	BoldHeadingsUnwrapped   int `json:"bold_headings_unwrapped"`
	SpansUnwrapped          int `json:"spans_unwrapped"`
	ListParagraphsUnwrapped int `json:"list_paragraphs_unwrapped"`

	// Timing
	PreprocessDuration time.Duration `json:"preprocess_duration_ms"`
	ParseDuration      time.Duration `json:"parse_duration_ms"`
	NormalizeDuration  time.Duration `json:"normalize_duration_ms"`
	FilterDuration     time.Duration `json:"filter_duration_ms"`
	TotalDuration      time.Duration `json:"total_duration_ms"`
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{}
}

// ReductionPercent returns the percentage reduction in size.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// String returns a human-readable summary.
func (s *Stats) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Size: %d -> %d bytes (%.1f%% reduction)\n",
		s.InputBytes, s.OutputBytes, s.ReductionPercent()))
	if s.ScriptsRemoved > 0 {
		sb.WriteString(fmt.Sprintf("Scripts removed: %d\n", s.ScriptsRemoved))
	}
	if s.HeadingsDemoted > 0 || s.HeadingsSynthesized > 0 {
		sb.WriteString(fmt.Sprintf("Headings: %d demoted, %d synthesized, %d bold runs unwrapped\n",
			s.HeadingsDemoted, s.HeadingsSynthesized, s.BoldHeadingsUnwrapped))
	}
	if s.SpansUnwrapped > 0 {
		sb.WriteString(fmt.Sprintf("Spans unwrapped: %d\n", s.SpansUnwrapped))
	}
	if s.ListParagraphsUnwrapped > 0 {
		sb.WriteString(fmt.Sprintf("List paragraphs unwrapped: %d\n", s.ListParagraphsUnwrapped))
	}
	sb.WriteString(fmt.Sprintf("Timing: preprocess=%v, parse=%v, normalize=%v, filter=%v, total=%v\n",
		s.PreprocessDuration.Round(time.Microsecond),
		s.ParseDuration.Round(time.Microsecond),
		s.NormalizeDuration.Round(time.Microsecond),
		s.FilterDuration.Round(time.Microsecond),
		s.TotalDuration.Round(time.Microsecond)))
	return sb.String()
}

// Warning represents a non-fatal issue encountered during cleaning.
type Warning struct {
	Phase   string `json:"phase"`   // "preprocess", "parse", "filter"
	Message string `json:"message"` // human-readable description
	Context string `json:"context"` // detail about what triggered it
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Phase, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
}

// Result contains the output of one cleaning operation.
type Result struct {
	// Content is the cleaned fragment. On parse failure it holds the
	// original input.
	Content string `json:"content"`

	// Stats contains metrics about what was done.
	Stats *Stats `json:"stats"`

	// Warnings contains non-fatal issues encountered.
	Warnings []Warning `json:"warnings,omitempty"`

	// Error is set only on catastrophic failures.
	Error error `json:"error,omitempty"`
}

// AddWarning appends a warning to the result.
func (r *Result) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, Warning{Phase: phase, Message: message, Context: context})
}

// HasWarnings reports whether any warnings were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

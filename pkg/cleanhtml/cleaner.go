// Package cleanhtml normalizes untrusted, loosely formatted HTML — the kind
// pasted out of word processors, spreadsheets and web editors — into a
// minimal, well-formed semantic fragment restricted to an explicit tag
// allowlist.
//
// The pipeline runs fixed string passes over the raw input, parses it
// permissively, applies structural tree transforms (heading demotion and
// synthesis, span stripping, list-item paragraph unwrap), filters the
// result through an allowlist sanitizer, and normalizes the tree once more.
// Reconstruct is the standalone text-to-paragraph algorithm and works
// without the tree pipeline.
package cleanhtml

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vpotap/CleanHTML/pkg/sanitize"
)

// TagSpec is the allowed tag/attribute specification handed to the filter.
type TagSpec = sanitize.TagSpec

// Filter enforces a tag/attribute allowlist on a serialized fragment.
// Implementations must return well-formed markup containing only the tags
// and attributes named in allowed; the default is sanitize.New().
type Filter interface {
	Filter(fragment string, allowed TagSpec) (string, error)
}

// Config configures a Cleaner.
type Config struct {
	// Options selects the allowed-tag superset. The zero value is the
	// baseline set.
	Options Options

	// Filter is the sanitizing filter applied between the two normalize
	// passes. Nil means the built-in allowlist sanitizer.
	Filter Filter
}

// Cleaner normalizes HTML fragments. Each call allocates and discards its
// own tree state, so one Cleaner is safe for concurrent use; options are
// the only shared value and are guarded for concurrent reconfiguration.
type Cleaner struct {
	mu     sync.RWMutex
	opts   Options
	filter Filter
}

// New creates a Cleaner. A nil config gets default options and the built-in
// filter.
func New(config *Config) *Cleaner {
	if config == nil {
		config = &Config{}
	}
	filter := config.Filter
	if filter == nil {
		filter = sanitize.New()
	}
	return &Cleaner{opts: config.Options, filter: filter}
}

// SetOptions applies named option values. Keys are validated against the
// five recognized names before anything is applied: on an unrecognized key
// the configuration is left untouched and the returned ConfigError names
// the offending key.
func (c *Cleaner) SetOptions(values map[string]bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := c.opts.With(values)
	if err != nil {
		return err
	}
	c.opts = next
	return nil
}

// Options returns a snapshot of the current configuration.
func (c *Cleaner) Options() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts.Map()
}

// Clean runs the full normalization pipeline and returns the cleaned
// fragment. The result is a pure function of the input and the current
// options; no state survives the call.
func (c *Cleaner) Clean(html string) (string, error) {
	result := c.CleanWithStats(html)
	if result.Error != nil {
		return "", result.Error
	}
	return result.Content, nil
}

// parse is swappable for exercising the parse-failure path; goquery only
// fails when its reader does.
var parse = parseFragment

// CleanWithStats runs the pipeline and returns the cleaned fragment along
// with per-phase metrics and any non-fatal warnings. If parsing fails the
// result content is empty, never the unfiltered input.
func (c *Cleaner) CleanWithStats(html string) *Result {
	start := time.Now()
	result := &Result{Stats: NewStats()}
	result.Stats.InputBytes = len(html)

	c.mu.RLock()
	opts := c.opts
	filter := c.filter
	c.mu.RUnlock()

	preStart := time.Now()
	text := normalizeQuotes(html)
	text = preprocess(text)
	result.Stats.PreprocessDuration = time.Since(preStart)

	parseStart := time.Now()
	frag, err := parse(text)
	result.Stats.ParseDuration = time.Since(parseStart)
	if err != nil {
		// Parsing is permissive; a failure here means the reader broke,
		// not the markup. Returning the raw input would bypass the filter,
		// so the result carries no content at all.
		result.AddWarning("parse", "parse failed, dropping input", err.Error())
		result.Stats.TotalDuration = time.Since(start)
		return result
	}

	normStart := time.Now()
	frag = removeScriptElements(frag, result.Stats)
	frag = normalizeFragment(frag, true, result.Stats)
	result.Stats.NormalizeDuration = time.Since(normStart)

	filterStart := time.Now()
	filtered, err := filter.Filter(frag.Markup(), opts.TagSpec())
	result.Stats.FilterDuration = time.Since(filterStart)
	if err != nil {
		result.Error = fmt.Errorf("cleanhtml: filter: %w", err)
		result.Content = html
		result.Stats.TotalDuration = time.Since(start)
		return result
	}

	parseStart = time.Now()
	frag, err = parse(filtered)
	result.Stats.ParseDuration += time.Since(parseStart)
	if err != nil {
		result.AddWarning("parse", "re-parse failed, dropping input", err.Error())
		result.Stats.TotalDuration = time.Since(start)
		return result
	}

	normStart = time.Now()
	frag = normalizeFragment(frag, false, result.Stats)
	result.Stats.NormalizeDuration += time.Since(normStart)

	result.Content = finalize(frag.Markup())
	result.Stats.OutputBytes = len(result.Content)
	result.Stats.TotalDuration = time.Since(start)
	return result
}

// finalize applies the last text fixes: literal non-breaking spaces become
// plain spaces, blank-line runs collapse, and the trailing whitespace run
// (including any final newline) is stripped.
func finalize(markup string) string {
	out := strings.ReplaceAll(markup, " ", " ")
	out = blankLineRunRe.ReplaceAllString(out, "\n")
	return strings.TrimRight(out, " \t\r\n")
}

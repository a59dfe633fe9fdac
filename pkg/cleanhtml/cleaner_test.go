package cleanhtml

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

var outputTagRe = regexp.MustCompile(`</?([a-zA-Z][a-zA-Z0-9]*)`)

func TestCleanerClean(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		in       string
		want     string // exact output when non-empty
		contains []string
		excludes []string
	}{
		{
			name: "h1 demoted to h2",
			in:   "<h1>Title</h1>",
			want: "<h2>Title</h2>",
		},
		{
			name: "bold paragraph becomes heading",
			in:   "<p><strong>Section Title</strong></p>",
			want: "<h2>Section Title</h2>",
		},
		{
			name: "script removed with its content",
			in:   "<p>keep</p><script>alert(1)</script>",
			want: "<p>keep</p>",
		},
		{
			name:     "links stripped by default",
			in:       `<p><a href="http://example.com">link</a> text</p>`,
			contains: []string{"link", "text"},
			excludes: []string{"<a", "href", "example.com"},
		},
		{
			name:     "links kept when enabled",
			config:   &Config{Options: Options{Links: true}},
			in:       `<p><a href="http://example.com" onclick="x()">link</a></p>`,
			contains: []string{`href="http://example.com"`, ">link</a>"},
			excludes: []string{"onclick"},
		},
		{
			name:     "images kept when enabled",
			config:   &Config{Options: Options{Images: true}},
			in:       `<p><img src="a.png" border="2">photo</p>`,
			contains: []string{`src="a.png"`, "photo"},
			excludes: []string{"border"},
		},
		{
			name:     "italics stripped by default",
			in:       "<p><em>soft</em> voice</p>",
			contains: []string{"soft voice"},
			excludes: []string{"<em>"},
		},
		{
			name:     "tables kept when enabled",
			config:   &Config{Options: Options{Table: true}},
			in:       "<table><tr><td>cell</td></tr></table>",
			contains: []string{"<table>", "<td>cell</td>"},
		},
		{
			name:     "strip removes every tag",
			config:   &Config{Options: Options{Strip: true}},
			in:       "<h1>Title</h1><p>Hello <b>world</b></p>",
			contains: []string{"Title", "Hello world"},
			excludes: []string{"<"},
		},
		{
			name: "styled spans unwrapped",
			in:   `<p><span style="mso-fareast">pasted</span> text</p>`,
			want: "<p>pasted text</p>",
		},
		{
			name: "list item paragraphs flattened",
			in:   "<ul><li><p>one</p></li><li><p>two</p></li></ul>",
			want: "<ul><li>one</li><li>two</li></ul>",
		},
		{
			name: "smart dashes and ellipsis become ascii",
			in:   "<p>c–d e—f g…</p>",
			want: "<p>c-d e--f g...</p>",
		},
		{
			name: "non-breaking spaces become plain spaces",
			in:   "<p>a\u00a0b</p>",
			want: "<p>a b</p>",
		},
		{
			name: "empty wrappers removed",
			in:   "<p>kept</p><p>&nbsp;</p><p>  </p>",
			want: "<p>kept</p>",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name:     "non-ascii text preserved",
			in:       "<p>café señor 日本語</p>",
			contains: []string{"café señor 日本語"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.config).Clean(tt.in)
			if err != nil {
				t.Fatalf("Clean(%q): %v", tt.in, err)
			}
			if tt.want != "" || (len(tt.contains) == 0 && len(tt.excludes) == 0) {
				if got != tt.want {
					t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
				}
				return
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Clean(%q) = %q, missing %q", tt.in, got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("Clean(%q) = %q, should not contain %q", tt.in, got, bad)
				}
			}
		})
	}
}

// Escaped entities in text are not tags; the strip test above would trip on
// them, so the escape behavior gets its own check.
func TestCleanStripEscapesRemainingMarkup(t *testing.T) {
	c := New(&Config{Options: Options{Strip: true}})
	got, err := c.Clean("<p>a &lt;tag&gt; b</p>")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "&lt;tag&gt;") {
		t.Errorf("literal angle brackets lost their escaping: %q", got)
	}
}

func TestCleanOutputOnlyAllowedTags(t *testing.T) {
	inputs := []string{
		`<article><h1>T</h1><p>a</p><iframe src="x"></iframe></article>`,
		`<div><video controls><source src="v.mp4"></video><p>after</p></div>`,
		`<form><input name="q"><button>go</button></form>`,
		`<p style="color:red" onmouseover="x()">styled</p>`,
	}
	allowed := Options{}.TagSpec()

	c := New(nil)
	for _, in := range inputs {
		got, err := c.Clean(in)
		if err != nil {
			t.Fatalf("Clean(%q): %v", in, err)
		}
		for _, m := range outputTagRe.FindAllStringSubmatch(got, -1) {
			if _, ok := allowed[strings.ToLower(m[1])]; !ok {
				t.Errorf("Clean(%q) emitted disallowed tag %q: %q", in, m[1], got)
			}
		}
		if strings.Contains(got, "style=") || strings.Contains(got, "onmouseover") {
			t.Errorf("Clean(%q) kept a disallowed attribute: %q", in, got)
		}
	}
}

func TestCleanNeverEmitsH1(t *testing.T) {
	inputs := []string{
		"<h1>one</h1>",
		"<h1 class=big>styled</h1><p>body</p>",
		"<h1>first</h1><h1>second</h1>",
		// Nested inside allowed containers the filter will not strip.
		"<ul><li><h1>deep</h1></li></ul>",
		"<pre><h1>pre heading</h1></pre>",
		"<div><section><h1>buried</h1></section></div>",
	}
	c := New(nil)
	for _, in := range inputs {
		got, err := c.Clean(in)
		if err != nil {
			t.Fatalf("Clean(%q): %v", in, err)
		}
		if strings.Contains(got, "<h1") {
			t.Errorf("Clean(%q) left an h1: %q", in, got)
		}
		if !strings.Contains(got, "<h2") {
			t.Errorf("Clean(%q) lost the heading entirely: %q", in, got)
		}
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"<h1>Title</h1><p>Some text</p>",
		"<p><strong>Heading</strong></p><ul><li><p>item</p></li></ul>",
		"<p><span style=\"x\">a</span> b\u00a0c</p>",
	}
	c := New(nil)
	for _, in := range inputs {
		once, err := c.Clean(in)
		if err != nil {
			t.Fatalf("Clean(%q): %v", in, err)
		}
		twice, err := c.Clean(once)
		if err != nil {
			t.Fatalf("Clean(%q): %v", once, err)
		}
		if once != twice {
			t.Errorf("cleaning is not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestSetOptions(t *testing.T) {
	c := New(nil)

	if err := c.SetOptions(map[string]bool{"images": true, "links": true}); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}
	opts := c.Options()
	if !opts["images"] || !opts["links"] || opts["table"] {
		t.Errorf("options not applied: %v", opts)
	}
}

func TestSetOptionsRejectsUnknownKeyAtomically(t *testing.T) {
	c := New(nil)

	err := c.SetOptions(map[string]bool{"images": true, "foo": true})
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("error type = %T, want *ConfigError", err)
	}
	if cerr.Key != "foo" {
		t.Errorf("ConfigError.Key = %q, want %q", cerr.Key, "foo")
	}
	if !strings.Contains(err.Error(), `"foo"`) {
		t.Errorf("error message does not name the key: %v", err)
	}

	// Nothing may have been applied, not even the valid key.
	if opts := c.Options(); opts["images"] {
		t.Errorf("valid key applied despite rejection: %v", opts)
	}
}

func TestOptionsSnapshotIsACopy(t *testing.T) {
	c := New(nil)
	snap := c.Options()
	snap["images"] = true

	if c.Options()["images"] {
		t.Error("mutating the snapshot changed the cleaner's options")
	}
}

func TestCleanWithStats(t *testing.T) {
	c := New(nil)
	in := "<h1>A</h1><script>x()</script><p><span>b</span></p>"
	result := c.CleanWithStats(in)

	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	st := result.Stats
	if st.InputBytes != len(in) {
		t.Errorf("InputBytes = %d, want %d", st.InputBytes, len(in))
	}
	if st.OutputBytes != len(result.Content) {
		t.Errorf("OutputBytes = %d, want %d", st.OutputBytes, len(result.Content))
	}
	if st.ScriptsRemoved != 1 {
		t.Errorf("ScriptsRemoved = %d, want 1", st.ScriptsRemoved)
	}
	if st.HeadingsDemoted != 1 {
		t.Errorf("HeadingsDemoted = %d, want 1", st.HeadingsDemoted)
	}
	if st.SpansUnwrapped != 1 {
		t.Errorf("SpansUnwrapped = %d, want 1", st.SpansUnwrapped)
	}
	if result.HasWarnings() {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestCleanerFilterErrorPropagates(t *testing.T) {
	c := New(&Config{Filter: failingFilter{}})
	_, err := c.Clean("<p>x</p>")
	if err == nil {
		t.Fatal("expected filter error")
	}
	if !strings.Contains(err.Error(), "cleanhtml: filter:") {
		t.Errorf("error not wrapped: %v", err)
	}
}

type failingFilter struct{}

func (failingFilter) Filter(string, TagSpec) (string, error) {
	return "", errors.New("boom")
}

func TestCleanParseFailureDropsInput(t *testing.T) {
	// A parse failure must never hand unfiltered markup back to the caller.
	orig := parse
	defer func() { parse = orig }()

	for _, failOn := range []int{1, 2} {
		calls := 0
		parse = func(markup string) (Fragment, error) {
			calls++
			if calls == failOn {
				return nil, errors.New("reader broke")
			}
			return parseFragment(markup)
		}

		c := New(nil)
		result := c.CleanWithStats(`<p onclick="x()">dirty</p>`)

		if result.Error != nil {
			t.Fatalf("failOn=%d: parse failure must be non-fatal, got %v", failOn, result.Error)
		}
		if result.Content != "" {
			t.Errorf("failOn=%d: content = %q, want empty", failOn, result.Content)
		}
		if !result.HasWarnings() {
			t.Errorf("failOn=%d: expected a parse warning", failOn)
		}
	}
}

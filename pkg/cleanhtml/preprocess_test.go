package cleanhtml

import (
	"strings"
	"testing"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string // expected tail after the charset header
	}{
		{
			name: "whitespace runs collapse",
			in:   "a  \t b",
			want: "a b",
		},
		{
			name: "nbsp joins whitespace runs",
			in:   "a   b",
			want: "a b",
		},
		{
			name: "padding after opening tag removed",
			in:   "<p>   text</p>",
			want: "<p>text</p>",
		},
		{
			name: "nbsp entity after opening tag removed",
			in:   "<p>&nbsp;text</p>",
			want: "<p>text</p>",
		},
		{
			name: "break tag pair becomes paragraph marker",
			in:   "a<br><br>b",
			want: "a<p>b",
		},
		{
			name: "break tag pair with self-closing slashes",
			in:   "a<br /> <br/>b",
			want: "a<p>b",
		},
		{
			name: "empty pair removed",
			in:   "x<p>  </p>y",
			want: "xy",
		},
		{
			name: "nbsp-only cell removed",
			in:   "<td>&nbsp;</td>",
			want: "",
		},
		{
			name: "content is kept",
			in:   "<p>x</p>",
			want: "<p>x</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocess(tt.in)
			if !strings.HasPrefix(got, utf8Header) {
				t.Fatalf("preprocess(%q) missing charset header: %q", tt.in, got)
			}
			if tail := strings.TrimPrefix(got, utf8Header); tail != tt.want {
				t.Errorf("preprocess(%q) = %q, want %q", tt.in, tail, tt.want)
			}
		})
	}
}

func TestStripEmptyPairs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whitespace only", "<p>  </p>", ""},
		{"nbsp entity only", "<p>&nbsp;</p>", ""},
		{"raw nbsp only", "<p> </p>", ""},
		{"attributes do not protect", `<div class="x"> </div>`, ""},
		{"real content kept", "<p>x</p>", "<p>x</p>"},
		{"mismatched pair kept", "<p> </div>", "<p> </div>"},
		{"void element kept", "<img src=x></img>", "<img src=x></img>"},
		{"single pass leaves outer wrapper", "<div><p> </p></div>", "<div></div>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripEmptyPairs(tt.in); got != tt.want {
				t.Errorf("stripEmptyPairs(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

package cleanhtml

import "strings"

// quoteReplacer maps the typographic punctuation word processors insert
// (Windows-1252 survivors, mostly) to plain ASCII equivalents.
var quoteReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'",
	"′", "'",
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`,
	"″", `"`,
	"«", `"`,
	"»", `"`,
	"–", "-", // en dash
	"—", "--", // em dash
	"…", "...", // ellipsis
)

// normalizeQuotes rewrites smart quotes, dashes and ellipses to ASCII.
func normalizeQuotes(s string) string {
	return quoteReplacer.Replace(s)
}

package cleanhtml

import (
	"regexp"
	"strings"
)

// utf8Header is prepended before parsing so the permissive parser reads the
// input as UTF-8 no matter what the pasted source declared.
const utf8Header = `<meta http-equiv="Content-Type" content="text/html; charset=utf-8">`

var (
	wsRunRe        = regexp.MustCompile(`[\s\x{00A0}]{2,}`)
	afterOpenTagRe = regexp.MustCompile(`(?i)(<[a-z][^>]*>)(?:\s|&nbsp;|\x{00A0})+`)
	brPairMarkRe   = regexp.MustCompile(`(?i)<br\s*/?>\s*<br\s*/?>`)
	emptyPairRe    = regexp.MustCompile(`(?i)<([a-z][a-z0-9]*)\b[^>]*>(?:\s|&nbsp;|\x{00A0})*</([a-z][a-z0-9]*)>`)
)

// preprocess normalizes raw pasted markup into a string fit for permissive
// parsing. The passes are plain text substitutions, not tag-aware: they can
// touch attribute values and preformatted regions. That is an accepted
// limitation of this stage.
func preprocess(raw string) string {
	// Runs of whitespace and non-breaking space collapse to one space.
	s := wsRunRe.ReplaceAllString(raw, " ")

	// Whitespace padding right after an opening tag is editor noise.
	s = afterOpenTagRe.ReplaceAllString(s, "$1")

	// Two consecutive line breaks are how spreadsheet exports spell a
	// paragraph boundary.
	s = brPairMarkRe.ReplaceAllString(s, "<p>")

	s = stripEmptyPairs(s)

	return utf8Header + s
}

// stripEmptyPairs removes element pairs whose entire content is whitespace
// or &nbsp;. One pass only; nested empty wrappers left behind are caught by
// the filter stage later.
func stripEmptyPairs(s string) string {
	return emptyPairRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := emptyPairRe.FindStringSubmatch(m)
		if sub == nil {
			return m
		}
		opening, closing := strings.ToLower(sub[1]), strings.ToLower(sub[2])
		if opening != closing || voidTags[opening] {
			return m
		}
		return ""
	})
}

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

package cleanhtml

import (
	"fmt"
	"regexp"
	"strings"
)

// blockTagAlternation lists every tag treated as block-level by the
// reconstructor. Block tags force line spacing around themselves and are
// never nested inside an auto-inserted paragraph.
const blockTagAlternation = `(?:table|thead|tfoot|caption|col|colgroup|tbody|tr|td|th|div|dl|dd|dt|ul|ol|li|pre|form|map|area|blockquote|address|style|p|h[1-6]|hr|fieldset|legend|section|article|aside|hgroup|header|footer|nav|figure|figcaption|details|menu|summary)`

// preservedNewline stands in for newlines inside script/style regions while
// line breaks are inserted everywhere else.
const preservedNewline = "<!--cleanhtml:nl-->"

var (
	brPairRe      = regexp.MustCompile(`(?i)<br\s*/?>\s*<br\s*/?>`)
	blockOpenRe   = regexp.MustCompile(`(?i)(<` + blockTagAlternation + `[\s/>])`)
	blockCloseRe  = regexp.MustCompile(`(?i)(</` + blockTagAlternation + `>)`)
	objectOpenRe  = regexp.MustCompile(`(?is)(<object[^>]*>)\s+`)
	objectCloseRe = regexp.MustCompile(`\s+</object>`)
	paramEmbedRe  = regexp.MustCompile(`(?is)\s*(</?(?:param|embed)[^>]*>)\s*`)
	newlineRunRe  = regexp.MustCompile(`\n\n+`)
	paraSplitRe   = regexp.MustCompile(`\n\s*\n`)

	emptyParaRe     = regexp.MustCompile(`<p>\s*</p>`)
	paraContainerRe = regexp.MustCompile(`(?i)<p>([^<]+)</(div|address|form)>`)
	paraBlockPairRe = regexp.MustCompile(`(?i)<p>\s*(</?` + blockTagAlternation + `[^>]*>)\s*</p>`)
	paraListItemRe  = regexp.MustCompile(`<p>(<li.+?)</p>`)
	paraQuoteOpenRe = regexp.MustCompile(`(?i)<p><blockquote([^>]*)>`)
	paraBlockOpenRe = regexp.MustCompile(`(?i)<p>\s*(</?` + blockTagAlternation + `[^>]*>)`)
	blockParaEndRe  = regexp.MustCompile(`(?i)(</?` + blockTagAlternation + `[^>]*>)\s*</p>`)

	scriptRegionRe = regexp.MustCompile(`(?is)<script.*?</script>`)
	styleRegionRe  = regexp.MustCompile(`(?is)<style.*?</style>`)
	newlineToBrRe  = regexp.MustCompile(`(?:<br />)?\s*\n`)
	blockThenBrRe  = regexp.MustCompile(`(?i)(</?` + blockTagAlternation + `[^>]*>)\s*<br />`)
	brThenBlockRe  = regexp.MustCompile(`(?i)<br />(\s*</?(?:p|li|div|dl|dd|dt|th|pre|td|ul|ol)>)`)
	trailingParaRe = regexp.MustCompile(`\n</p>(\n?)$`)
)

// preBlock records one extracted preformatted region: the placeholder token
// standing in for it and the original text restored verbatim at the end.
type preBlock struct {
	token   string
	content string
}

// Reconstruct converts loosely delimited text into paragraph-wrapped HTML.
// Blank lines (or a pair of <br> tags) become paragraph boundaries, block
// tags are kept outside auto-inserted paragraphs, and the content of
// complete <pre> blocks passes through byte for byte. When insertLineBreaks
// is set, remaining single newlines become <br /> tags.
//
// Text content is never reordered or dropped; only tag boundaries and
// whitespace change.
func Reconstruct(text string, insertLineBreaks bool) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	// A trailing newline simplifies every boundary rule below.
	text += "\n"

	var pres []preBlock
	if strings.Contains(text, "<pre") {
		text, pres = extractPreBlocks(text)
	}

	// A pair of line-break tags means a paragraph break.
	text = brPairRe.ReplaceAllString(text, "\n\n")

	// Space out block-level tags so the paragraph split sees them.
	text = blockOpenRe.ReplaceAllString(text, "\n$1")
	text = blockCloseRe.ReplaceAllString(text, "$1\n\n")

	text = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text)

	// Legacy plugin rendering breaks when param/embed children of an
	// object are separated from it by whitespace.
	if strings.Contains(text, "</object>") {
		text = objectOpenRe.ReplaceAllString(text, "$1")
		text = objectCloseRe.ReplaceAllString(text, "</object>")
		text = paramEmbedRe.ReplaceAllString(text, "$1")
	}

	text = newlineRunRe.ReplaceAllString(text, "\n\n")

	// Wrap every blank-line-delimited chunk in a paragraph.
	var sb strings.Builder
	for _, chunk := range paraSplitRe.Split(text, -1) {
		if chunk == "" {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(strings.Trim(chunk, "\n"))
		sb.WriteString("</p>\n")
	}
	text = sb.String()

	// A paragraph of pure whitespace carries no content.
	text = emptyParaRe.ReplaceAllString(text, "")

	// Close the paragraph inside a div/address/form, not after it.
	text = paraContainerRe.ReplaceAllString(text, "<p>${1}</p></${2}>")

	// A paragraph wrapping nothing but a block tag is unwrapped.
	text = paraBlockPairRe.ReplaceAllString(text, "$1")

	// List items never sit inside an auto paragraph.
	text = paraListItemRe.ReplaceAllString(text, "$1")

	// A paragraph butting against a blockquote moves inside it.
	text = paraQuoteOpenRe.ReplaceAllString(text, "<blockquote${1}><p>")
	text = strings.ReplaceAll(text, "</blockquote></p>", "</p></blockquote>")

	// Auto paragraph tags touching a block tag are dropped.
	text = paraBlockOpenRe.ReplaceAllString(text, "$1")
	text = blockParaEndRe.ReplaceAllString(text, "$1")

	if insertLineBreaks {
		// Newlines inside script/style regions must survive untouched.
		text = scriptRegionRe.ReplaceAllStringFunc(text, protectNewlines)
		text = styleRegionRe.ReplaceAllStringFunc(text, protectNewlines)

		text = strings.NewReplacer("<br>", "<br />", "<br/>", "<br />").Replace(text)

		// Every newline not already carrying a break tag gets one.
		text = newlineToBrRe.ReplaceAllString(text, "<br />\n")

		text = strings.ReplaceAll(text, preservedNewline, "\n")
	}

	// Break tags directly adjacent to a block boundary are noise.
	text = blockThenBrRe.ReplaceAllString(text, "$1")
	text = brThenBlockRe.ReplaceAllString(text, "$1")

	text = trailingParaRe.ReplaceAllString(text, "</p>${1}")

	for _, pre := range pres {
		text = strings.ReplaceAll(text, pre.token, pre.content)
	}

	return text
}

// extractPreBlocks swaps each complete <pre>...</pre> region for a uniquely
// numbered placeholder so the passes above cannot disturb its content. The
// placeholder keeps the <pre ...></pre> shape so the block-tag rules treat
// it like the block it stands for. Text after the last closing marker holds
// no further preformatted content and is left as-is; likewise a dangling
// <pre with no close flows through unprotected.
func extractPreBlocks(text string) (string, []preBlock) {
	parts := strings.Split(text, "</pre>")
	last := parts[len(parts)-1]
	parts = parts[:len(parts)-1]

	var pres []preBlock
	var sb strings.Builder
	for i, part := range parts {
		start := strings.Index(part, "<pre")
		if start < 0 {
			sb.WriteString(part)
			continue
		}
		token := fmt.Sprintf("<pre cleanhtml-pre-%d></pre>", i)
		pres = append(pres, preBlock{token: token, content: part[start:] + "</pre>"})
		sb.WriteString(part[:start])
		sb.WriteString(token)
	}
	sb.WriteString(last)
	return sb.String(), pres
}

func protectNewlines(region string) string {
	return strings.ReplaceAll(region, "\n", preservedNewline)
}

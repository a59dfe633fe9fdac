// Package sanitize enforces a tag/attribute allowlist on HTML fragments.
// It is the filtering stage of the cleaning pipeline: every element not
// named in the supplied TagSpec is stripped (its children are kept), every
// attribute not listed for its tag is dropped, and elements left with no
// visible content are removed entirely.
//
// The filter guarantees a fixed policy regardless of TagSpec contents:
// output is UTF-8 with non-ASCII text preserved unescaped, inline style
// attributes are never permitted, comments and doctypes are dropped, and
// empty elements (including ones containing only a non-breaking space)
// do not survive.
package sanitize

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// TagSpec maps allowed tag names to the attribute names permitted on them.
// A nil or empty attribute list allows the tag with no attributes at all.
type TagSpec map[string][]string

// Clone returns an independent copy of the spec.
func (t TagSpec) Clone() TagSpec {
	out := make(TagSpec, len(t))
	for tag, attrs := range t {
		out[tag] = append([]string(nil), attrs...)
	}
	return out
}

// Tags returns the allowed tag names in sorted order.
func (t TagSpec) Tags() []string {
	tags := make([]string, 0, len(t))
	for tag := range t {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Sanitizer is an allowlist-based HTML filter.
type Sanitizer struct{}

// New creates a Sanitizer.
func New() *Sanitizer {
	return &Sanitizer{}
}

// Filter parses fragment permissively, removes every tag not present in
// allowed, filters attributes on the tags that remain, and prunes elements
// whose entire content is whitespace or non-breaking space. Text content of
// stripped elements is preserved in place.
func (s *Sanitizer) Filter(fragment string, allowed TagSpec) (string, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	body := findBody(doc)
	if body != nil {
		for c := body.FirstChild; c != nil; c = c.NextSibling {
			sb.WriteString(render(c, allowed))
		}
	} else {
		sb.WriteString(render(doc, allowed))
	}
	return sb.String(), nil
}

// render returns the filtered markup for n and its subtree.
func render(n *html.Node, allowed TagSpec) string {
	switch n.Type {
	case html.TextNode:
		return html.EscapeString(n.Data)

	case html.ElementNode:
		tag := strings.ToLower(n.Data)

		var children strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children.WriteString(render(c, allowed))
		}
		content := children.String()

		attrs, ok := allowed[tag]
		if !ok {
			// Disallowed tag: strip the markup, keep the content.
			return content
		}
		if !voidElements[tag] && isBlankContent(content) {
			return ""
		}

		var sb strings.Builder
		sb.WriteByte('<')
		sb.WriteString(tag)
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if key == "style" || !attrAllowed(key, attrs) {
				continue
			}
			sb.WriteByte(' ')
			sb.WriteString(key)
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(a.Val))
			sb.WriteByte('"')
		}
		if voidElements[tag] {
			sb.WriteString(" />")
			return sb.String()
		}
		sb.WriteByte('>')
		sb.WriteString(content)
		sb.WriteString("</")
		sb.WriteString(tag)
		sb.WriteByte('>')
		return sb.String()

	case html.DocumentNode:
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			sb.WriteString(render(c, allowed))
		}
		return sb.String()

	case html.CommentNode, html.DoctypeNode:
		return ""

	default:
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			sb.WriteString(render(c, allowed))
		}
		return sb.String()
	}
}

func attrAllowed(key string, attrs []string) bool {
	for _, a := range attrs {
		if strings.EqualFold(a, key) {
			return true
		}
	}
	return false
}

// isBlankContent reports whether rendered content holds nothing but
// whitespace or non-breaking space. The parser decodes &nbsp; to U+00A0
// before content reaches this check.
func isBlankContent(content string) bool {
	return strings.Trim(content, " \t\r\n ") == ""
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func findBody(doc *html.Node) *html.Node {
	var find func(*html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == "body" {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if r := find(c); r != nil {
				return r
			}
		}
		return nil
	}
	return find(doc)
}

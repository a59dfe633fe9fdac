package cleanhtml

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is one node of a parsed fragment: either an Element or a Text.
// Nodes are plain values; the tree transforms in this package never mutate
// a node in place, they build replacements.
type Node interface {
	node()
}

// Element is a tag with attributes and ordered children.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []Node
}

// Text is a run of character data.
type Text struct {
	Content string
}

func (Element) node() {}
func (Text) node()    {}

// Fragment is the ordered sequence of top-level body nodes.
type Fragment []Node

// rename returns a copy of el with a new tag name. Attributes and children
// are shared, not copied; callers treat nodes as immutable.
func rename(el Element, tag string) Element {
	return Element{Tag: tag, Attrs: el.Attrs, Children: el.Children}
}

// parseFragment parses markup permissively and returns the body content as
// a Fragment. Comments and doctypes are discarded.
func parseFragment(markup string) (Fragment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	var frag Fragment
	for _, bodyNode := range doc.Find("body").Nodes {
		for c := bodyNode.FirstChild; c != nil; c = c.NextSibling {
			if n, ok := fromHTMLNode(c); ok {
				frag = append(frag, n)
			}
		}
	}
	return frag, nil
}

func fromHTMLNode(n *html.Node) (Node, bool) {
	switch n.Type {
	case html.TextNode:
		return Text{Content: n.Data}, true
	case html.ElementNode:
		el := Element{Tag: strings.ToLower(n.Data)}
		if len(n.Attr) > 0 {
			el.Attrs = make(map[string]string, len(n.Attr))
			for _, a := range n.Attr {
				el.Attrs[strings.ToLower(a.Key)] = a.Val
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child, ok := fromHTMLNode(c); ok {
				el.Children = append(el.Children, child)
			}
		}
		return el, true
	default:
		return nil, false
	}
}

func toHTMLNode(n Node) *html.Node {
	switch v := n.(type) {
	case Text:
		return &html.Node{Type: html.TextNode, Data: v.Content}
	case Element:
		out := &html.Node{
			Type:     html.ElementNode,
			Data:     v.Tag,
			DataAtom: atom.Lookup([]byte(v.Tag)),
		}
		// Sorted attribute order keeps serialization deterministic.
		keys := make([]string, 0, len(v.Attrs))
		for k := range v.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out.Attr = append(out.Attr, html.Attribute{Key: k, Val: v.Attrs[k]})
		}
		for _, child := range v.Children {
			out.AppendChild(toHTMLNode(child))
		}
		return out
	default:
		return &html.Node{Type: html.TextNode}
	}
}

var blankLineRunRe = regexp.MustCompile(`\n[ \t]*\n+`)

// Markup serializes the fragment, one top-level node per line, with runs of
// blank lines collapsed and the trailing whitespace run stripped.
func (f Fragment) Markup() string {
	var sb strings.Builder
	for i, n := range f {
		if i > 0 {
			sb.WriteByte('\n')
		}
		_ = html.Render(&sb, toHTMLNode(n))
	}
	out := blankLineRunRe.ReplaceAllString(sb.String(), "\n")
	return strings.TrimRight(out, " \t\r\n")
}

package cleanhtml

import "strings"

// headingTextLimit is the longest bold run a paragraph may hold and still be
// promoted to a heading. Editors fake section headings with short bold
// lines; anything longer is treated as emphasized body text.
const headingTextLimit = 100

// normalizeFragment applies the structural transforms in fixed order.
// The list-item paragraph unwrap runs on the first pipeline pass only: by
// the second pass the filter has already flattened list content, and
// re-running it would unwrap paragraphs the author placed deliberately.
func normalizeFragment(frag Fragment, firstPass bool, st *Stats) Fragment {
	frag = demoteHeadings(frag, !firstPass, st)
	frag = synthesizeHeadings(frag, st)
	frag = cleanBoldHeadings(frag, st)
	frag = stripPresentationSpans(frag, st)
	if firstPass {
		frag = unwrapListItemParagraphs(frag, st)
	}
	return frag
}

// removeScriptElements drops every script element in the tree, regardless
// of configured options.
func removeScriptElements(frag Fragment, st *Stats) Fragment {
	out := make(Fragment, 0, len(frag))
	for _, n := range frag {
		el, ok := n.(Element)
		if !ok {
			out = append(out, n)
			continue
		}
		if el.Tag == "script" {
			st.ScriptsRemoved++
			continue
		}
		el.Children = removeScriptElements(el.Children, st)
		out = append(out, el)
	}
	return out
}

// demoteHeadings renames h1 elements to h2. Fragments are body content; the
// page they land in owns the single rank-1 heading. The first pipeline pass
// demotes top-level headings only; the second pass works at any depth, since
// the filter can keep an h1 nested inside an allowed container (a list item,
// a pre block) where no later stage would reach it.
func demoteHeadings(frag Fragment, nested bool, st *Stats) Fragment {
	out := make(Fragment, 0, len(frag))
	for _, n := range frag {
		el, ok := n.(Element)
		if !ok {
			out = append(out, n)
			continue
		}
		if nested {
			el.Children = demoteHeadings(el.Children, true, st)
		}
		if el.Tag == "h1" {
			st.HeadingsDemoted++
			el = rename(el, "h2")
		}
		out = append(out, el)
	}
	return out
}

// synthesizeHeadings rewrites a paragraph whose entire content is one short
// bold/strong run into an h2 holding the run's children.
func synthesizeHeadings(frag Fragment, st *Stats) Fragment {
	out := make(Fragment, 0, len(frag))
	for _, n := range frag {
		el, ok := n.(Element)
		if !ok {
			out = append(out, n)
			continue
		}
		el.Children = synthesizeHeadings(el.Children, st)
		if el.Tag == "p" {
			if bold, ok := soleBoldChild(el); ok && len(textContent(bold)) < headingTextLimit {
				st.HeadingsSynthesized++
				out = append(out, Element{Tag: "h2", Attrs: el.Attrs, Children: bold.Children})
				continue
			}
		}
		out = append(out, el)
	}
	return out
}

// cleanBoldHeadings unwraps a bold/strong element that is the sole child of
// an h2, whether synthesized above or present in the source.
func cleanBoldHeadings(frag Fragment, st *Stats) Fragment {
	out := make(Fragment, 0, len(frag))
	for _, n := range frag {
		el, ok := n.(Element)
		if !ok {
			out = append(out, n)
			continue
		}
		el.Children = cleanBoldHeadings(el.Children, st)
		if el.Tag == "h2" {
			if bold, ok := soleBoldChild(el); ok {
				st.BoldHeadingsUnwrapped++
				el.Children = bold.Children
			}
		}
		out = append(out, el)
	}
	return out
}

// stripPresentationSpans unwraps spans whose attributes are purely
// presentational leftovers from rich editors (style/class, or nothing at
// all). Spans carrying any other attribute stay.
func stripPresentationSpans(frag Fragment, st *Stats) Fragment {
	out := make(Fragment, 0, len(frag))
	for _, n := range frag {
		el, ok := n.(Element)
		if !ok {
			out = append(out, n)
			continue
		}
		el.Children = stripPresentationSpans(el.Children, st)
		if el.Tag == "span" && presentationOnly(el.Attrs) {
			st.SpansUnwrapped++
			out = append(out, el.Children...)
			continue
		}
		out = append(out, el)
	}
	return out
}

// unwrapListItemParagraphs splices paragraph children of list items into the
// item itself; list items hold inline content directly.
func unwrapListItemParagraphs(frag Fragment, st *Stats) Fragment {
	out := make(Fragment, 0, len(frag))
	for _, n := range frag {
		el, ok := n.(Element)
		if !ok {
			out = append(out, n)
			continue
		}
		el.Children = unwrapListItemParagraphs(el.Children, st)
		if el.Tag == "li" {
			children := make([]Node, 0, len(el.Children))
			for _, c := range el.Children {
				if p, ok := c.(Element); ok && p.Tag == "p" {
					st.ListParagraphsUnwrapped++
					children = append(children, p.Children...)
					continue
				}
				children = append(children, c)
			}
			el.Children = children
		}
		out = append(out, el)
	}
	return out
}

func presentationOnly(attrs map[string]string) bool {
	for k := range attrs {
		if k != "style" && k != "class" {
			return false
		}
	}
	return true
}

// soleBoldChild returns the single b/strong element child of el, tolerating
// whitespace-only text around it.
func soleBoldChild(el Element) (Element, bool) {
	var bold Element
	found := false
	for _, c := range el.Children {
		switch v := c.(type) {
		case Text:
			if strings.Trim(v.Content, " \t\r\n ") != "" {
				return Element{}, false
			}
		case Element:
			if found || (v.Tag != "b" && v.Tag != "strong") {
				return Element{}, false
			}
			bold = v
			found = true
		}
	}
	return bold, found
}

// textContent concatenates the text of a node's subtree.
func textContent(n Node) string {
	switch v := n.(type) {
	case Text:
		return v.Content
	case Element:
		var sb strings.Builder
		for _, c := range v.Children {
			sb.WriteString(textContent(c))
		}
		return sb.String()
	}
	return ""
}

package cleanhtml

import (
	"fmt"
	"sort"

	"github.com/vpotap/CleanHTML/pkg/sanitize"
)

// Options is the immutable record of the five recognized cleaning options.
// Each one widens (or, for Strip, empties) the allowed-tag set handed to the
// sanitizing filter.
type Options struct {
	// Images allows img elements with src and alt.
	Images bool

	// Italics allows em and i elements.
	Italics bool

	// Links allows anchor elements with href and target.
	Links bool

	// Table allows table, tr, td and th elements.
	Table bool

	// Strip empties the allowed-tag set entirely, overriding everything
	// else: output will contain no tags at all.
	Strip bool
}

// ConfigError reports an option name outside the five recognized ones.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cleanhtml: unrecognized option %q", e.Key)
}

// With returns a copy of o with the named options applied. All keys are
// validated before any is applied: on an unrecognized key it returns o
// unchanged and a ConfigError naming the first bad key in sorted order.
func (o Options) With(values map[string]bool) (Options, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch k {
		case "images", "italics", "links", "table", "strip":
		default:
			return o, &ConfigError{Key: k}
		}
	}

	out := o
	for k, v := range values {
		switch k {
		case "images":
			out.Images = v
		case "italics":
			out.Italics = v
		case "links":
			out.Links = v
		case "table":
			out.Table = v
		case "strip":
			out.Strip = v
		}
	}
	return out, nil
}

// Map returns the options as a name→value snapshot.
func (o Options) Map() map[string]bool {
	return map[string]bool{
		"images":  o.Images,
		"italics": o.Italics,
		"links":   o.Links,
		"table":   o.Table,
		"strip":   o.Strip,
	}
}

// TagSpec derives the allowed tag/attribute set passed to the filter.
// The baseline (headings, paragraph, bold/strong, lists, hr, pre, code) is
// always present unless Strip is set.
func (o Options) TagSpec() sanitize.TagSpec {
	if o.Strip {
		return sanitize.TagSpec{}
	}
	spec := sanitize.TagSpec{
		"h1": nil, "h2": nil, "h3": nil, "h4": nil, "h5": nil,
		"p": nil, "b": nil, "strong": nil,
		"ul": nil, "ol": nil, "li": nil,
		"hr": nil, "pre": nil, "code": nil,
	}
	if o.Images {
		spec["img"] = []string{"src", "alt"}
	}
	if o.Links {
		spec["a"] = []string{"href", "target"}
	}
	if o.Italics {
		spec["em"] = nil
		spec["i"] = nil
	}
	if o.Table {
		spec["table"] = nil
		spec["tr"] = nil
		spec["td"] = nil
		spec["th"] = nil
		// The permissive parser synthesizes table sections on every parse,
		// so filtering them out cannot stick.
		spec["thead"] = nil
		spec["tbody"] = nil
		spec["tfoot"] = nil
	}
	return spec
}

package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vpotap/CleanHTML/pkg/cleanhtml"
)

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer

	for _, format := range []Format{FormatHTML, FormatJSON, FormatYAML, FormatMarkdown} {
		w, err := NewWriter(&buf, format)
		require.NoError(t, err, "format %s", format)
		assert.NotNil(t, w)
	}

	_, err := NewWriter(&buf, Format("xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestHTMLWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewHTMLWriter(&buf)

	require.NoError(t, w.Write(Record{Content: "<p>one</p>"}))
	require.NoError(t, w.Write(Record{Content: "<p>two</p>"}))
	require.NoError(t, w.Close())

	assert.Equal(t, "<p>one</p>\n<p>two</p>\n", buf.String())
}

func TestJSONWriterSingleRecord(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf, true, "  ")

	require.NoError(t, w.Write(Record{Source: "a.html", Content: "<p>x</p>"}))
	require.NoError(t, w.Close())

	var rec Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), "single record must not be wrapped in an array")
	assert.Equal(t, "a.html", rec.Source)
	assert.Equal(t, "<p>x</p>", rec.Content)
}

func TestJSONWriterMultipleRecords(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf, false, "")

	require.NoError(t, w.Write(Record{Source: "a.html", Content: "a"}))
	require.NoError(t, w.Write(Record{Source: "b.html", Content: "b"}))
	require.NoError(t, w.Close())

	var recs []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "b.html", recs[1].Source)
}

func TestJSONWriterOmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf, false, "")

	require.NoError(t, w.Write(Record{Content: "x"}))
	require.NoError(t, w.Close())

	out := buf.String()
	assert.NotContains(t, out, "source")
	assert.NotContains(t, out, "stats")
	assert.NotContains(t, out, "warnings")
}

func TestJSONWriterIncludesStats(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf, false, "")

	st := cleanhtml.NewStats()
	st.InputBytes = 10
	st.OutputBytes = 5
	require.NoError(t, w.Write(Record{Content: "x", Stats: st}))
	require.NoError(t, w.Close())

	assert.Contains(t, buf.String(), `"input_bytes":10`)
}

func TestYAMLWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewYAMLWriter(&buf)

	require.NoError(t, w.Write(Record{Source: "a.html", Content: "<p>x</p>"}))
	require.NoError(t, w.Close())

	var rec Record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "a.html", rec.Source)
	assert.Equal(t, "<p>x</p>", rec.Content)
}

func TestYAMLWriterMultipleRecords(t *testing.T) {
	var buf bytes.Buffer
	w := NewYAMLWriter(&buf)

	require.NoError(t, w.Write(Record{Content: "a"}))
	require.NoError(t, w.Write(Record{Content: "b"}))
	require.NoError(t, w.Close())

	var recs []Record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &recs))
	assert.Len(t, recs, 2)
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	require.NoError(t, w.Write(Record{Content: "<h2>Title</h2>\n<p>Hello <strong>world</strong></p>"}))
	require.NoError(t, w.Close())

	out := buf.String()
	assert.Contains(t, out, "## Title")
	assert.Contains(t, out, "**world**")
	assert.False(t, strings.Contains(out, "<p>"), "markup left in markdown output: %q", out)
}

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"snippetly/internal/previews"
)

func TestDocumentHTMLIsVerbatim(t *testing.T) {
	content := "<!DOCTYPE html><html><body><h1>mine</h1></body></html>"
	assert.Equal(t, content, Document(content, previews.FileTypeHTML, "abc"))
}

func TestDocumentCSSEmbedsUnescapedStyle(t *testing.T) {
	css := "h1 { color: red; } .x > .y { margin: 0; }"
	doc := Document(css, previews.FileTypeCSS, "abc")

	assert.Contains(t, doc, css, "stylesheet must apply as written")
	assert.Contains(t, doc, ".x &gt; .y", "source listing is escaped")
	assert.Contains(t, doc, "<h1>Heading level one</h1>")
}

func TestDocumentJavaScriptHasRunTriggerAndConsoleSink(t *testing.T) {
	js := `console.log("a < b");`
	doc := Document(js, previews.FileTypeJavaScript, "abc")

	assert.Contains(t, doc, js, "script must execute as written")
	assert.Contains(t, doc, "console.log(&#34;a &lt; b&#34;);", "source listing is escaped")
	assert.Contains(t, doc, `id="run-btn"`)
	assert.Contains(t, doc, `id="console-sink"`)
}

func TestDocumentJSONStructuralCounts(t *testing.T) {
	doc := Document(`{"a": 1, "b": [true, null, "x"]}`, previews.FileTypeJSON, "abc")

	assert.Contains(t, doc, "keys: <b>2</b>")
	assert.Contains(t, doc, "objects: <b>1</b>")
	assert.Contains(t, doc, "arrays: <b>1</b>")
	assert.Contains(t, doc, "strings: <b>1</b>")
	assert.Contains(t, doc, "numbers: <b>1</b>")
	assert.Contains(t, doc, "booleans: <b>1</b>")
	assert.Contains(t, doc, "nulls: <b>1</b>")
}

func TestDocumentJSONInvalidFallsBackToRaw(t *testing.T) {
	doc := Document(`{not json`, previews.FileTypeJSON, "abc")

	assert.Contains(t, doc, "Not valid JSON")
	assert.Contains(t, doc, "{not json")
}

func TestAnalyzeJSONNestedStructures(t *testing.T) {
	var parsed any = map[string]any{
		"outer": map[string]any{
			"inner": []any{float64(1), float64(2)},
		},
	}
	var s jsonStructure
	analyzeJSON(parsed, &s)

	assert.Equal(t, 2, s.Keys)
	assert.Equal(t, 2, s.Objects)
	assert.Equal(t, 1, s.Arrays)
	assert.Equal(t, 2, s.Numbers)
}

func TestDocumentXMLCounts(t *testing.T) {
	xml := `<root attr="v"><!-- note --><child/><child a="1" b="2"/></root>`
	doc := Document(xml, previews.FileTypeXML, "abc")

	assert.Contains(t, doc, "elements: <b>3</b>")
	assert.Contains(t, doc, "attributes: <b>3</b>")
	assert.Contains(t, doc, "comments: <b>1</b>")
	assert.NotContains(t, doc, "<root", "markup must not leak unescaped")
}

func TestDocumentXMLMalformedFallsBack(t *testing.T) {
	doc := Document(`<root><unclosed>`, previews.FileTypeXML, "abc")
	assert.Contains(t, doc, "Not well-formed XML")
}

func TestReindentXML(t *testing.T) {
	out, ok := reindentXML(`<a><b>text</b></a>`)
	assert.True(t, ok)
	assert.Contains(t, out, "\n  <b>")
}

func TestDocumentSVGInlineWithShapeCounts(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg"><path d="M0 0"/><circle r="5"/><circle r="7"/><linearGradient id="g"/></svg>`
	doc := Document(svg, previews.FileTypeSVG, "abc")

	assert.Contains(t, doc, svg, "image embeds unescaped")
	assert.Contains(t, doc, "paths: <b>1</b>")
	assert.Contains(t, doc, "circles: <b>2</b>")
	assert.Contains(t, doc, "lines: <b>0</b>", "linearGradient is not a line")
	assert.Contains(t, doc, `id="toggle-source"`)
}

func TestDocumentUnknownTypeEscapesText(t *testing.T) {
	doc := Document("line one\n<danger>\nline three", "markdown", "abc")

	assert.Contains(t, doc, "lines: <b>3</b>")
	assert.Contains(t, doc, "&lt;danger&gt;")
	assert.NotContains(t, doc, "\n<danger>")
}

func TestHighlightJSONKeysVersusStrings(t *testing.T) {
	out := highlightJSON("{\n  \"name\": \"value\"\n}")

	assert.Contains(t, out, `<span class="hl-key">&#34;name&#34;</span>`)
	assert.Contains(t, out, `<span class="hl-str">&#34;value&#34;</span>`)
}

func TestNotFoundPageLinksHome(t *testing.T) {
	page := NotFoundPage()
	assert.True(t, strings.Contains(page, `href="/"`))
	assert.Contains(t, page, "404")
}

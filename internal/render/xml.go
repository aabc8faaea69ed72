package render

import (
	"bytes"
	"encoding/xml"
	"html"
	"io"
	"regexp"
	"strings"
)

// xmlStructure counts the token kinds of a parsed XML document.
type xmlStructure struct {
	Elements   int
	Attributes int
	Comments   int
	Lines      int
}

// analyzeXML walks the token stream. A parse error mid-stream stops
// counting but keeps what was seen so far; the caller decides whether
// the document is well formed.
func analyzeXML(content string) (xmlStructure, bool) {
	s := xmlStructure{Lines: strings.Count(content, "\n") + 1}
	decoder := xml.NewDecoder(strings.NewReader(content))
	wellFormed := true
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			wellFormed = false
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			s.Elements++
			s.Attributes += len(t.Attr)
		case xml.Comment:
			s.Comments++
		}
	}
	return s, wellFormed
}

// reindentXML re-emits the document with two-space indentation,
// dropping inter-element whitespace. Returns the input unchanged when
// the document does not survive a token round trip.
func reindentXML(content string) (string, bool) {
	decoder := xml.NewDecoder(strings.NewReader(content))
	var buf bytes.Buffer
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "  ")
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return content, false
		}
		if cd, ok := token.(xml.CharData); ok && len(bytes.TrimSpace(cd)) == 0 {
			continue
		}
		if err := encoder.EncodeToken(token); err != nil {
			return content, false
		}
	}
	if err := encoder.Flush(); err != nil {
		return content, false
	}
	return buf.String(), true
}

var (
	xmlTagPattern     = regexp.MustCompile(`(&lt;/?)([A-Za-z][\w.:-]*)`)
	xmlAttrPattern    = regexp.MustCompile(`([\w.:-]+)=(&#34;[^&]*&#34;|&quot;[^&]*&quot;)`)
	xmlCommentPattern = regexp.MustCompile(`(?s)&lt;!--.*?--&gt;`)
)

// highlightXML colorizes already-escaped XML text.
func highlightXML(escaped string) string {
	out := xmlCommentPattern.ReplaceAllString(escaped, `<span class="hl-comment">$0</span>`)
	out = xmlTagPattern.ReplaceAllString(out, `$1<span class="hl-tag">$2</span>`)
	out = xmlAttrPattern.ReplaceAllString(out, `<span class="hl-attr">$1</span>=<span class="hl-str">$2</span>`)
	return out
}

// xmlDocument shows the document re-indented and highlighted, with
// structural counts. Malformed XML shows the raw content instead.
func xmlDocument(content, previewID string) string {
	structure, wellFormed := analyzeXML(content)
	display := content
	if wellFormed {
		display, _ = reindentXML(content)
	}

	var panels []string
	if !wellFormed {
		panels = append(panels, `        <div class="viewer-panel">
            <p>Not well-formed XML, showing the raw content.</p>
        </div>`)
	}
	panels = append(panels, statsPanel(
		stat("elements", structure.Elements),
		stat("attributes", structure.Attributes),
		stat("comments", structure.Comments),
		stat("lines", structure.Lines),
	))
	panels = append(panels, `        <div class="viewer-panel">
            <pre class="viewer-code">`+highlightXML(html.EscapeString(display))+`</pre>
        </div>`)

	return renderPage(pageData{
		Title: "XML Preview",
		Badge: "xml",
		Meta:  metaLine(previewID, len(content)),
		Body:  strings.Join(panels, "\n"),
	})
}

package render

import (
	"encoding/json"
	"html"
	"strings"
)

// jsonStructure counts the node kinds of a parsed JSON document.
type jsonStructure struct {
	Keys     int
	Objects  int
	Arrays   int
	Strings  int
	Numbers  int
	Booleans int
	Nulls    int
}

func analyzeJSON(value any, s *jsonStructure) {
	switch v := value.(type) {
	case map[string]any:
		s.Objects++
		s.Keys += len(v)
		for _, child := range v {
			analyzeJSON(child, s)
		}
	case []any:
		s.Arrays++
		for _, child := range v {
			analyzeJSON(child, s)
		}
	case string:
		s.Strings++
	case float64:
		s.Numbers++
	case bool:
		s.Booleans++
	case nil:
		s.Nulls++
	}
}

// jsonDocument pretty-prints and highlights valid JSON alongside its
// structural counts. Invalid JSON falls back to the escaped raw string.
func jsonDocument(content, previewID string) string {
	var parsed any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		body := `        <div class="viewer-panel">
            <p>Not valid JSON, showing the raw content.</p>
        </div>
        <div class="viewer-panel">
            <pre class="viewer-code">` + html.EscapeString(content) + `</pre>
        </div>`
		return renderPage(pageData{
			Title: "JSON Preview",
			Badge: "json",
			Meta:  metaLine(previewID, len(content)),
			Body:  body,
		})
	}

	var structure jsonStructure
	analyzeJSON(parsed, &structure)

	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		pretty = []byte(content)
	}

	body := statsPanel(
		stat("keys", structure.Keys),
		stat("objects", structure.Objects),
		stat("arrays", structure.Arrays),
		stat("strings", structure.Strings),
		stat("numbers", structure.Numbers),
		stat("booleans", structure.Booleans),
		stat("nulls", structure.Nulls),
	) + `
        <div class="viewer-panel">
            <pre class="viewer-code">` + highlightJSON(string(pretty)) + `</pre>
        </div>`
	return renderPage(pageData{
		Title: "JSON Preview",
		Badge: "json",
		Meta:  metaLine(previewID, len(content)),
		Body:  body,
	})
}

// highlightJSON wraps tokens of pretty-printed JSON in span classes.
// The input comes from json.MarshalIndent, so tokens are well formed.
func highlightJSON(pretty string) string {
	var sb strings.Builder
	i := 0
	for i < len(pretty) {
		c := pretty[i]
		switch {
		case c == '"':
			end := i + 1
			for end < len(pretty) {
				if pretty[end] == '\\' {
					end += 2
					continue
				}
				if pretty[end] == '"' {
					break
				}
				end++
			}
			if end >= len(pretty) {
				end = len(pretty) - 1
			}
			token := pretty[i : end+1]
			class := "hl-str"
			if isJSONKey(pretty, end+1) {
				class = "hl-key"
			}
			sb.WriteString(`<span class="` + class + `">` + html.EscapeString(token) + `</span>`)
			i = end + 1
		case c == '-' || (c >= '0' && c <= '9'):
			end := i
			for end < len(pretty) && strings.ContainsRune("-+.eE0123456789", rune(pretty[end])) {
				end++
			}
			sb.WriteString(`<span class="hl-num">` + pretty[i:end] + `</span>`)
			i = end
		case strings.HasPrefix(pretty[i:], "true"):
			sb.WriteString(`<span class="hl-lit">true</span>`)
			i += 4
		case strings.HasPrefix(pretty[i:], "false"):
			sb.WriteString(`<span class="hl-lit">false</span>`)
			i += 5
		case strings.HasPrefix(pretty[i:], "null"):
			sb.WriteString(`<span class="hl-lit">null</span>`)
			i += 4
		default:
			sb.WriteString(html.EscapeString(string(c)))
			i++
		}
	}
	return sb.String()
}

// isJSONKey reports whether the character run after a closing quote
// leads to a colon, which marks the quoted string as an object key.
func isJSONKey(pretty string, from int) bool {
	for j := from; j < len(pretty); j++ {
		switch pretty[j] {
		case ' ', '\t', '\n', '\r':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}

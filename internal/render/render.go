// Package render maps stored preview content to the HTML document the
// viewer receives. Rendering is pure: no store access, no clocks.
package render

import (
	"fmt"
	"html"
	"strings"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"snippetly/internal/previews"
)

// Document builds the full HTML page for a preview. HTML content is
// trusted and returned verbatim; everything else is wrapped in a
// generated viewer document. Content embedded as text is escaped,
// content embedded as executable code or style is not, it has to run.
func Document(content, fileType, previewID string) string {
	switch fileType {
	case previews.FileTypeHTML:
		return content
	case previews.FileTypeCSS:
		return cssDocument(content, previewID)
	case previews.FileTypeJavaScript:
		return jsDocument(content, previewID)
	case previews.FileTypeJSON:
		return jsonDocument(content, previewID)
	case previews.FileTypeXML:
		return xmlDocument(content, previewID)
	case previews.FileTypeSVG:
		return svgDocument(content, previewID)
	default:
		return textDocument(content, previewID)
	}
}

var englishPrinter = message.NewPrinter(language.English)

// humanBytes formats a byte count with thousands separators.
func humanBytes(n int) string {
	return englishPrinter.Sprintf("%d bytes", n)
}

// pageData feeds the shared viewer scaffold. Body and Script are
// pre-built HTML fragments; builders are responsible for escaping.
type pageData struct {
	Title  string
	Badge  string
	Meta   string
	Body   string
	Script string
}

var viewerTemplate = template.Must(template.New("viewer").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - Snippetly</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background: #f5f6fa; color: #333; }
        .viewer { max-width: 960px; margin: 0 auto; padding: 20px; }
        .viewer-header { display: flex; align-items: center; gap: 12px; margin-bottom: 16px; }
        .viewer-badge { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: #fff; padding: 4px 12px; border-radius: 12px; font-size: 0.8em; text-transform: uppercase; letter-spacing: 1px; }
        .viewer-meta { color: #888; font-size: 0.9em; }
        .viewer-panel { background: #fff; border-radius: 8px; box-shadow: 0 2px 8px rgba(0,0,0,0.08); padding: 20px; margin-bottom: 16px; }
        .viewer-stats { display: flex; flex-wrap: wrap; gap: 16px; }
        .viewer-stat { background: #f0f1f6; border-radius: 6px; padding: 8px 14px; font-size: 0.9em; }
        .viewer-stat b { color: #667eea; }
        pre.viewer-code { background: #282c34; color: #abb2bf; border-radius: 8px; padding: 16px; overflow-x: auto; font-family: 'Fira Code', Consolas, monospace; font-size: 0.9em; line-height: 1.5; white-space: pre-wrap; word-break: break-word; }
        .hl-key { color: #e06c75; }
        .hl-str { color: #98c379; }
        .hl-num { color: #d19a66; }
        .hl-lit { color: #56b6c2; }
        .hl-tag { color: #61afef; }
        .hl-attr { color: #e06c75; }
        .hl-comment { color: #5c6370; font-style: italic; }
        .viewer-btn { background: #667eea; color: #fff; border: none; border-radius: 6px; padding: 10px 20px; font-size: 1em; cursor: pointer; }
        .viewer-btn:hover { background: #5a6fd6; }
        .console-sink { background: #1e1e1e; color: #d4d4d4; border-radius: 8px; padding: 12px 16px; min-height: 80px; font-family: Consolas, monospace; font-size: 0.9em; white-space: pre-wrap; }
        .console-sink .log-error { color: #f48771; }
        .svg-stage { display: flex; justify-content: center; padding: 20px; background: repeating-conic-gradient(#f0f0f0 0% 25%, #fff 0% 50%) 50% / 24px 24px; border-radius: 8px; }
        .hidden { display: none; }
    </style>
</head>
<body>
    <div class="viewer">
        <header class="viewer-header">
            <span class="viewer-badge">{{.Badge}}</span>
            <span class="viewer-meta">{{.Meta}}</span>
        </header>
{{.Body}}
    </div>
{{.Script}}
</body>
</html>
`))

func renderPage(data pageData) string {
	var sb strings.Builder
	if err := viewerTemplate.Execute(&sb, data); err != nil {
		// The template has no failing paths with string fields; keep a
		// readable page anyway.
		return "<!DOCTYPE html><html><body><pre>" + html.EscapeString(data.Body) + "</pre></body></html>"
	}
	return sb.String()
}

// statsPanel renders labeled counters as a stats strip.
func statsPanel(entries ...statEntry) string {
	var sb strings.Builder
	sb.WriteString(`        <div class="viewer-panel viewer-stats">`)
	for _, e := range entries {
		fmt.Fprintf(&sb, `<span class="viewer-stat">%s: <b>%s</b></span>`, html.EscapeString(e.label), html.EscapeString(e.value))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

type statEntry struct {
	label string
	value string
}

func stat(label string, count int) statEntry {
	return statEntry{label: label, value: englishPrinter.Sprintf("%d", count)}
}

func metaLine(previewID string, size int) string {
	return fmt.Sprintf("preview %s · %s", previewID, humanBytes(size))
}

// cssDocument embeds the stylesheet unescaped in a demo page showing
// common elements it can style.
func cssDocument(content, previewID string) string {
	body := `        <div class="viewer-panel">
            <h1>Heading level one</h1>
            <h2>Heading level two</h2>
            <p>A paragraph with a <a href="#">link</a>, some <strong>bold</strong> and <em>italic</em> text, and <code>inline code</code>.</p>
            <blockquote>A blockquote element for quoted passages.</blockquote>
            <ul><li>First list item</li><li>Second list item</li></ul>
            <table><thead><tr><th>Column A</th><th>Column B</th></tr></thead><tbody><tr><td>cell</td><td>cell</td></tr></tbody></table>
            <button>A button</button>
            <input type="text" placeholder="A text input">
        </div>
        <div class="viewer-panel">
            <h3>Source</h3>
            <pre class="viewer-code">` + html.EscapeString(content) + `</pre>
        </div>`
	return renderPage(pageData{
		Title:  "CSS Preview",
		Badge:  "css",
		Meta:   metaLine(previewID, len(content)),
		Body:   body,
		Script: "    <style>\n" + content + "\n    </style>",
	})
}

// jsDocument embeds the script unescaped behind a run button, with
// console output redirected into the page.
func jsDocument(content, previewID string) string {
	body := `        <div class="viewer-panel">
            <button id="run-btn" class="viewer-btn">Run script</button>
        </div>
        <div class="viewer-panel">
            <h3>Console output</h3>
            <div id="console-sink" class="console-sink">(not run yet)</div>
        </div>
        <div class="viewer-panel">
            <h3>Source</h3>
            <pre class="viewer-code">` + html.EscapeString(content) + `</pre>
        </div>`
	script := `    <script>
    (function() {
        var sink = document.getElementById('console-sink');
        function append(cls, args) {
            var line = document.createElement('div');
            if (cls) line.className = cls;
            line.textContent = Array.prototype.map.call(args, function(a) {
                if (typeof a === 'object') { try { return JSON.stringify(a); } catch (e) { return String(a); } }
                return String(a);
            }).join(' ');
            sink.appendChild(line);
        }
        ['log', 'info', 'warn'].forEach(function(m) {
            var orig = console[m];
            console[m] = function() { append('', arguments); orig.apply(console, arguments); };
        });
        var origErr = console.error;
        console.error = function() { append('log-error', arguments); origErr.apply(console, arguments); };
        window.addEventListener('error', function(e) { append('log-error', [e.message]); });
        document.getElementById('run-btn').addEventListener('click', function() {
            sink.textContent = '';
            var s = document.createElement('script');
            s.textContent = document.getElementById('user-script').textContent;
            document.body.appendChild(s);
        });
    })();
    </script>
    <script type="text/plain" id="user-script">` + content + `</script>`
	return renderPage(pageData{
		Title:  "JavaScript Preview",
		Badge:  "javascript",
		Meta:   metaLine(previewID, len(content)),
		Body:   body,
		Script: script,
	})
}

// textDocument is the fallback for unrecognized file types: escaped
// plain text with size and line counts.
func textDocument(content, previewID string) string {
	lines := strings.Count(content, "\n") + 1
	body := statsPanel(
		statEntry{label: "size", value: humanBytes(len(content))},
		stat("lines", lines),
	) + `
        <div class="viewer-panel">
            <pre class="viewer-code">` + html.EscapeString(content) + `</pre>
        </div>`
	return renderPage(pageData{
		Title: "Text Preview",
		Badge: "text",
		Meta:  metaLine(previewID, len(content)),
		Body:  body,
	})
}

package render

import (
	"html"
	"regexp"
)

var svgShapePatterns = map[string]*regexp.Regexp{
	"paths":    regexp.MustCompile(`(?i)<path[\s/>]`),
	"circles":  regexp.MustCompile(`(?i)<circle[\s/>]`),
	"rects":    regexp.MustCompile(`(?i)<rect[\s/>]`),
	"lines":    regexp.MustCompile(`(?i)<line[\s/>]`),
	"polygons": regexp.MustCompile(`(?i)<polygon[\s/>]`),
}

func countShapes(content string) map[string]int {
	counts := make(map[string]int, len(svgShapePatterns))
	for name, pattern := range svgShapePatterns {
		counts[name] = len(pattern.FindAllStringIndex(content, -1))
	}
	return counts
}

// svgDocument renders the image inline with a toggle to its escaped
// source and shape counts. The SVG markup itself is embedded unescaped,
// it has to render as an image.
func svgDocument(content, previewID string) string {
	shapes := countShapes(content)
	body := statsPanel(
		stat("paths", shapes["paths"]),
		stat("circles", shapes["circles"]),
		stat("rects", shapes["rects"]),
		stat("lines", shapes["lines"]),
		stat("polygons", shapes["polygons"]),
	) + `
        <div class="viewer-panel">
            <button id="toggle-source" class="viewer-btn">View source</button>
        </div>
        <div class="viewer-panel" id="svg-image">
            <div class="svg-stage">` + content + `</div>
        </div>
        <div class="viewer-panel hidden" id="svg-source">
            <pre class="viewer-code">` + html.EscapeString(content) + `</pre>
        </div>`
	script := `    <script>
    (function() {
        var btn = document.getElementById('toggle-source');
        var image = document.getElementById('svg-image');
        var source = document.getElementById('svg-source');
        btn.addEventListener('click', function() {
            var showingSource = !source.classList.contains('hidden');
            source.classList.toggle('hidden', showingSource);
            image.classList.toggle('hidden', !showingSource);
            btn.textContent = showingSource ? 'View source' : 'View image';
        });
    })();
    </script>`
	return renderPage(pageData{
		Title:  "SVG Preview",
		Badge:  "svg",
		Meta:   metaLine(previewID, len(content)),
		Body:   body,
		Script: script,
	})
}

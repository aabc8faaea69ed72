// Package web embeds the static front end served at the root routes.
package web

import _ "embed"

//go:embed static/index.html
var IndexHTML []byte

//go:embed static/style.css
var StyleCSS []byte

//go:embed static/script.js
var ScriptJS []byte

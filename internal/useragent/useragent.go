// Package useragent classifies User-Agent headers into the small fixed
// label set tracked per preview, and recognizes automated clients.
package useragent

import (
	"strings"
)

// Labels produced by Classify, in match priority order.
const (
	LabelEdge    = "Edge"
	LabelChrome  = "Chrome"
	LabelFirefox = "Firefox"
	LabelSafari  = "Safari"
	LabelOpera   = "Opera"
	LabelMobile  = "Mobile"
	LabelAndroid = "Android"
	LabelIOS     = "iOS"
	LabelOther   = "Other"
	LabelUnknown = "unknown"
)

// Classify maps a raw User-Agent header to a browser/platform label by
// ordered substring match. The order matters: Chromium-family agents
// advertise several tokens at once (Edge contains "Chrome", Chrome
// contains "Safari"), so more specific tokens are checked first.
func Classify(userAgent string) string {
	if userAgent == "" {
		return LabelUnknown
	}

	switch {
	case strings.Contains(userAgent, "Edg"):
		return LabelEdge
	case strings.Contains(userAgent, "Chrome"):
		return LabelChrome
	case strings.Contains(userAgent, "Firefox"):
		return LabelFirefox
	case strings.Contains(userAgent, "Safari"):
		return LabelSafari
	case strings.Contains(userAgent, "Opera"):
		return LabelOpera
	case strings.Contains(userAgent, "Mobile"):
		return LabelMobile
	case strings.Contains(userAgent, "Android"):
		return LabelAndroid
	case strings.Contains(userAgent, "iPhone"), strings.Contains(userAgent, "iPad"):
		return LabelIOS
	default:
		return LabelOther
	}
}

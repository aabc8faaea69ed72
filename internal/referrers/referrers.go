// Package referrers normalizes referrer headers into countable domains.
package referrers

import (
	"net/url"
	"strings"
)

// Direct is the bucket for views with no usable referrer.
const Direct = "direct"

// Normalize reduces a raw Referer header value to a bare lowercase
// domain with any leading "www." stripped. Missing or unparseable
// referrers map to Direct.
func Normalize(rawReferrer string) string {
	raw := strings.TrimSpace(rawReferrer)
	if raw == "" {
		return Direct
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return Direct
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		// Headers like "example.com/path" parse with an empty host;
		// retry with an explicit scheme before giving up.
		parsed, err = url.Parse("https://" + raw)
		if err != nil {
			return Direct
		}
		hostname = parsed.Hostname()
	}
	if hostname == "" {
		return Direct
	}

	hostname = strings.ToLower(hostname)
	hostname = strings.TrimPrefix(hostname, "www.")
	if hostname == "" {
		return Direct
	}

	return hostname
}

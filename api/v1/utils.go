package v1

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/netip"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// getClientIP extracts the peer's public address from reverse-proxy
// headers, falling back to the socket address. Returns "" when nothing
// usable is present; the privacy hasher maps that to its unknown
// bucket.
func getClientIP(c *fiber.Ctx) string {
	if ip := firstPublicIP(strings.Split(c.Get("X-Forwarded-For"), ",")); ip != "" {
		return ip
	}

	for _, header := range []string{
		"X-Real-IP",
		"CF-Connecting-IP",
		"True-Client-IP",
		"X-Client-IP",
	} {
		if value := c.Get(header); value != "" {
			if ip := firstPublicIP([]string{value}); ip != "" {
				return ip
			}
		}
	}

	if forwarded := c.Get("Forwarded"); forwarded != "" {
		if ip := firstPublicIP(forwardedForValues(forwarded)); ip != "" {
			return ip
		}
	}

	if host, _, err := net.SplitHostPort(c.Context().RemoteAddr().String()); err == nil {
		if ip := firstPublicIP([]string{host}); ip != "" {
			return ip
		}
	}

	return firstPublicIP([]string{c.IP()})
}

// firstPublicIP returns the first public IPv4 in values, or the first
// public IPv6 when no IPv4 is present.
func firstPublicIP(values []string) string {
	var ipv6Fallback string

	for _, raw := range values {
		addr, ok := parseAddr(raw)
		if !ok || addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() || addr.IsUnspecified() {
			continue
		}

		if addr.Is4() {
			return addr.String()
		}
		if ipv6Fallback == "" {
			ipv6Fallback = addr.String()
		}
	}

	return ipv6Fallback
}

// parseAddr handles the header value shapes proxies emit: bare
// addresses, addr:port, bracketed IPv6, zone suffixes, quoted values.
func parseAddr(raw string) (netip.Addr, bool) {
	clean := strings.Trim(strings.TrimSpace(raw), `"`)
	if clean == "" {
		return netip.Addr{}, false
	}

	if percent := strings.Index(clean, "%"); percent != -1 {
		clean = clean[:percent]
	}

	if addrPort, err := netip.ParseAddrPort(clean); err == nil {
		return addrPort.Addr().Unmap(), true
	}

	clean = strings.TrimSuffix(strings.TrimPrefix(clean, "["), "]")
	if addr, err := netip.ParseAddr(clean); err == nil {
		return addr.Unmap(), true
	}

	return netip.Addr{}, false
}

// forwardedForValues pulls the for= pairs out of an RFC 7239 Forwarded
// header.
func forwardedForValues(header string) []string {
	var candidates []string

	for _, entry := range strings.Split(header, ",") {
		for _, part := range strings.Split(entry, ";") {
			part = strings.TrimSpace(part)
			if strings.HasPrefix(strings.ToLower(part), "for=") {
				candidates = append(candidates, part[len("for="):])
			}
		}
	}

	return candidates
}

// requestUserAgent honors a proxy-forwarded user agent over the direct
// header.
func requestUserAgent(c *fiber.Ctx) string {
	if forwardedUA := c.Get("X-Forwarded-User-Agent"); forwardedUA != "" {
		return forwardedUA
	}
	return c.Get("User-Agent")
}

// generateETag creates a strong ETag from content using SHA-256
func generateETag(content []byte) string {
	hash := sha256.Sum256(content)
	return `"` + hex.EncodeToString(hash[:]) + `"` // Quoted for strong ETag
}

package visitors

import (
	"crypto/sha256"
	"encoding/hex"
)

// UnknownAddress is hashed in place of a client address when no
// IP-bearing header is present on the request.
const UnknownAddress = "unknown"

// hashLength is the number of hex characters kept from the digest.
const hashLength = 16

// Hash creates a privacy-first pseudonymous visitor identifier from a
// client IP address. The address is never stored - only the truncated
// one-way SHA-256 digest, which cannot be reversed to the IP.
func Hash(ipAddress string) string {
	if ipAddress == "" {
		ipAddress = UnknownAddress
	}

	sum := sha256.Sum256([]byte(ipAddress))
	return hex.EncodeToString(sum[:])[:hashLength]
}

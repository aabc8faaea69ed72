package visitors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashIsDeterministic(t *testing.T) {
	a := Hash("203.0.113.7")
	b := Hash("203.0.113.7")
	assert.Equal(t, a, b)
}

func TestHashDiffersPerAddress(t *testing.T) {
	assert.NotEqual(t, Hash("203.0.113.7"), Hash("203.0.113.8"))
}

func TestHashLengthAndAlphabet(t *testing.T) {
	h := Hash("2001:db8::1")
	assert.Len(t, h, 16)
	assert.Equal(t, strings.ToLower(h), h)
	for _, r := range h {
		assert.Contains(t, "0123456789abcdef", string(r))
	}
}

func TestHashNeverContainsAddress(t *testing.T) {
	ip := "198.51.100.23"
	assert.NotContains(t, Hash(ip), ip)
}

func TestHashEmptyAddressFallsBackToUnknown(t *testing.T) {
	assert.Equal(t, Hash(UnknownAddress), Hash(""))
}

// Package identifier generates preview identifiers.
package identifier

import "github.com/google/uuid"

// New returns a random preview identifier in canonical UUID v4 form.
// Uniqueness is probabilistic: 122 bits of randomness make collisions
// negligible, so no existence check is made against the store and a
// colliding id would simply overwrite.
func New() string {
	return uuid.NewString()
}

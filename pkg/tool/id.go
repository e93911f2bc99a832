// Package tool holds small helpers shared across services.
package tool

import "github.com/google/uuid"

// NewID returns a time-ordered UUIDv7 string. V7 keeps primary keys roughly
// insertion-ordered so btree indexes stay compact under steady inserts.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

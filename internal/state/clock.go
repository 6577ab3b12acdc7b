package state

import (
	"github.com/google/uuid"
)

// NewID returns a runtime identifier for an element. IDs are not persisted,
// a loaded element gets a fresh one.
func NewID() string {
	return uuid.NewString()
}

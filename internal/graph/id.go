package graph

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID generates a type-prefixed node identifier, e.g. "noise:9f32a1c4".
// The random suffix keeps IDs unique across separate builder invocations;
// the prefix keeps graphs human-readable when inspected on the wire.
func NewID(nodeType string) string {
	return fmt.Sprintf("%s:%s", nodeType, uuid.NewString()[:8])
}

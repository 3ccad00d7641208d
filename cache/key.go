package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Namespace prefixes every key this layer writes, so that Clear can
// enumerate and delete only our own entries without disturbing
// unrelated data in a shared store.
const Namespace = "av:"

// Key derives a cache key from a resource type and the canonical
// request identity (endpoint plus parameters). Identical identities
// always produce identical keys; the SHA-256 digest keeps distinct
// identities from colliding while producing a string that is legal in
// both a filename and a SQLite column.
func Key(resourceType string, parts ...string) string {
	if resourceType == "" {
		resourceType = "resource"
	}
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s%s:%x", Namespace, resourceType, h[:12])
}

// TypePrefix returns the key prefix shared by all entries of one
// resource type, for prefix-scoped clearing.
func TypePrefix(resourceType string) string {
	return Namespace + resourceType + ":"
}

// Package identity computes deduplication keys for canonical rows.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"catalog/harvester/internal/domain"
)

// Key is the dedup identity of a ProductVariant. Synthetic keys are derived
// from row content because no stable identifier exists; rows carrying them
// are never deduplicated against each other.
type Key struct {
	Value     string
	Synthetic bool
}

// KeyOf resolves the identity of a variant using the priority chain
// external identifier (EAN) -> internal code -> canonical URL. Whitespace-only
// candidates are treated as absent. When all three are absent it synthesizes
// a key from a hash of (name, list price, category).
func KeyOf(v domain.ProductVariant) Key {
	for _, candidate := range []string{v.EAN, v.RefCode, v.URL} {
		if s := strings.TrimSpace(candidate); s != "" {
			return Key{Value: strings.ToLower(s)}
		}
	}

	h := sha256.Sum256([]byte(v.Name + "\x00" + v.ListPrice.String() + "\x00" + v.Category))
	return Key{Value: hex.EncodeToString(h[:16]), Synthetic: true}
}

// Package tabkey derives storage keys from tab ids so that shared stores never
// hold the raw cookie value.
package tabkey

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Hash returns the hex BLAKE2b-256 digest of tabID.
func Hash(tabID string) string {
	sum := blake2b.Sum256([]byte(tabID))
	return hex.EncodeToString(sum[:])
}

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// keySeparator cannot appear in a route parameter.
const keySeparator = "\x1f"

// Key fingerprints an operation name and its arguments. Order matters:
// Key("matches", "3", "5") differs from Key("matches", "5", "3").
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, keySeparator)))
	return hex.EncodeToString(sum[:])
}

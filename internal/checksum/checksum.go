// Package checksum derives content hashes for HTTP cache validation.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag returns a strong entity tag for body. Only the first 16 bytes of the
// digest are used.
func ETag(body []byte) string {
	return `"` + Sum(body)[:32] + `"`
}

// Match reports whether an If-None-Match header value matches etag.
// Weak validators and comma separated lists are accepted.
func Match(header, etag string) bool {
	if header == "" {
		return false
	}
	if strings.TrimSpace(header) == "*" {
		return true
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}

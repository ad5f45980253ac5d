package state

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives the snapshot file name from a target's display name:
// lowercase, non-alphanumeric runs collapsed to a single separator. Names
// with no usable characters fall back to a short hash.
func Slug(name string) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		sum := sha1.Sum([]byte(name))
		return hex.EncodeToString(sum[:])[:16]
	}
	return slug
}

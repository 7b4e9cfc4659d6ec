package main

import (
	"crypto/sha1" //nolint: gosec
	"fmt"
	"strings"
)

// cacheKey builds the lookup key for a cached response. The same feature
// request against the same backend and language always lands on the same
// key.
func cacheKey(parts ...string) string {
	h := sha1.New() //nolint: gosec
	for _, p := range parts {
		fmt.Fprintf(h, "%d:%s|", len(p), strings.ToLower(p))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// SPDX-License-Identifier: MIT

package catalog

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks after NFD decomposition, so
// "Citroën" becomes "Citroen" before slugging.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a catalog name into a URL-safe, human-readable slug.
// Example: "Citroën C4 Aircross" → "citroen-c4-aircross".
func Slugify(name string) string {
	if name == "" {
		return "entry"
	}

	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "ß", "ss")
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var result strings.Builder
	lastWasDash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
			lastWasDash = false
		} else if !lastWasDash {
			result.WriteRune('-')
			lastWasDash = true
		}
	}

	slug := strings.Trim(result.String(), "-")

	if len(slug) > 50 {
		slug = slug[:50]
		slug = strings.TrimRight(slug, "-")
	}

	if slug == "" {
		return "entry"
	}
	return slug
}

// StableID derives a deterministic identifier from a name and its source
// URL: slug plus a 6-char hash suffix. Different URLs with equal names
// stay distinct, and re-scrapes reproduce the same ID.
func StableID(name, url string) string {
	sum := sha1.Sum([]byte(url))
	return Slugify(name) + "-" + hex.EncodeToString(sum[:])[:6]
}

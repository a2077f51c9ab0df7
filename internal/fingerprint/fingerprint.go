// Package fingerprint computes the content hash used as the deduplication key
// for job listings.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/pathforge-labs/pathforge/internal/jobs"
	"github.com/pathforge-labs/pathforge/internal/textnorm"
)

// Separator joins the normalized fields. textnorm.Normalize strips it, so it
// can never occur inside a field.
const Separator = "|"

// Length is the size of a fingerprint in hex characters.
const Length = sha256.Size * 2

// Compute returns the lowercase hex SHA-256 of the normalized title, company
// and location joined by Separator, in that order. Location may be empty.
func Compute(title, company, location string) string {
	key := strings.Join([]string{
		textnorm.Normalize(title),
		textnorm.Normalize(company),
		textnorm.Normalize(location),
	}, Separator)

	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Of fingerprints a raw listing.
func Of(l jobs.RawListing) string {
	return Compute(l.Title, l.Company, l.Location)
}

// Valid reports whether s looks like a fingerprint produced by Compute.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

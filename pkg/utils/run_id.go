package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateRunID creates a human-readable id for one scheduler run.
// Format: run-{account}-{8charHexUUID}, or run-{8charHexUUID} without an account
//
// Example:
//   - Input: account="Alice Smith"
//   - Output: "run-alice-smith-a3f8e2b1"
func GenerateRunID(account string) string {
	shortUUID := generateShortUUID()
	slug := slugify(account)
	if slug == "" {
		return "run-" + shortUUID
	}
	return "run-" + slug + "-" + shortUUID
}

// slugify lowercases the account and replaces anything that is not a
// letter or digit with single hyphens
func slugify(account string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(account) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// generateShortUUID creates an 8-character hex string from a UUID.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}

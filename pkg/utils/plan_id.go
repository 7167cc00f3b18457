package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// GeneratePlanID creates a short, human-readable plan ID.
// Format: plan-{recipeSlug}-{8charHexUUID}
//
// Example:
//   - Input: recipe="@smart_plating" or recipe="Smart Plating"
//   - Output: "plan-smart_plating-a3f8e2b1"
func GeneratePlanID(recipe string) string {
	slug := slugify(recipe)
	if slug == "" {
		return "plan-" + generateShortUUID()
	}
	return "plan-" + slug + "-" + generateShortUUID()
}

// slugify lowercases s, drops a leading "@" and folds every run of other
// characters into a single underscore
func slugify(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "@")
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}

// Package textx provides small text utilities used across the project.
package textx

import (
	"strings"

	"github.com/google/uuid"
)

// Normalize trims surrounding whitespace and case-folds for matching keys.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// ContentKey derives a deterministic cache key from the normalized
// concatenation of its parts. Identical inputs always yield the same key.
func ContentKey(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(Normalize(p))
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(b.String())).String()
}

// ContainsFold reports whether s contains substr, case-insensitively.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Sentence capitalizes the first letter and guarantees terminal punctuation.
// Empty and all-blank input stays empty.
func Sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	runes := []rune(s)
	for i, r := range runes {
		if isLetter(r) {
			runes[i] = toUpper(r)
			break
		}
	}
	s = string(runes)
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 32
	}
	return r
}

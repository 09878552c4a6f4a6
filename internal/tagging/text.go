package tagging

import (
	"strconv"
	"strings"
	"unicode"

	"pictor/internal/catalog"
)

const (
	numberConfidence = 0.90
	textConfidence   = 0.80
	maxTagNumber     = 999
)

// ClassifyFragment turns one recognized text fragment into a tag candidate.
// Small positive integers become number tags: they are almost always start
// numbers, route markers, or similar deliberate labels. Longer all-uppercase
// fragments become text tags, catching signage and printed banners. Anything
// else is discarded as recognizer noise.
func ClassifyFragment(fragment string) (Candidate, bool) {
	trimmed := strings.TrimSpace(fragment)
	if trimmed == "" {
		return Candidate{}, false
	}

	if isDigits(trimmed) {
		n, err := strconv.Atoi(trimmed)
		if err != nil || n < 1 || n > maxTagNumber {
			return Candidate{}, false
		}
		return Candidate{
			Name:       trimmed,
			Category:   catalog.CategoryNumber,
			Confidence: numberConfidence,
			Source:     catalog.SourceRecognizer,
		}, true
	}

	if len(trimmed) > 3 && isUpperText(trimmed) {
		return Candidate{
			Name:       trimmed,
			Category:   catalog.CategoryText,
			Confidence: textConfidence,
			Source:     catalog.SourceRecognizer,
		}, true
	}

	return Candidate{}, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// isUpperText reports whether s contains at least one letter and no
// lowercase letters.
func isUpperText(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

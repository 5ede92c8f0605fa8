package notices

import (
	"regexp"
	"strings"
)

// nhsWordPattern requires "nhs" as a whole word so organisation names that
// merely contain the letters (e.g. "Cornhshire") do not match.
var nhsWordPattern = regexp.MustCompile(`(?i)\bnhs\b`)

var authorityPhrases = []string{
	"nhs trust",
	"nhs foundation trust",
	"national health service",
}

// IsAuthorityMatch reports whether the text identifies an NHS authority:
// the word "nhs" on a word boundary, or one of the known phrases anywhere.
// Used to gate Find a Tender fetches and again inside keyword filtering.
func IsAuthorityMatch(text *string) bool {
	if text == nil || *text == "" {
		return false
	}
	if nhsWordPattern.MatchString(*text) {
		return true
	}
	lower := strings.ToLower(*text)
	for _, phrase := range authorityPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

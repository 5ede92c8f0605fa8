package notices

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Upstream free-text fields arrive with character references still escaped
// (the Contracts Finder feed double-encodes, the OCDS feed escapes markup).
// Decoding runs numeric references before named ones so a named-reference
// pattern produced by a numeric decode is not re-processed.
var (
	hexRefPattern = regexp.MustCompile(`&#[xX]([0-9a-fA-F]+);`)
	decRefPattern = regexp.MustCompile(`&#([0-9]+);`)
	namedRefPattern = regexp.MustCompile(`&(amp|lt|gt|quot|apos|nbsp);`)
)

var namedRefs = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": `"`,
	"apos": "'",
	"nbsp": " ",
}

// DecodeEntities decodes character references in an optional text value.
// Nil and empty inputs are returned unchanged. Unknown named references and
// invalid numeric code points are left intact.
func DecodeEntities(s *string) *string {
	if s == nil || *s == "" {
		return s
	}
	out := decodeEntityString(*s)
	return &out
}

func decodeEntityString(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}

	s = hexRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
		digits := ref[3 : len(ref)-1]
		return decodeCodePoint(ref, digits, 16)
	})
	s = decRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
		digits := ref[2 : len(ref)-1]
		return decodeCodePoint(ref, digits, 10)
	})
	s = namedRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
		name := ref[1 : len(ref)-1]
		if lit, ok := namedRefs[name]; ok {
			return lit
		}
		return ref
	})
	return s
}

// decodeCodePoint returns the literal character for a numeric reference, or
// the original escape sequence when the code point does not parse or is not
// a valid rune.
func decodeCodePoint(original, digits string, base int) string {
	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil || n < 0 || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
		return original
	}
	return string(rune(n))
}

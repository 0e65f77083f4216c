package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldForSearch lowercases s and strips diacritics so "José" and "jose"
// compare equal.
func FoldForSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(strings.TrimSpace(result))
}

// ContainsFolded reports whether needle occurs in any of the haystacks after folding.
// An empty needle matches everything.
func ContainsFolded(needle string, haystacks ...string) bool {
	n := FoldForSearch(needle)
	if n == "" {
		return true
	}
	for _, h := range haystacks {
		if strings.Contains(FoldForSearch(h), n) {
			return true
		}
	}
	return false
}

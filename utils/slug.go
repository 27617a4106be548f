package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	nonWordRegex     = regexp.MustCompile(`[^\w-]+`)
	multiHyphenRegex = regexp.MustCompile(`-{2,}`)
)

// Slugify dérive le slug d'une formation depuis son titre :
// minuscules, espaces -> tirets, suppression des caractères hors [A-Za-z0-9_-],
// tirets multiples fusionnés
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = whitespaceRegex.ReplaceAllString(s, "-")
	s = nonWordRegex.ReplaceAllString(s, "")
	s = multiHyphenRegex.ReplaceAllString(s, "-")
	return s
}

// SlugCandidate renvoie la n-ième variante d'un slug (n=1 -> slug, n=2 -> slug-2, ...)
func SlugCandidate(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

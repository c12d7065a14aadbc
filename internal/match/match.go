// Package match decides whether a free-text guess names a movie title.
package match

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	shortTitleLen       = 5
	shortTitleThreshold = 1
	longTitleThreshold  = 3
	// substringMinLen is the length a title must exceed before containment counts.
	substringMinLen = 10
)

// IsMatch compares guess and title after lower-casing and trimming both.
// A match is an exact hit, an edit distance within the length dependent
// threshold, or, for long titles only, containment in either direction.
func IsMatch(guess, title string) bool {
	g := normalize(guess)
	t := normalize(title)
	if g == "" {
		return false
	}
	if g == t {
		return true
	}

	titleLen := utf8.RuneCountInString(t)
	if levenshtein.ComputeDistance(g, t) <= threshold(titleLen) {
		return true
	}

	if titleLen > substringMinLen {
		return strings.Contains(t, g) || strings.Contains(g, t)
	}
	return false
}

func threshold(titleLen int) int {
	if titleLen < shortTitleLen {
		return shortTitleThreshold
	}
	return longTitleThreshold
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Package textmatch provides case-folded, word-bounded phrase matching.
package textmatch

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Fold returns s case-folded with runs of whitespace collapsed to one space.
func Fold(s string) string {
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

// Contains reports whether the folded text contains term as a whole phrase.
// Both arguments must already be folded.
func Contains(text, term string) bool {
	if term == "" {
		return false
	}
	from := 0
	for {
		idx := strings.Index(text[from:], term)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
}

// Matches returns the terms found in text, in the order given. Terms are
// folded before matching; text is folded once.
func Matches(text string, terms []string) []string {
	folded := Fold(text)
	var out []string
	for _, t := range terms {
		if Contains(folded, Fold(t)) {
			out = append(out, t)
		}
	}
	return out
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

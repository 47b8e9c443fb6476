package game

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const MaskRune = '_'

func maskable(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Mask hides every letter and digit, keeping spaces and punctuation so the word
// structure stays visible.
func Mask(subject string) string {
	return strings.Map(func(r rune) rune {
		if maskable(r) {
			return MaskRune
		}
		return r
	}, subject)
}

// HiddenPositions lists rune indexes of subject that are still masked.
func HiddenPositions(subject, masked string) []int {
	s, m := []rune(subject), []rune(masked)
	var out []int
	for i := range s {
		if i < len(m) && maskable(s[i]) && m[i] == MaskRune {
			out = append(out, i)
		}
	}
	return out
}

func MaskableCount(subject string) int {
	n := 0
	for _, r := range subject {
		if maskable(r) {
			n++
		}
	}
	return n
}

// Reveal uncovers the rune at index i.
func Reveal(subject, masked string, i int) string {
	s, m := []rune(subject), []rune(masked)
	if i < 0 || i >= len(s) || i >= len(m) {
		return masked
	}
	m[i] = s[i]
	return string(m)
}

// Normalize canonicalizes a guess or subject for comparison.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return cases.Fold().String(s)
}

func Matches(guess, subject string) bool {
	g := Normalize(guess)
	return g != "" && g == Normalize(subject)
}

// Mentions reports whether text contains subject as whole words, so "cat"
// is found in "a cat!" but not in "category".
func Mentions(text, subject string) bool {
	want := words(subject)
	if len(want) == 0 {
		return false
	}
	have := words(text)
	for i := 0; i+len(want) <= len(have); i++ {
		if slices.Equal(have[i:i+len(want)], want) {
			return true
		}
	}
	return false
}

func words(s string) []string {
	return strings.FieldsFunc(Normalize(s), func(r rune) bool { return !maskable(r) })
}

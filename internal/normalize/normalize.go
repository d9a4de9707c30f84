// Package normalize canonicalizes free-text company names into comparable
// keys. Two names that differ only in casing, accents, punctuation, or
// whitespace produce the same key.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text (NFKD) and removes combining marks, reducing
// accented letters to their ASCII base form. NFKD also folds compatibility
// characters: non-breaking spaces become plain spaces, ligatures split into
// letters, fullwidth forms become ASCII.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Key canonicalizes a raw company name:
//
//	accents stripped, remaining non-ASCII dropped
//	non-letter/digit characters replaced by spaces (substitution, not
//	deletion, so "Acme-Corp" keeps its word boundary)
//	runs of two or more single-character tokens joined, so dotted
//	abbreviations match their compact form: "S.A." and "SA" agree
//	whitespace collapsed and trimmed, result lowercased
//
// Blank input yields the empty key. Key is pure, deterministic, and
// idempotent: normalizing an already-normalized key is a no-op.
func Key(raw string) string {
	s, _, err := transform.String(stripMarks, raw)
	if err != nil {
		s = raw
	}
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case r > unicode.MaxASCII:
			return -1
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		default:
			return ' '
		}
	}, s)
	tokens := joinInitialRuns(strings.Fields(s))
	return strings.ToLower(strings.Join(tokens, " "))
}

// joinInitialRuns merges consecutive single-character tokens into one token.
// Punctuation substitution splits "S.A." into "S A"; rejoining the run makes
// it compare equal to "SA". Lone single-character tokens ("Big 5 Sporting")
// are left alone.
func joinInitialRuns(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if len(tokens[i]) != 1 {
			out = append(out, tokens[i])
			i++
			continue
		}
		j := i
		for j < len(tokens) && len(tokens[j]) == 1 {
			j++
		}
		if j-i >= 2 {
			out = append(out, strings.Join(tokens[i:j], ""))
		} else {
			out = append(out, tokens[i])
		}
		i = j
	}
	return out
}

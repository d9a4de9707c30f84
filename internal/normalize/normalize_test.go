package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"lowercases", "ACME CORP", "acme corp"},
		{"punctuation becomes word boundary", "Acme, Corp.", "acme corp"},
		{"hyphen splits words", "Acme-Corp", "acme corp"},
		{"slash splits words", "Smith/Jones LLC", "smith jones llc"},
		{"collapses interior whitespace", "Acme   Corp", "acme corp"},
		{"trims", "  Acme Corp  ", "acme corp"},
		{"tabs and newlines", "Acme\tCorp\n", "acme corp"},
		{"non-breaking space", "Acme Corp", "acme corp"},
		{"accents stripped", "Café Münchner", "cafe munchner"},
		{"dotted abbreviation compacts", "Café S.A.", "cafe sa"},
		{"initials run compacts", "U.S. Steel", "us steel"},
		{"alnum run compacts", "A-1 Plumbing", "a1 plumbing"},
		{"lone short token kept", "Big 5 Sporting Goods", "big 5 sporting goods"},
		{"digits kept", "24/7 Towing", "24 7 towing"},
		{"ampersand", "Johnson & Johnson", "johnson johnson"},
		{"non-decomposable letter dropped", "Łódź Freight", "odz freight"},
		{"cjk dropped", "株式会社 Acme", "acme"},
		{"empty", "", ""},
		{"whitespace only", "   \t ", ""},
		{"punctuation only", "***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Key(tt.raw))
		})
	}
}

// Names that vary only in casing, accents, punctuation, or spacing must
// land on the same key, since both partitioning and matching compare keys.
func TestKeyEquivalences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
	}{
		{"case and punctuation", "Acme, Corp.", "ACME CORP"},
		{"accents and abbreviation dots", "Café S.A.", "cafe sa"},
		{"hyphen vs space", "Smith-Jones", "Smith Jones"},
		{"nbsp vs space", "Acme Corp", "Acme Corp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, Key(tt.a), Key(tt.b))
		})
	}
}

func TestKeyDeterministic(t *testing.T) {
	t.Parallel()

	inputs := []string{"Acme, Corp.", "Café S.A.", "U.S. Steel", "Łódź"}
	for _, in := range inputs {
		assert.Equal(t, Key(in), Key(in))
	}
}

func TestKeyIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"Acme, Corp.", "Café S.A.", "Big 5 Sporting Goods", "A-1 Plumbing", ""}
	for _, in := range inputs {
		once := Key(in)
		assert.Equal(t, once, Key(once))
	}
}

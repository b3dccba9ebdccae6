package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := DefaultLexicon().Normalizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "   \t\n", want: ""},
		{name: "punctuation only", in: "!!!", want: ""},
		{name: "additive code", in: "E202", want: "e202"},
		{name: "hyphenated code", in: "E-202", want: "e 202"},
		{name: "collapse spaces and punctuation", in: "  Potassium   Sorbate!! ", want: "potassium sorbate"},
		{name: "parentheses", in: "(lecithin)", want: "lecithin"},
		{name: "underscore is a separator", in: "a_b", want: "a b"},
		{name: "turkish s cedilla", in: "  Şeker  ", want: "seker"},
		{name: "turkish dotless capital I", in: "IŞIK", want: "isik"},
		{name: "turkish dotted capital I", in: "İyot", want: "iyot"},
		{name: "all turkish letters", in: "şçğıöü ŞÇĞIÖÜ", want: "scgiou scgiou"},
		{name: "decomposed accent", in: "Café", want: "cafe"},
		{name: "sharp s", in: "Straße", want: "strasse"},
		{name: "digits kept", in: "Vitamin B12", want: "vitamin b12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := DefaultLexicon().Normalizer()

	inputs := []string{
		"",
		"Sugar, glucose syrup; E322 (lecithin) ve E202",
		"İYOT ve TUZ",
		"Sodyum Benzoat (E211)",
		"  --Mısır   Nişastası--  ",
		"Straße / Café",
		"a_b_c",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
	}
}

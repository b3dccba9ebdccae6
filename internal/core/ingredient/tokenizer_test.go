package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIngredientsList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "mixed separators and conjunction",
			in:   "Sugar, glucose syrup; E322 (lecithin) ve E202",
			want: []string{"Sugar", "glucose syrup", "E322 (lecithin)", "E202"},
		},
		{
			name: "empty",
			in:   "",
			want: []string{},
		},
		{
			name: "only separators",
			in:   " , ;; ,",
			want: []string{},
		},
		{
			name: "english conjunction any case",
			in:   "milk AND eggs, Salt and Pepper",
			want: []string{"milk", "eggs", "Salt", "Pepper"},
		},
		{
			name: "conjunction inside a word is kept",
			in:   "andes mint, vegan butter, salve",
			want: []string{"andes mint", "vegan butter", "salve"},
		},
		{
			name: "turkish letters around conjunction",
			in:   "süt ve şeker, çve",
			want: []string{"süt", "şeker", "çve"},
		},
		{
			name: "trailing conjunction",
			in:   "sugar ve",
			want: []string{"sugar"},
		},
		{
			name: "parenthetical and numeric tokens kept",
			in:   "(E330), 12",
			want: []string{"(E330)", "12"},
		},
		{
			name: "inner spacing preserved",
			in:   "  glucose   syrup  ",
			want: []string{"glucose   syrup"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitIngredientsList(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

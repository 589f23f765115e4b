package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     []Band
		wantLine string
	}{
		{name: "empty", text: "", want: []Band{}},
		{name: "blank lines only", text: "\n  \n\t\n", want: []Band{}},
		{
			name: "sorted by min desc",
			text: "C: 70-79\nA: 90-100\nB: 80-89",
			want: []Band{{"A", 90, 100}, {"B", 80, 89}, {"C", 70, 79}},
		},
		{
			name: "separators, percent sign and decimals",
			text: "a+ = 97.5 - 100 %\nA 93-97.4\n\nb-:80-82.9%",
			want: []Band{{"A+", 97.5, 100}, {"A", 93, 97.4}, {"B-", 80, 82.9}},
		},
		{
			name: "reversed bounds are swapped",
			text: "D: 69-60",
			want: []Band{{"D", 60, 69}},
		},
		{
			name: "last duplicate wins",
			text: "A: 90-100\nA: 95-100",
			want: []Band{{"A", 95, 100}},
		},
		{
			name: "duplicates compare upper-cased",
			text: "b: 80-89\nA: 90-100\nB: 85-89",
			want: []Band{{"A", 90, 100}, {"B", 85, 89}},
		},
		{name: "bad line", text: "A: 90-100\nB: eighty-89\nC: 70-79", wantLine: "B: eighty-89"},
		{name: "leading digit", text: "1A: 90-100", wantLine: "1A: 90-100"},
		{name: "missing upper bound", text: "  A: 90-  ", wantLine: "A: 90-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			if tt.wantLine != "" {
				perr, ok := err.(*ParseError)
				if !ok {
					t.Fatalf("Parse() error = %v, want *ParseError", err)
				}
				assert.Equal(t, tt.wantLine, perr.Line)
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_distinctLettersKeepCount(t *testing.T) {
	bands, err := Parse(DefaultText)
	assert.NoError(t, err)
	assert.Len(t, bands, 10)
	for i := 1; i < len(bands); i++ {
		if bands[i-1].Min < bands[i].Min {
			t.Errorf("bands not sorted by min desc at %d: %v", i, bands)
		}
	}
}

func TestPercentToLetter(t *testing.T) {
	overlapping := []Band{{"B", 80, 95}, {"A", 90, 100}}

	tests := []struct {
		name  string
		pct   null.Float64
		bands []Band
		want  null.String
	}{
		{name: "null", pct: null.Float64{}, bands: Default, want: null.String{}},
		{name: "A", pct: null.Float64From(97), bands: Default, want: null.StringFrom("A")},
		{name: "inclusive upper bound", pct: null.Float64From(100), bands: Default, want: null.StringFrom("A")},
		{name: "inclusive lower bound", pct: null.Float64From(90), bands: Default, want: null.StringFrom("A-")},
		{name: "F", pct: null.Float64From(59), bands: Default, want: null.StringFrom("F")},
		{name: "zero", pct: null.Float64From(0), bands: Default, want: null.StringFrom("F")},
		{name: "gap", pct: null.Float64From(93.5), bands: Default, want: null.String{}},
		{name: "above every band", pct: null.Float64From(104), bands: Default, want: null.String{}},
		{name: "no bands", pct: null.Float64From(80), bands: nil, want: null.String{}},
		{name: "first match in given order", pct: null.Float64From(92), bands: overlapping, want: null.StringFrom("B")},
		{name: "normalized overlap resolves to higher min", pct: null.Float64From(92), bands: Normalize(overlapping), want: null.StringFrom("A")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PercentToLetter(tt.pct, tt.bands); got != tt.want {
				t.Errorf("PercentToLetter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	in := []Band{{" a ", 90, 100}, {"", 0, 10}, {"b", 89, 80}, {"A", 91, 100}}
	got := Normalize(in)

	assert.Equal(t, []Band{{"A", 91, 100}, {"B", 80, 89}}, got)
	assert.Equal(t, " a ", in[0].Letter, "input must not be mutated")
}

func TestFormat_roundTrip(t *testing.T) {
	text := Format(Default)
	bands, err := Parse(text)
	assert.NoError(t, err)
	assert.Equal(t, Default, bands)
	assert.Equal(t, "A: 94-100", Format(Default[:1]))
	assert.Equal(t, "B: 87.5-89.9", Band{"B", 87.5, 89.9}.String())
}

// Package scale maps percentages to letter grades through ordered letter bands.
package scale

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"
)

// DefaultText is the built-in letter scale used when neither the course nor the settings define one.
const DefaultText = "A: 94-100\nA-: 90-93\nB+: 88-89\nB: 84-87\nB-: 80-83\n" +
	"C+: 78-79\nC: 74-77\nC-: 70-73\nD: 60-69\nF: 0-59"

var (
	Default = MustParse(DefaultText)

	// <letter-token> [: or =] <number> - <number> [%]
	lineRegex = regexp.MustCompile(`^([A-Za-z][A-Za-z+\-]*)\s*[:=]?\s*(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)\s*%?$`)
)

// Band maps an inclusive percentage range onto a letter.
type Band struct {
	Letter string  `json:"letter" validate:"notblank"`
	Min    float64 `json:"min" validate:"gte=0"`
	Max    float64 `json:"max" validate:"gte=0"`
}

func (b Band) Contains(pct float64) bool {
	return b.Min <= pct && pct <= b.Max
}

func (b Band) String() string {
	return b.Letter + ": " + formatNum(b.Min) + "-" + formatNum(b.Max)
}

// ParseError names the first line of a letter scale that does not follow the grammar.
type ParseError struct {
	Line string
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("invalid line: %s", err.Line)
}

// Parse reads one band per line, e.g. "A-: 90-93" or "b+ = 87.5 - 89.9 %".
// Blank lines are ignored. Any other non-matching line fails the whole parse.
// Letters are upper-cased, reversed bounds swapped, and when a letter repeats the last line wins.
// Bands are returned sorted by min descending.
func Parse(text string) ([]Band, error) {
	bands := make([]Band, 0)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		m := lineRegex.FindStringSubmatch(line)
		if m == nil {
			return nil, &ParseError{Line: line}
		}
		lo, _ := strconv.ParseFloat(m[2], 64)
		hi, _ := strconv.ParseFloat(m[3], 64)
		bands = append(bands, Band{Letter: m[1], Min: lo, Max: hi})
	}
	return Normalize(bands), nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) []Band {
	bands, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return bands
}

// Normalize applies the Parse rules to already structured bands and returns a new slice:
// upper-cased letters, min <= max, last occurrence of a letter wins, sorted by min descending.
// Bands without a letter are dropped.
func Normalize(bands []Band) []Band {
	idx := make(map[string]int, len(bands))
	out := make([]Band, 0, len(bands))
	for _, b := range bands {
		b.Letter = strings.ToUpper(strings.TrimSpace(b.Letter))
		if b.Letter == "" {
			continue
		}
		if b.Min > b.Max {
			b.Min, b.Max = b.Max, b.Min
		}
		if i, ok := idx[b.Letter]; ok {
			out[i] = b
			continue
		}
		idx[b.Letter] = len(out)
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Min > out[j].Min })
	return out
}

// PercentToLetter returns the letter of the first band containing `pct`, in the order given
// (Parse and Normalize order bands by min descending, so overlapping bands resolve to the higher one).
// Gaps and overlaps are not validated.
func PercentToLetter(pct null.Float64, bands []Band) null.String {
	if !pct.Valid {
		return null.String{}
	}
	for _, b := range bands {
		letter := strings.TrimSpace(b.Letter)
		if letter != "" && b.Contains(pct.Float64) {
			return null.StringFrom(letter)
		}
	}
	return null.String{}
}

// Format renders `bands` back into text accepted by Parse.
func Format(bands []Band) string {
	lines := make([]string, 0, len(bands))
	for _, b := range bands {
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Package grading converts percentages into grade points and aggregates weighted category scores
// into course grades and a credit-weighted term GPA.
package grading

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/trezcool/organizer/core"
)

// GPA system presets
const (
	Preset40     = "4.0"
	Preset43     = "4.3"
	PresetCustom = "custom"
)

// Conversion modes
const (
	// ModeLetter converts through the letter scale first, then falls back to the percent table.
	ModeLetter = "letter"
	// ModePercent converts through the percent table only.
	ModePercent = "percent"
)

var (
	Presets = []string{Preset40, Preset43, PresetCustom}
	Modes   = []string{ModeLetter, ModePercent}
)

type LetterPoints struct {
	Letter string  `json:"letter" validate:"notblank"`
	Points float64 `json:"points" validate:"gte=0"`
}

type PercentPoints struct {
	Min    float64 `json:"min" validate:"gte=0"`
	Max    float64 `json:"max" validate:"gtefield=Min"`
	Points float64 `json:"points" validate:"gte=0"`
}

func (pp PercentPoints) Contains(pct float64) bool {
	return pp.Min <= pct && pct <= pp.Max
}

// System is a letter/percent to grade points conversion table plus a display cap (MaxGPA).
type System struct {
	Preset        string          `json:"preset" validate:"gpapreset"`
	Mode          string          `json:"mode" validate:"gpamode"`
	MaxGPA        float64         `json:"max_gpa" validate:"gt=0"`
	LetterPoints  []LetterPoints  `json:"letter_points" validate:"min=1,dive"`
	PercentPoints []PercentPoints `json:"percent_points" validate:"min=1,dive"`
}

func (s System) Validate() error { return core.ValidateStruct(s) }

// Customize returns a copy of the system switched to the custom preset.
func (s System) Customize() System {
	s.Preset = PresetCustom
	s.LetterPoints = append([]LetterPoints(nil), s.LetterPoints...)
	s.PercentPoints = append([]PercentPoints(nil), s.PercentPoints...)
	return s
}

// WithLetterPoints returns a custom copy of the system using `rows` as letter table.
func (s System) WithLetterPoints(rows ...LetterPoints) System {
	s = s.Customize()
	s.LetterPoints = append([]LetterPoints(nil), rows...)
	return s
}

// WithPercentPoints returns a custom copy of the system using `rows` as percent table.
func (s System) WithPercentPoints(rows ...PercentPoints) System {
	s = s.Customize()
	s.PercentPoints = append([]PercentPoints(nil), rows...)
	return s
}

// letterPointsMap indexes the letter table by normalized token; later rows win.
func (s System) letterPointsMap() map[string]float64 {
	mp := make(map[string]float64, len(s.LetterPoints))
	for _, row := range s.LetterPoints {
		letter := core.NormalizeToken(row.Letter)
		if letter == "" {
			continue
		}
		mp[letter] = row.Points
	}
	return mp
}

// percentRows returns the percent table with min <= max, sorted by min descending
// so that the higher band wins when bands overlap.
func (s System) percentRows() []PercentPoints {
	rows := make([]PercentPoints, 0, len(s.PercentPoints))
	for _, row := range s.PercentPoints {
		if row.Min > row.Max {
			row.Min, row.Max = row.Max, row.Min
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Min > rows[j].Min })
	return rows
}

// DefaultSystem returns the built-in system of `preset`: "4.3" gets the 4.3 tables, anything else the 4.0 ones.
func DefaultSystem(preset string) System {
	if strings.TrimSpace(preset) == Preset43 {
		return System{
			Preset:        Preset43,
			Mode:          ModeLetter,
			MaxGPA:        4.3,
			LetterPoints:  letterPoints(4.3),
			PercentPoints: append([]PercentPoints{{Min: 97, Max: 100, Points: 4.3}, {Min: 93, Max: 96.999, Points: 4.0}}, percentPoints40[1:]...),
		}
	}
	return System{
		Preset:        Preset40,
		Mode:          ModeLetter,
		MaxGPA:        4.0,
		LetterPoints:  letterPoints(4.0),
		PercentPoints: append([]PercentPoints(nil), percentPoints40...),
	}
}

var percentPoints40 = []PercentPoints{
	{Min: 93, Max: 100, Points: 4.0},
	{Min: 90, Max: 92.999, Points: 3.7},
	{Min: 87, Max: 89.999, Points: 3.3},
	{Min: 83, Max: 86.999, Points: 3.0},
	{Min: 80, Max: 82.999, Points: 2.7},
	{Min: 77, Max: 79.999, Points: 2.3},
	{Min: 73, Max: 76.999, Points: 2.0},
	{Min: 70, Max: 72.999, Points: 1.7},
	{Min: 65, Max: 69.999, Points: 1.0},
	{Min: 0, Max: 64.999, Points: 0},
}

// letterPoints builds the standard letter table; only A+ differs between presets.
func letterPoints(aPlus float64) []LetterPoints {
	return []LetterPoints{
		{"A+", aPlus}, {"A", 4.0}, {"A-", 3.7},
		{"B+", 3.3}, {"B", 3.0}, {"B-", 2.7},
		{"C+", 2.3}, {"C", 2.0}, {"C-", 1.7},
		{"D+", 1.3}, {"D", 1.0}, {"D-", 0.7},
		{"F", 0},
	}
}

// Raw* mirror a stored GPA system before fallbacks are applied.
type (
	RawLetterPoints struct {
		Letter interface{} `json:"letter"`
		Points interface{} `json:"points"`
	}

	RawPercentPoints struct {
		Min    interface{} `json:"min"`
		Max    interface{} `json:"max"`
		Points interface{} `json:"points"`
	}

	// RawLetterTable skips rows that are not objects; a table that is not a list has no rows.
	RawLetterTable []RawLetterPoints

	// RawPercentTable skips rows that are not objects; a table that is not a list has no rows.
	RawPercentTable []RawPercentPoints

	RawSystem struct {
		Preset        interface{}     `json:"preset"`
		Mode          interface{}     `json:"mode"`
		MaxGPA        interface{}     `json:"max_gpa"`
		LetterPoints  RawLetterTable  `json:"letter_points"`
		PercentPoints RawPercentTable `json:"percent_points"`
	}
)

func (rows *RawLetterTable) UnmarshalJSON(data []byte) error {
	*rows = nil
	core.DecodeRows(data, func(item json.RawMessage) error {
		var row RawLetterPoints
		if err := json.Unmarshal(item, &row); err != nil {
			return err
		}
		*rows = append(*rows, row)
		return nil
	})
	return nil
}

func (rows *RawPercentTable) UnmarshalJSON(data []byte) error {
	*rows = nil
	core.DecodeRows(data, func(item json.RawMessage) error {
		var row RawPercentPoints
		if err := json.Unmarshal(item, &row); err != nil {
			return err
		}
		*rows = append(*rows, row)
		return nil
	})
	return nil
}

// UnmarshalJSON never fails: a stored system that is not an object resolves like a missing one.
func (raw *RawSystem) UnmarshalJSON(data []byte) error {
	type stored RawSystem
	var s stored
	if err := json.Unmarshal(data, &s); err != nil {
		s = stored{}
	}
	*raw = RawSystem(s)
	return nil
}

// ResolveSystem applies every GPA system fallback in one place:
//  - nil: the 4.0 default
//  - preset not in Presets: "4.0"
//  - mode lower-cased, not in Modes: "letter"
//  - max GPA missing, unparseable or <= 0: 4.0
//  - letter or percent table empty once unusable rows are dropped: the preset's default table
// The result always has non-empty tables and a positive MaxGPA.
func ResolveSystem(raw *RawSystem) System {
	if raw == nil {
		return DefaultSystem(Preset40)
	}

	preset := strings.TrimSpace(toString(raw.Preset))
	if preset == "" {
		preset = Preset40
	}
	defaults := DefaultSystem(preset)

	sys := System{Preset: preset, Mode: strings.ToLower(strings.TrimSpace(toString(raw.Mode)))}
	if !contains(Presets, sys.Preset) {
		sys.Preset = Preset40
	}
	if !contains(Modes, sys.Mode) {
		sys.Mode = ModeLetter
	}
	if sys.MaxGPA = core.FloatOr(raw.MaxGPA, 4.0); sys.MaxGPA <= 0 {
		sys.MaxGPA = 4.0
	}

	for _, row := range raw.LetterPoints {
		letter := core.NormalizeToken(toString(row.Letter))
		if letter == "" {
			continue
		}
		sys.LetterPoints = append(sys.LetterPoints, LetterPoints{Letter: letter, Points: core.FloatOr(row.Points, 0)})
	}
	if len(sys.LetterPoints) == 0 {
		sys.LetterPoints = defaults.LetterPoints
	}

	for _, row := range raw.PercentPoints {
		lo, okLo := core.ParseFloat(row.Min)
		hi, okHi := core.ParseFloat(row.Max)
		if !okLo || !okHi {
			continue
		}
		sys.PercentPoints = append(sys.PercentPoints, PercentPoints{Min: lo, Max: hi, Points: core.FloatOr(row.Points, 0)})
	}
	if len(sys.PercentPoints) == 0 {
		sys.PercentPoints = defaults.PercentPoints
	}
	sys.PercentPoints = sys.percentRows()

	return sys
}

// Raw returns `s` in its stored shape, so that ResolveSystem(s.Raw()) == s for a resolved system.
func (s System) Raw() *RawSystem {
	raw := &RawSystem{Preset: s.Preset, Mode: s.Mode, MaxGPA: s.MaxGPA}
	for _, row := range s.LetterPoints {
		raw.LetterPoints = append(raw.LetterPoints, RawLetterPoints{Letter: row.Letter, Points: row.Points})
	}
	for _, row := range s.PercentPoints {
		raw.PercentPoints = append(raw.PercentPoints, RawPercentPoints{Min: row.Min, Max: row.Max, Points: row.Points})
	}
	return raw
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if f, ok := core.ParseFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

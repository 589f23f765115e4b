package grading

import (
	"math"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/course"
	"github.com/trezcool/organizer/core/scale"
)

// Converter turns course percentages into letters and grade points.
// System must be resolved (see ResolveSystem); Scale is the settings-level letter scale and may be empty.
type Converter struct {
	System System
	Scale  []scale.Band
}

func NewConverter(sys System, bands []scale.Band) Converter {
	return Converter{System: sys, Scale: bands}
}

// EffectiveScale returns the first non-empty of: the course's letter scale, the settings scale, scale.Default.
func (cv Converter) EffectiveScale(c course.Course) []scale.Band {
	if len(c.LetterScale) > 0 {
		return c.LetterScale
	}
	if len(cv.Scale) > 0 {
		return cv.Scale
	}
	return scale.Default
}

func (cv Converter) Letter(pct null.Float64, c course.Course) null.String {
	return scale.PercentToLetter(pct, cv.EffectiveScale(c))
}

// PercentToGradePoints converts `pct` into grade points capped at MaxGPA and rounded to 2 decimals.
// In letter mode the letter table is tried first; the percent table is the fallback.
// A percentage no table covers converts to 0; an invalid `pct` stays invalid.
func (cv Converter) PercentToGradePoints(pct null.Float64, c course.Course) null.Float64 {
	if !pct.Valid || math.IsNaN(pct.Float64) || math.IsInf(pct.Float64, 0) {
		return null.Float64{}
	}

	if cv.System.Mode == ModeLetter {
		if letter := cv.Letter(pct, c); letter.Valid {
			if pts, ok := cv.System.letterPointsMap()[core.NormalizeToken(letter.String)]; ok {
				return null.Float64From(cv.capped(pts))
			}
		}
	}

	for _, row := range cv.System.percentRows() {
		if row.Contains(pct.Float64) {
			return null.Float64From(cv.capped(row.Points))
		}
	}
	return null.Float64From(0)
}

func (cv Converter) capped(pts float64) float64 {
	max := cv.System.MaxGPA
	if max <= 0 {
		max = 4.0
	}
	return core.Round(math.Min(pts, max), 2)
}

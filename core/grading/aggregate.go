package grading

import (
	"sort"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/course"
)

// NormalizeWeights scales `weights` to sum to 100, counting negative weights as 0 in the total.
// When no weight is positive, categories share 100 equally. The input is never modified.
func NormalizeWeights(weights map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(weights))
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		n := len(weights)
		for cat := range weights {
			out[cat] = 100 / float64(n)
		}
		return out
	}
	for cat, w := range weights {
		out[cat] = w / total * 100
	}
	return out
}

type categoryScore struct {
	earned, total float64
}

func (cs categoryScore) percent() float64 {
	return cs.earned / cs.total * 100
}

// scoreByCategory sums earned and total points of scored assignments per trimmed, non-blank category.
func scoreByCategory(as []course.Assignment) map[string]categoryScore {
	scores := make(map[string]categoryScore)
	for _, a := range as {
		if !a.IsScored() {
			continue
		}
		cat := strings.TrimSpace(a.Category)
		if cat == "" {
			continue
		}
		cs := scores[cat]
		cs.earned += a.PointsEarned.Float64
		cs.total += a.PointsTotal.Float64
		scores[cat] = cs
	}
	return scores
}

// CourseGrade computes the course percentage from the assignments `as`, which callers scope to `c`.
// Only categories both weighted and scored count; when their weight sums to less than 100 the
// result is rescaled so that missing categories are ignored rather than counted as 0.
// The grade is invalid without assignments, without any weighted scored category, or when the used
// weight is 0. It is rounded to 1 decimal.
func CourseGrade(c course.Course, as []course.Assignment) null.Float64 {
	if len(as) == 0 {
		return null.Float64{}
	}
	scores := scoreByCategory(as)
	if len(scores) == 0 {
		return null.Float64{}
	}

	weights := NormalizeWeights(c.GradingScheme)
	var grade, used float64
	for _, cat := range sortedKeys(weights) {
		cs, ok := scores[cat]
		if !ok || cs.total <= 0 {
			continue
		}
		w := weights[cat]
		grade += cs.percent() * (w / 100)
		used += w
	}
	return finalize(grade, used)
}

// CourseGradeWithOverride is CourseGrade with the percentage of every category in `override`
// replaced by the given value, whether or not that category has scored work.
// Categories weighing <= 0 are skipped even when overridden.
func CourseGradeWithOverride(c course.Course, as []course.Assignment, override map[string]float64) null.Float64 {
	scores := scoreByCategory(as)

	cats := make(map[string]float64, len(scores)+len(override))
	for cat := range scores {
		cats[cat] = 0
	}
	for cat := range override {
		cats[cat] = 0
	}
	if len(cats) == 0 {
		return null.Float64{}
	}

	weights := NormalizeWeights(c.GradingScheme)
	var grade, used float64
	for _, cat := range sortedKeys(cats) {
		w := weights[cat]
		if w <= 0 {
			continue
		}
		pct, ok := override[cat]
		if !ok {
			cs, scored := scores[cat]
			if !scored || cs.total <= 0 {
				continue
			}
			pct = cs.percent()
		}
		grade += pct * (w / 100)
		used += w
	}
	return finalize(grade, used)
}

func finalize(grade, used float64) null.Float64 {
	if used == 0 {
		return null.Float64{}
	}
	if used < 100 {
		grade *= 100 / used
	}
	return null.Float64From(core.Round(grade, 1))
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

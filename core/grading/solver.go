package grading

import (
	"math"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core/course"
)

// FinalExam is the category RequiredScore targets by default when a course weights it.
const FinalExam = "Final Exam"

// negligibleEffect is the smallest grade swing a category must cause to be solvable.
const negligibleEffect = 1e-6

type Status int

const (
	// StatusNoData means no grade can be computed even with the category overridden.
	StatusNoData Status = iota
	// StatusNegligible means the category barely moves the course grade.
	StatusNegligible
	// StatusUnreachable means the target is missed even with 100% in the category.
	StatusUnreachable
	// StatusAlreadyMet means the target is met even with 0% in the category.
	StatusAlreadyMet
	// StatusReachable means Required is the score to aim for.
	StatusReachable
)

func (s Status) String() string {
	switch s {
	case StatusNoData:
		return "no data"
	case StatusNegligible:
		return "negligible"
	case StatusUnreachable:
		return "unreachable"
	case StatusAlreadyMet:
		return "already met"
	case StatusReachable:
		return "reachable"
	default:
		return "unknown"
	}
}

// Requirement is the answer to "what do I need in this category to reach the target?".
type Requirement struct {
	Status Status
	// Required is the category percentage needed, within [0, 100]; valid unless Status is NoData or Negligible.
	Required     null.Float64
	GradeAtZero  null.Float64
	GradeAtFull  null.Float64
	BestPossible null.Float64
}

// SolveRequired interpolates the category score needed to reach `target` from the course grade
// with 0% (gradeAtZero) and with 100% (gradeAtFull) in that category.
//
// Precondition: the course grade is an affine function of the category score. This holds because
// every category contributes weight × percentage / 100 and weights combine linearly.
func SolveRequired(gradeAtZero, gradeAtFull null.Float64, target float64) Requirement {
	req := Requirement{GradeAtZero: gradeAtZero, GradeAtFull: gradeAtFull}
	if !gradeAtZero.Valid || !gradeAtFull.Valid {
		req.Status = StatusNoData
		return req
	}

	g0, g100 := gradeAtZero.Float64, gradeAtFull.Float64
	req.BestPossible = null.Float64From(math.Max(g0, g100))

	diff := g100 - g0
	if math.Abs(diff) < negligibleEffect {
		req.Status = StatusNegligible
		return req
	}

	required := 100 * (target - g0) / diff
	switch {
	case g100 < target:
		req.Status = StatusUnreachable
	case required <= 0:
		req.Status = StatusAlreadyMet
	default:
		req.Status = StatusReachable
	}
	req.Required = null.Float64From(math.Max(0, math.Min(100, required)))
	return req
}

// RequiredScore solves for the percentage needed in `category` for course `c` to reach `target`,
// given the assignments `as` of that course.
func RequiredScore(c course.Course, as []course.Assignment, category string, target float64) Requirement {
	atZero := CourseGradeWithOverride(c, as, map[string]float64{category: 0})
	atFull := CourseGradeWithOverride(c, as, map[string]float64{category: 100})
	return SolveRequired(atZero, atFull, target)
}

// DefaultCategory returns the category to solve for when none is given:
// FinalExam when the course weights it, else its first category. It is "" for a course without scheme.
func DefaultCategory(c course.Course) string {
	if _, ok := c.GradingScheme[FinalExam]; ok {
		return FinalExam
	}
	if cats := c.Categories(); len(cats) > 0 {
		return cats[0]
	}
	return ""
}

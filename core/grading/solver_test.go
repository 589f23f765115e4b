package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core/course"
)

func TestSolveRequired(t *testing.T) {
	tests := []struct {
		name         string
		g0, g100     null.Float64
		target       float64
		wantStatus   Status
		wantRequired null.Float64
	}{
		{name: "reachable", g0: null.Float64From(70), g100: null.Float64From(90), target: 85, wantStatus: StatusReachable, wantRequired: null.Float64From(75)},
		{name: "exactly 100 needed", g0: null.Float64From(70), g100: null.Float64From(90), target: 90, wantStatus: StatusReachable, wantRequired: null.Float64From(100)},
		{name: "no grade at 0", g0: null.Float64{}, g100: null.Float64From(90), target: 85, wantStatus: StatusNoData},
		{name: "no grade at 100", g0: null.Float64From(70), g100: null.Float64{}, target: 85, wantStatus: StatusNoData},
		{name: "negligible", g0: null.Float64From(80), g100: null.Float64From(80.0000001), target: 85, wantStatus: StatusNegligible},
		{name: "unreachable", g0: null.Float64From(60), g100: null.Float64From(80), target: 85, wantStatus: StatusUnreachable, wantRequired: null.Float64From(100)},
		{name: "already met", g0: null.Float64From(70), g100: null.Float64From(90), target: 60, wantStatus: StatusAlreadyMet, wantRequired: null.Float64From(0)},
		{name: "met exactly at 0", g0: null.Float64From(70), g100: null.Float64From(90), target: 70, wantStatus: StatusAlreadyMet, wantRequired: null.Float64From(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SolveRequired(tt.g0, tt.g100, tt.target)
			assert.Equal(t, tt.wantStatus, got.Status, got.Status.String())
			assert.Equal(t, tt.wantRequired, got.Required)
			assert.Equal(t, tt.g0, got.GradeAtZero)
			assert.Equal(t, tt.g100, got.GradeAtFull)
		})
	}
}

func TestSolveRequired_bestPossible(t *testing.T) {
	assert.Equal(t, null.Float64From(80), SolveRequired(null.Float64From(60), null.Float64From(80), 85).BestPossible)
	assert.False(t, SolveRequired(null.Float64{}, null.Float64From(80), 85).BestPossible.Valid)
}

func TestRequiredScore(t *testing.T) {
	c := course.Course{ID: "c1", GradingScheme: map[string]float64{"Homework": 50, "Final Exam": 50, "Bonus": 0}}
	as := []course.Assignment{scored("Homework", 8, 10), ungraded("Final Exam", 100)}

	tests := []struct {
		name         string
		as           []course.Assignment
		category     string
		target       float64
		wantStatus   Status
		wantRequired null.Float64
	}{
		{name: "reachable", as: as, category: "Final Exam", target: 85, wantStatus: StatusReachable, wantRequired: null.Float64From(90)},
		{name: "unreachable", as: as, category: "Final Exam", target: 95, wantStatus: StatusUnreachable, wantRequired: null.Float64From(100)},
		{name: "already met", as: as, category: "Final Exam", target: 30, wantStatus: StatusAlreadyMet, wantRequired: null.Float64From(0)},
		{name: "zero weight category", as: as, category: "Bonus", target: 85, wantStatus: StatusNegligible},
		{name: "unweighted category without grades", category: "Labs", target: 85, wantStatus: StatusNoData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequiredScore(c, tt.as, tt.category, tt.target)
			assert.Equal(t, tt.wantStatus, got.Status, got.Status.String())
			assert.Equal(t, tt.wantRequired, got.Required)
		})
	}
}

func TestDefaultCategory(t *testing.T) {
	assert.Equal(t, FinalExam, DefaultCategory(course.Course{GradingScheme: map[string]float64{"Zeta": 1, FinalExam: 1}}))
	assert.Equal(t, "Labs", DefaultCategory(course.Course{GradingScheme: map[string]float64{"Quizzes": 1, "Labs": 1}}))
	assert.Equal(t, "", DefaultCategory(course.Course{}))
}

func TestConverter_TermGPA(t *testing.T) {
	hw := map[string]float64{"Homework": 100}
	courses := []course.Course{
		{ID: "c1", Name: "Algebra", Credits: 3, GradingScheme: hw},
		{ID: "c2", Name: "Biology", Code: "BIO", Credits: 4, GradingScheme: hw},
		{ID: "c3", Name: "Seminar", Credits: 0, GradingScheme: hw},
		{ID: "c4", Name: "Chemistry", Credits: 3, GradingScheme: hw},
	}
	as := []course.Assignment{
		{CourseID: "c1", Category: "Homework", PointsEarned: null.Float64From(95), PointsTotal: null.Float64From(100)},
		{CourseID: "c2", Category: "Homework", PointsEarned: null.Float64From(85), PointsTotal: null.Float64From(100)},
		{CourseID: "c3", Category: "Homework", PointsEarned: null.Float64From(10), PointsTotal: null.Float64From(100)},
		{CourseID: "c4", Category: "Homework", PointsTotal: null.Float64From(100)},
	}
	cv := NewConverter(DefaultSystem(Preset40), nil)

	// (3×4.0 + 4×3.0) / 7
	assert.Equal(t, null.Float64From(3.43), cv.TermGPA(courses, as))
	assert.False(t, cv.TermGPA(courses[2:], as).Valid, "no credits or no grade")
	assert.False(t, cv.TermGPA(nil, nil).Valid)

	reports := cv.Report(courses, as)
	assert.Len(t, reports, 4)
	assert.Equal(t, CourseReport{
		CourseID: "c2",
		Label:    "Biology (BIO)",
		Credits:  4,
		Grade:    null.Float64From(85),
		Letter:   null.StringFrom("B"),
		Points:   null.Float64From(3.0),
	}, reports[1])
	assert.Equal(t, CourseReport{CourseID: "c4", Label: "Chemistry", Credits: 3}, reports[3])
}

package grading

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/course"
)

// TermGPA is the credit-weighted average of grade points over every course that has a grade and
// positive credits, rounded to 2 decimals. It is invalid when no course contributes.
func (cv Converter) TermGPA(courses []course.Course, as []course.Assignment) null.Float64 {
	var points, credits float64
	for _, r := range cv.Report(courses, as) {
		if !r.Points.Valid || r.Credits <= 0 {
			continue
		}
		points += r.Points.Float64 * r.Credits
		credits += r.Credits
	}
	if credits == 0 {
		return null.Float64{}
	}
	return null.Float64From(core.Round(points/credits, 2))
}

// CourseReport summarizes the current standing in one course.
type CourseReport struct {
	CourseID string       `json:"course_id"`
	Label    string       `json:"label"`
	Credits  float64      `json:"credits"`
	Grade    null.Float64 `json:"grade"`
	Letter   null.String  `json:"letter"`
	Points   null.Float64 `json:"points"`
}

// Report grades every course, in input order, over its own assignments from `as`.
func (cv Converter) Report(courses []course.Course, as []course.Assignment) []CourseReport {
	reports := make([]CourseReport, 0, len(courses))
	for _, c := range courses {
		grade := CourseGrade(c, course.AssignmentsFor(as, c.ID))
		reports = append(reports, CourseReport{
			CourseID: c.ID,
			Label:    c.Label(),
			Credits:  c.Credits,
			Grade:    grade,
			Letter:   cv.Letter(grade, c),
			Points:   cv.PercentToGradePoints(grade, c),
		})
	}
	return reports
}

package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core/course"
)

// Today is the reference day of the fixtures.
var Today = time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)

// NewAssignment builds an assignment. `points` is optional: total, or total then earned.
func NewAssignment(id, courseID, title, category, due string, points ...float64) course.Assignment {
	a := course.Assignment{ID: id, CourseID: courseID, Title: title, Category: category}
	if due != "" {
		a.DueDate = null.StringFrom(due)
	}
	if len(points) > 0 {
		a.PointsTotal = null.Float64From(points[0])
	}
	if len(points) > 1 {
		a.PointsEarned = null.Float64From(points[1])
	}
	return a
}

func NewTask(id, courseID, title, due string, minutes int, done bool) course.Task {
	t := course.Task{ID: id, Title: title, Minutes: minutes, Priority: course.PriorityMedium, Done: done}
	if courseID != "" {
		t.CourseID = null.StringFrom(courseID)
	}
	if due != "" {
		t.DueDate = null.StringFrom(due)
	}
	return t
}

func Courses() []course.Course {
	return []course.Course{
		{ID: "c1", Name: "Calculus", Code: "MATH101", Credits: 3, GradingScheme: map[string]float64{"Homework": 40, "Final Exam": 60}},
		{ID: "c2", Name: "History", Credits: 4, GradingScheme: map[string]float64{"Essays": 100}},
	}
}

// Assignments are the fixture assignments; a4 and a6 have no usable due date.
func Assignments() []course.Assignment {
	a2 := NewAssignment("a2", "c2", "essay", "Essays", "2024-03-04", 10, 8)
	a2.Completed = true
	return []course.Assignment{
		NewAssignment("a1", "c1", "Problem Set", "Homework", "2024-03-05", 20),
		a2,
		NewAssignment("a3", "", "Orientation quiz", "Quizzes", "2024-03-05"),
		NewAssignment("a4", "c1", "No date", "Homework", "", 10, 9),
		NewAssignment("a5", "c9", "Ghost", "", "2024-03-06"),
		NewAssignment("a6", "c1", "Bad date", "Homework", "03/05/2024"),
	}
}

// Tasks are the fixture tasks; t3 has no due date.
func Tasks() []course.Task {
	t1 := NewTask("t1", "c1", "review notes", "2024-03-05", 30, false)
	t1.Priority = course.PriorityHigh
	return []course.Task{
		t1,
		NewTask("t2", "", "Buy supplies", "2024-03-04", 0, true),
		NewTask("t3", "c2", "outline", "", 20, false),
		NewTask("t4", "c2", "Alpha task", "2024-03-05", 45, false),
	}
}

// WriteFile writes `content` to `name` in a test temp dir and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

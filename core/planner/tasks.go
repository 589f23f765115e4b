package planner

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/course"
)

// TaskFromAssignment plans a study task for `a`: same course and due date, `minutes` long.
func TaskFromAssignment(a course.Assignment, minutes int, now time.Time) course.Task {
	title := a.Title
	if strings.TrimSpace(title) == "" {
		title = "Assignment"
	}
	t := course.Task{
		ID:                 core.NewID("task"),
		Title:              "Work on: " + title,
		Minutes:            minutes,
		Priority:           course.PriorityMedium,
		SourceAssignmentID: a.ID,
		CreatedAt:          null.TimeFrom(now),
	}
	if cid := strings.TrimSpace(a.CourseID); cid != "" {
		t.CourseID = null.StringFrom(cid)
	}
	if due := strings.TrimSpace(a.DueDate.String); a.DueDate.Valid && due != "" {
		t.DueDate = null.StringFrom(due)
	}
	if t.Minutes < 0 {
		t.Minutes = 0
	}
	return t
}

// HasTaskFor reports whether a task was already planned for the assignment `assignmentID`.
func HasTaskFor(ts []course.Task, assignmentID string) bool {
	for _, t := range ts {
		if t.SourceAssignmentID != "" && t.SourceAssignmentID == assignmentID {
			return true
		}
	}
	return false
}

// SuggestTasks plans a task for every ungraded, due-dated assignment that has none yet, in input order.
func SuggestTasks(as []course.Assignment, ts []course.Task, minutes int, now time.Time) []course.Task {
	out := make([]course.Task, 0)
	for _, a := range as {
		if a.IsGraded() || a.Completed || HasTaskFor(ts, a.ID) {
			continue
		}
		if _, ok := core.ParseNullDate(a.DueDate); !ok {
			continue
		}
		out = append(out, TaskFromAssignment(a, minutes, now))
	}
	return out
}

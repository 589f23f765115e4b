// Package planner merges assignments and tasks into one date-ordered feed and derives
// reminders and workload statistics from it.
package planner

import (
	"sort"
	"strings"
	"time"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/course"
)

// Item kinds
const (
	KindAssignment = "assignment"
	KindTask       = "task"
)

// CategoryTask is the category of every task item.
const CategoryTask = "Task"

var kindRank = map[string]int{KindAssignment: 0, KindTask: 1}

// FeedItem is a transient view over an assignment or a task. Feeds are rebuilt on every query.
type FeedItem struct {
	Kind        string    `json:"kind"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CourseID    string    `json:"course_id"` // "" when the record has no course
	CourseLabel string    `json:"course_name"`
	Category    string    `json:"category"`
	Due         time.Time `json:"due"`
	Done        bool      `json:"done"`
	// Graded is only set on assignments.
	Graded bool `json:"graded"`
	// Minutes and Priority are only set on tasks.
	Minutes  int    `json:"minutes"`
	Priority string `json:"priority"`
}

// DueDate renders the due date as YYYY-MM-DD.
func (it FeedItem) DueDate() string {
	return core.FormatDate(it.Due)
}

// BuildFeed merges the due-dated assignments and tasks into one feed ordered by due date,
// assignments before tasks, then case-insensitive title.
// Records without a valid YYYY-MM-DD due date are left out of the feed; they are not touched otherwise.
func BuildFeed(as []course.Assignment, ts []course.Task, courses []course.Course) []FeedItem {
	idx := course.Index(courses)
	items := make([]FeedItem, 0, len(as)+len(ts))

	for _, a := range as {
		due, ok := core.ParseNullDate(a.DueDate)
		if !ok {
			continue
		}
		cid := strings.TrimSpace(a.CourseID)
		items = append(items, FeedItem{
			Kind:        KindAssignment,
			ID:          a.ID,
			Title:       a.Title,
			CourseID:    cid,
			CourseLabel: course.LabelFor(idx, cid),
			Category:    a.Category,
			Due:         due,
			Done:        a.Completed,
			Graded:      a.IsGraded(),
		})
	}

	for _, t := range ts {
		due, ok := core.ParseNullDate(t.DueDate)
		if !ok {
			continue
		}
		cid := strings.TrimSpace(t.CourseID.String)
		items = append(items, FeedItem{
			Kind:        KindTask,
			ID:          t.ID,
			Title:       t.Title,
			CourseID:    cid,
			CourseLabel: course.LabelFor(idx, cid),
			Category:    CategoryTask,
			Due:         due,
			Done:        t.Done,
			Minutes:     t.Minutes,
			Priority:    t.Priority,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Due.Equal(b.Due) {
			return a.Due.Before(b.Due)
		}
		if kindRank[a.Kind] != kindRank[b.Kind] {
			return kindRank[a.Kind] < kindRank[b.Kind]
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})
	return items
}

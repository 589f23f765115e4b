package planner

import (
	"strings"
	"time"

	"github.com/trezcool/organizer/core"
)

// KindAll matches every kind, like an empty Filter.Kind.
const KindAll = "all"

// Statuses
const (
	StatusAll  = "All"
	StatusOpen = "Open"
	StatusDone = "Done"
)

// NoCourse is the Filter.CourseID that matches items without a course.
const NoCourse = "-"

// Filter narrows a feed. Criteria are AND-composed and zero values match everything.
type Filter struct {
	// Query is a case-insensitive substring of title, course label, category or kind.
	Query string
	// Kind is KindAssignment or KindTask.
	Kind string
	// CourseID is a course id, or NoCourse.
	CourseID string
	// Status is StatusOpen or StatusDone; anything else keeps both.
	Status string
	// Start and End are inclusive due date bounds.
	Start, End time.Time
}

// Clean returns the filter with its text criteria trimmed, Kind lower-cased and dates truncated.
func (f Filter) Clean() Filter {
	f.Query = core.CleanString(f.Query)
	f.Kind = core.CleanString(f.Kind, true)
	if f.Kind == KindAll {
		f.Kind = ""
	}
	f.CourseID = core.CleanString(f.CourseID)
	switch core.CleanString(f.Status, true) {
	case "open":
		f.Status = StatusOpen
	case "done":
		f.Status = StatusDone
	default:
		f.Status = ""
	}
	if !f.Start.IsZero() {
		f.Start = core.DateOf(f.Start)
	}
	if !f.End.IsZero() {
		f.End = core.DateOf(f.End)
	}
	return f
}

// IsEmpty reports whether the filter keeps every item.
func (f Filter) IsEmpty() bool {
	return f.Clean() == Filter{}
}

// Apply returns the items matching every criterion, in their original order.
// The input is never modified and applying a filter twice gives the same result.
func (f Filter) Apply(items []FeedItem) []FeedItem {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	kind := f.Kind
	if strings.EqualFold(kind, KindAll) {
		kind = ""
	}

	out := make([]FeedItem, 0, len(items))
	for _, it := range items {
		if q != "" {
			hay := strings.ToLower(strings.Join([]string{it.Title, it.CourseLabel, it.Category, it.Kind}, " "))
			if !strings.Contains(hay, q) {
				continue
			}
		}
		if kind != "" && it.Kind != kind {
			continue
		}
		if f.CourseID != "" && !f.matchesCourse(it) {
			continue
		}
		if f.Status == StatusOpen && it.Done || f.Status == StatusDone && !it.Done {
			continue
		}
		if !f.Start.IsZero() && it.Due.Before(core.DateOf(f.Start)) {
			continue
		}
		if !f.End.IsZero() && it.Due.After(core.DateOf(f.End)) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (f Filter) matchesCourse(it FeedItem) bool {
	if f.CourseID == NoCourse {
		return it.CourseID == ""
	}
	return it.CourseID == f.CourseID
}

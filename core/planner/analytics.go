package planner

import (
	"sort"
	"strings"
	"time"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/course"
)

// UnknownCategory labels assignments without a category in the statistics.
const UnknownCategory = "Unknown"

// plannedDays is the window, starting today, of the planned minutes statistic.
const plannedDays = 7

type CourseMinutes struct {
	Course  string `json:"course"`
	Minutes int    `json:"minutes"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats summarizes the workload.
type Stats struct {
	OpenTasks           int `json:"open_tasks"`
	OverdueTasks        int `json:"overdue_tasks"`
	UngradedAssignments int `json:"ungraded_assignments"`
	// PlannedMinutes sums the minutes of open tasks due in the next 7 days (today included) per course label, most first.
	PlannedMinutes []CourseMinutes `json:"planned_minutes"`
	// ByCategory counts assignments per category, most first.
	ByCategory []CategoryCount `json:"by_category"`
}

func Analyze(courses []course.Course, as []course.Assignment, ts []course.Task, today time.Time) Stats {
	today = core.DateOf(today)
	end := core.AddDays(today, plannedDays)
	idx := course.Index(courses)

	var st Stats
	minutes := make(map[string]int)
	for _, t := range ts {
		if t.Done {
			continue
		}
		st.OpenTasks++
		due, ok := core.ParseNullDate(t.DueDate)
		if !ok {
			continue
		}
		if due.Before(today) {
			st.OverdueTasks++
			continue
		}
		if due.Before(end) {
			minutes[course.LabelFor(idx, t.CourseID.String)] += t.Minutes
		}
	}

	categories := make(map[string]int)
	for _, a := range as {
		if !a.IsGraded() {
			st.UngradedAssignments++
		}
		cat := strings.TrimSpace(a.Category)
		if cat == "" {
			cat = UnknownCategory
		}
		categories[cat]++
	}

	st.PlannedMinutes = make([]CourseMinutes, 0, len(minutes))
	for label, m := range minutes {
		st.PlannedMinutes = append(st.PlannedMinutes, CourseMinutes{Course: label, Minutes: m})
	}
	sort.Slice(st.PlannedMinutes, func(i, j int) bool {
		a, b := st.PlannedMinutes[i], st.PlannedMinutes[j]
		if a.Minutes != b.Minutes {
			return a.Minutes > b.Minutes
		}
		return a.Course < b.Course
	})

	st.ByCategory = make([]CategoryCount, 0, len(categories))
	for cat, n := range categories {
		st.ByCategory = append(st.ByCategory, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(st.ByCategory, func(i, j int) bool {
		a, b := st.ByCategory[i], st.ByCategory[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})

	return st
}

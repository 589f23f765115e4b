package planner

import (
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/course"
	"github.com/trezcool/organizer/core/settings"
)

// ReminderCounts counts the open work due before, on and the day after a given day.
// Open work is tasks not done and assignments not graded.
type ReminderCounts struct {
	Overdue  int `json:"overdue"`
	Today    int `json:"today"`
	Tomorrow int `json:"tomorrow"`
}

func (rc ReminderCounts) IsZero() bool {
	return rc == ReminderCounts{}
}

func (rc ReminderCounts) Message() string {
	return fmt.Sprintf("Overdue: %d · Today: %d · Tomorrow: %d", rc.Overdue, rc.Today, rc.Tomorrow)
}

func (rc *ReminderCounts) add(due null.String, today time.Time) {
	d, ok := core.ParseNullDate(due)
	if !ok {
		return
	}
	switch {
	case d.Before(today):
		rc.Overdue++
	case d.Equal(today):
		rc.Today++
	case d.Equal(core.AddDays(today, 1)):
		rc.Tomorrow++
	}
}

// CountReminders counts the open work of `as` and `ts` relative to the calendar date of `today`.
func CountReminders(as []course.Assignment, ts []course.Task, today time.Time) ReminderCounts {
	today = core.DateOf(today)
	var rc ReminderCounts
	for _, t := range ts {
		if !t.Done {
			rc.add(t.DueDate, today)
		}
	}
	for _, a := range as {
		if !a.IsGraded() {
			rc.add(a.DueDate, today)
		}
	}
	return rc
}

// ReminderState remembers the last day reminders were handled.
type ReminderState struct {
	LastShown time.Time `json:"last_shown"`
}

// Reminder is what to show the user, and where.
type Reminder struct {
	Message string
	Toast   bool
	Banner  bool
}

// Remind decides whether to remind the user about `counts` on `today`.
// Reminders are handled at most once per day: a day with nothing due still counts as handled.
// It returns the reminder, whether to show it, and the state to pass on the next call.
func Remind(prefs settings.Notifications, state ReminderState, counts ReminderCounts, today time.Time) (Reminder, bool, ReminderState) {
	today = core.DateOf(today)
	if !prefs.Enabled || state.LastShown.Equal(today) {
		return Reminder{}, false, state
	}
	next := ReminderState{LastShown: today}
	if counts.IsZero() {
		return Reminder{}, false, next
	}
	return Reminder{Message: counts.Message(), Toast: prefs.Toast, Banner: prefs.Banner}, true, next
}

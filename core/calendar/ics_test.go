package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/organizer/core/planner"
	"github.com/trezcool/organizer/tests"
)

func setup(t *testing.T) {
	origNow, origUID := nowFunc, newUIDFunc
	nowFunc = func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.FixedZone("EAT", 3*3600)) }
	newUIDFunc = func() string { return "0123456789abcdef" }
	t.Cleanup(func() { nowFunc, newUIDFunc = origNow, origUID })
}

func TestBuild_empty(t *testing.T) {
	setup(t)

	want := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//Organizer//Organizer//EN\r\n" +
		"X-WR-CALNAME:College Organizer\r\n" +
		"CALSCALE:GREGORIAN\r\n" +
		"END:VCALENDAR\r\n"
	assert.Equal(t, want, Build(nil, ""))
	assert.Equal(t, want, Build([]Event{{Title: "no date"}}, "  "))
}

func TestBuild(t *testing.T) {
	setup(t)

	events := []Event{
		{Title: "Assignment: Essay, draft; v2 \\ final\nnotes · History", Date: time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC)},
		{Title: "Task: review", Date: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), UID: "fixed@example"},
		{Date: time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)},
	}
	got := Build(events, "Fall; Term")

	want := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//Organizer//Organizer//EN\r\n" +
		"X-WR-CALNAME:Fall\\; Term\r\n" +
		"CALSCALE:GREGORIAN\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:co-20240331-0123456789abcdef@organizer\r\n" +
		"DTSTAMP:20240305T110709Z\r\n" +
		"DTSTART;VALUE=DATE:20240331\r\n" +
		"DTEND;VALUE=DATE:20240401\r\n" +
		"SUMMARY:Assignment: Essay\\, draft\\; v2 \\\\ final\\nnotes · History\r\n" +
		"END:VEVENT\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:fixed@example\r\n" +
		"DTSTAMP:20240305T110709Z\r\n" +
		"DTSTART;VALUE=DATE:20241231\r\n" +
		"DTEND;VALUE=DATE:20250101\r\n" +
		"SUMMARY:Task: review\r\n" +
		"END:VEVENT\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:co-20240228-0123456789abcdef@organizer\r\n" +
		"DTSTAMP:20240305T110709Z\r\n" +
		"DTSTART;VALUE=DATE:20240228\r\n" +
		"DTEND;VALUE=DATE:20240229\r\n" +
		"SUMMARY:Event\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	assert.Equal(t, want, got)
}

func TestBuild_folding(t *testing.T) {
	setup(t)

	title := strings.Repeat("é", 100) // 200 octets
	got := Build([]Event{{Title: title, Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), UID: "u"}}, "")

	var summary []string
	for _, line := range strings.Split(strings.TrimSuffix(got, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 75, line)
		if strings.HasPrefix(line, "SUMMARY:") || len(summary) > 0 && strings.HasPrefix(line, " ") {
			summary = append(summary, line)
		}
	}
	if len(summary) < 2 {
		t.Fatalf("SUMMARY not folded: %q", summary)
	}
	unfolded := summary[0]
	for _, cont := range summary[1:] {
		unfolded += strings.TrimPrefix(cont, " ")
	}
	assert.Equal(t, "SUMMARY:"+title, unfolded)
}

func TestEventsFromFeed(t *testing.T) {
	items := planner.BuildFeed(testutil.Assignments(), testutil.Tasks(), testutil.Courses())
	items = append(items, planner.FeedItem{Kind: planner.KindTask, Title: "undated"})

	events := EventsFromFeed(items)
	assert.Len(t, events, 7)
	assert.Equal(t, Event{Title: "Assignment: essay · History", Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)}, events[0])
	assert.Equal(t, "Task: Buy supplies · General", events[1].Title)
	assert.Equal(t, "Assignment: Ghost · Unknown course", events[6].Title)

	assert.Empty(t, EventsFromFeed(nil))
}

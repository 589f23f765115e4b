// Package calendar serializes due dates into an iCalendar (RFC 5545) document of whole-day events.
package calendar

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/organizer/core/planner"
)

// DefaultName is the calendar name used when none is given.
const DefaultName = "College Organizer"

const (
	prodID    = "-//Organizer//Organizer//EN"
	uidDomain = "organizer"

	crlf = "\r\n"
	// maxLineOctets is the longest content line allowed before folding, CRLF excluded.
	maxLineOctets = 75

	dateLayout  = "20060102"
	stampLayout = "20060102T150405Z"
)

// mockable funcs
var (
	nowFunc    = time.Now
	newUIDFunc = func() string { return strings.ReplaceAll(uuid.New().String(), "-", "") }
)

// Event is a whole-day event. UID is generated when empty.
type Event struct {
	Title string
	Date  time.Time
	UID   string
}

// Build renders `events` as an iCalendar document. Events without a date are skipped;
// a document without events is still complete.
func Build(events []Event, calendarName string) string {
	if strings.TrimSpace(calendarName) == "" {
		calendarName = DefaultName
	}
	stamp := nowFunc().UTC().Format(stampLayout)

	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+prodID)
	writeLine(&b, "X-WR-CALNAME:"+escape(calendarName))
	writeLine(&b, "CALSCALE:GREGORIAN")

	for _, e := range events {
		if e.Date.IsZero() {
			continue
		}
		y, m, d := e.Date.Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		title := e.Title
		if strings.TrimSpace(title) == "" {
			title = "Event"
		}
		uid := e.UID
		if uid == "" {
			uid = "co-" + start.Format(dateLayout) + "-" + newUIDFunc() + "@" + uidDomain
		}

		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, "UID:"+uid)
		writeLine(&b, "DTSTAMP:"+stamp)
		writeLine(&b, "DTSTART;VALUE=DATE:"+start.Format(dateLayout))
		writeLine(&b, "DTEND;VALUE=DATE:"+start.AddDate(0, 0, 1).Format(dateLayout))
		writeLine(&b, "SUMMARY:"+escape(title))
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

var textEscaper = strings.NewReplacer(`\`, `\\`, ",", `\,`, ";", `\;`, "\r\n", `\n`, "\n", `\n`, "\r", `\n`)

// escape escapes TEXT values: backslash, comma, semicolon and line breaks.
func escape(s string) string {
	return textEscaper.Replace(s)
}

// writeLine writes a content line, folded into lines of at most 75 octets without splitting UTF-8 sequences.
func writeLine(b *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit
		}
		b.WriteString(line[:cut])
		b.WriteString(crlf)
		b.WriteByte(' ')
		line = line[cut:]
		// continuation lines start with a space
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString(crlf)
}

func isRuneStart(c byte) bool {
	return c&0xC0 != 0x80
}

// EventsFromFeed turns feed items into events titled "<Kind>: <title> · <course label>".
func EventsFromFeed(items []planner.FeedItem) []Event {
	events := make([]Event, 0, len(items))
	for _, it := range items {
		if it.Due.IsZero() {
			continue
		}
		title := it.Title
		if strings.TrimSpace(title) == "" {
			title = "(Untitled)"
		}
		switch it.Kind {
		case planner.KindAssignment:
			title = "Assignment: " + title
		case planner.KindTask:
			title = "Task: " + title
		}
		events = append(events, Event{Title: title + " · " + it.CourseLabel, Date: it.Due})
	}
	return events
}

// Package export writes feeds and grade reports as CSV files or as an Excel workbook.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/grading"
	"github.com/trezcool/organizer/core/planner"
	"github.com/trezcool/organizer/core/settings"
)

// Formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var (
	FeedHeader   = []string{"date", "kind", "title", "course", "category", "status", "minutes", "priority"}
	GradesHeader = []string{"course_id", "course", "credits", "grade", "letter", "points"}
)

// Report is everything the workbook holds.
type Report struct {
	Profile     settings.Profile
	TermGPA     null.Float64
	Feed        []planner.FeedItem
	Grades      []grading.CourseReport
	GeneratedAt time.Time
}

func feedRow(it planner.FeedItem) []interface{} {
	status := "open"
	if it.Done {
		status = "done"
	}
	var minutes, priority interface{} = "", ""
	if it.Kind == planner.KindTask {
		minutes, priority = it.Minutes, it.Priority
	}
	return []interface{}{it.DueDate(), it.Kind, it.Title, it.CourseLabel, it.Category, status, minutes, priority}
}

func gradeRow(r grading.CourseReport) []interface{} {
	return []interface{}{r.CourseID, r.Label, r.Credits, nullable(r.Grade), nullString(r.Letter), nullable(r.Points)}
}

// nullable renders an invalid value as an empty cell.
func nullable(f null.Float64) interface{} {
	if !f.Valid {
		return ""
	}
	return f.Float64
}

func nullString(s null.String) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch x := v.(type) {
		case string:
			out[i] = x
		case int:
			out[i] = strconv.Itoa(x)
		case float64:
			out[i] = strconv.FormatFloat(core.Round(x, 2), 'f', -1, 64)
		}
	}
	return out
}

func writeCSV(w io.Writer, header []string, rows [][]interface{}) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, row := range rows {
		if err := cw.Write(toStrings(row)); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

// WriteFeedCSV writes `items` in feed order, one row per item.
func WriteFeedCSV(w io.Writer, items []planner.FeedItem) error {
	rows := make([][]interface{}, 0, len(items))
	for _, it := range items {
		rows = append(rows, feedRow(it))
	}
	return writeCSV(w, FeedHeader, rows)
}

// WriteGradesCSV writes one row per course; courses without a grade get empty grade cells.
func WriteGradesCSV(w io.Writer, reports []grading.CourseReport) error {
	rows := make([][]interface{}, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, gradeRow(r))
	}
	return writeCSV(w, GradesHeader, rows)
}

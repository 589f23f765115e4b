// Package importer merges courses, assignments and tasks read from CSV files into a snapshot.
package importer

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/course"
	"github.com/trezcool/organizer/storage/snapshot"
)

// Import modes
const (
	// ModeMerge adds the imported records; a course replaces the one with the same id.
	ModeMerge = "merge"
	// ModeReplace drops the stored records of every collection that is imported.
	ModeReplace = "replace"
)

var Modes = []string{ModeMerge, ModeReplace}

// Sources are the CSV files to import, each with a header row. A nil source is not imported.
type Sources struct {
	Courses     io.Reader
	Assignments io.Reader
	Tasks       io.Reader
}

// Result counts the imported records.
type Result struct {
	Courses     int
	Assignments int
	Tasks       int
	// CreatedCourses are the courses created for unknown course codes.
	CreatedCourses int
}

// dueLayouts are the due date formats understood on import; they are stored as YYYY-MM-DD.
var dueLayouts = []string{core.DateLayout, "2006/01/02", "1/2/2006", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

// Import returns a copy of `data` holding the records of `src`. Rows go through course.Normalize*,
// so missing or malformed cells get the same defaults as stored records. Courses without a
// grading scheme get course.DefaultScheme. Assignment and task rows refer to their course by
// course_id, or by course_code (case-insensitive); an unknown code creates an "Imported CODE" course.
func Import(data snapshot.Data, src Sources, mode string, now time.Time) (snapshot.Data, Result, error) {
	var res Result
	switch mode {
	case ModeMerge, ModeReplace:
	default:
		return data, res, core.NewArgumentError("invalid import mode " + mode)
	}

	courseRows, err := readRows(src.Courses, "courses")
	if err != nil {
		return data, res, err
	}
	assignmentRows, err := readRows(src.Assignments, "assignments")
	if err != nil {
		return data, res, err
	}
	taskRows, err := readRows(src.Tasks, "tasks")
	if err != nil {
		return data, res, err
	}

	data.Courses = append([]course.Course(nil), data.Courses...)
	data.Assignments = append([]course.Assignment(nil), data.Assignments...)
	data.Tasks = append([]course.Task(nil), data.Tasks...)
	if mode == ModeReplace {
		if src.Courses != nil {
			data.Courses = nil
		}
		if src.Assignments != nil {
			data.Assignments = nil
		}
		if src.Tasks != nil {
			data.Tasks = nil
		}
	}

	for _, r := range courseRows {
		data.Courses = putCourse(data.Courses, importCourse(r))
		res.Courses++
	}

	codes := codeMap(data.Courses)
	courseFor := func(r row) string {
		if cid := r.get("course_id"); cid != "" {
			return cid
		}
		code := strings.ToUpper(r.get("course_code", "code"))
		if code == "" {
			return ""
		}
		if cid, ok := codes[code]; ok {
			return cid
		}
		c := withDefaultScheme(course.NormalizeCourse(course.RawCourse{Name: "Imported " + code, Code: code}))
		data.Courses = append(data.Courses, c)
		codes[code] = c.ID
		res.CreatedCourses++
		return c.ID
	}

	for _, r := range assignmentRows {
		data.Assignments = append(data.Assignments, importAssignment(r, courseFor(r)))
		res.Assignments++
	}
	for _, r := range taskRows {
		data.Tasks = append(data.Tasks, importTask(r, courseFor(r), now))
		res.Tasks++
	}
	return data, res, nil
}

// row is a CSV record keyed by lower-cased header; blank cells are left out.
type row map[string]string

// get returns the first non-blank cell among `keys`.
func (r row) get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r[k]); v != "" {
			return v
		}
	}
	return ""
}

// value is get as a stored value: nil when blank.
func (r row) value(keys ...string) interface{} {
	if v := r.get(keys...); v != "" {
		return v
	}
	return nil
}

func readRows(src io.Reader, name string) ([]row, error) {
	if src == nil {
		return nil, nil
	}
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s header", name)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}

	var rows []row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", name)
		}
		r := make(row, len(header))
		for i, cell := range record {
			if i < len(header) && header[i] != "" && strings.TrimSpace(cell) != "" {
				r[header[i]] = cell
			}
		}
		if len(r) > 0 {
			rows = append(rows, r)
		}
	}
}

func importCourse(r row) course.Course {
	name, code := r.get("name", "course name", "course"), r.get("code", "course_code")
	if name == "" {
		name = "Imported course"
	}
	if code == "" {
		code = "IMPORTED"
	}
	raw := course.RawCourse{
		CourseID: r.value("course_id", "id"),
		Name:     name,
		Code:     code,
		Credits:  r.value("credits"),
	}
	if scheme := r.get("grading_scheme"); scheme != "" {
		_ = json.Unmarshal([]byte(scheme), &raw.GradingScheme)
	}
	if bands := r.get("letter_scale"); bands != "" {
		_ = json.Unmarshal([]byte(bands), &raw.LetterScale)
	}
	return withDefaultScheme(course.NormalizeCourse(raw))
}

func withDefaultScheme(c course.Course) course.Course {
	if len(c.GradingScheme) == 0 {
		c.GradingScheme = make(map[string]float64, len(course.DefaultScheme))
		for cat, w := range course.DefaultScheme {
			c.GradingScheme[cat] = w
		}
	}
	return c
}

// putCourse replaces the course with the same id in place, or appends `c`.
func putCourse(courses []course.Course, c course.Course) []course.Course {
	for i := range courses {
		if courses[i].ID == c.ID {
			courses[i] = c
			return courses
		}
	}
	return append(courses, c)
}

// codeMap indexes course ids by upper-cased code; the last course with a code wins.
func codeMap(courses []course.Course) map[string]string {
	m := make(map[string]string, len(courses))
	for _, c := range courses {
		if code := strings.ToUpper(strings.TrimSpace(c.Code)); code != "" {
			m[code] = c.ID
		}
	}
	return m
}

func importAssignment(r row, courseID string) course.Assignment {
	a := course.NormalizeAssignment(course.RawAssignment{
		ID:           r.value("id", "assignment_id"),
		CourseID:     courseID,
		Title:        r.get("title"),
		Category:     r.get("category"),
		DueDate:      dueDate(r.get("due_date")),
		PointsTotal:  r.value("points_total", "points_possible"),
		PointsEarned: r.value("points_earned"),
		IsCompleted:  r.value("is_completed"),
	})
	if a.Title == "" {
		a.Title = "Untitled"
	}
	if a.Category == "" {
		a.Category = "Homework"
	}
	if a.PointsEarned.Valid {
		a.Completed = true
	}
	return a
}

func importTask(r row, courseID string, now time.Time) course.Task {
	t := course.NormalizeTask(course.RawTask{
		ID:        r.value("id", "task_id"),
		CourseID:  courseID,
		Title:     r.get("title"),
		DueDate:   dueDate(r.get("due_date")),
		Minutes:   r.value("minutes"),
		Priority:  r.value("priority"),
		Done:      r.value("done"),
		CreatedAt: r.value("created_at"),
	})
	if t.Title == "" {
		t.Title = "Task"
	}
	if !t.CreatedAt.Valid {
		t.CreatedAt.SetValid(now.UTC())
	}
	return t
}

// dueDate converts a due date cell to YYYY-MM-DD; unreadable dates are dropped.
func dueDate(s string) interface{} {
	if s == "" {
		return nil
	}
	for _, layout := range dueLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return core.FormatDate(d)
		}
	}
	return nil
}

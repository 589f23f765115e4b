package course

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/scale"
)

// Raw records are what storage and CSV adapters hand over: every field optional, numbers possibly
// encoded as strings. Normalize* turn them into well-formed records; normalization never fails.
type (
	RawBand struct {
		Letter interface{} `json:"letter"`
		Min    interface{} `json:"min"`
		Max    interface{} `json:"max"`
	}

	// RawBands skips rows that are not objects; a scale that is not a list has no rows.
	RawBands []RawBand

	// RawScheme maps a category onto its stored weight; a scheme that is not an object is empty.
	RawScheme map[string]interface{}

	RawCourse struct {
		CourseID      interface{} `json:"course_id"`
		ID            interface{} `json:"id"`
		Name          interface{} `json:"name"`
		Code          interface{} `json:"code"`
		Credits       interface{} `json:"credits"`
		GradingScheme RawScheme   `json:"grading_scheme"`
		LetterScale   RawBands    `json:"letter_scale"`
	}

	RawAssignment struct {
		ID             interface{} `json:"id"`
		CourseID       interface{} `json:"course_id"`
		Title          interface{} `json:"title"`
		Category       interface{} `json:"category"`
		DueDate        interface{} `json:"due_date"`
		PointsTotal    interface{} `json:"points_total"`
		PointsPossible interface{} `json:"points_possible"` // legacy name of points_total
		PointsEarned   interface{} `json:"points_earned"`
		IsCompleted    interface{} `json:"is_completed"`
	}

	RawTask struct {
		ID                 interface{} `json:"id"`
		CourseID           interface{} `json:"course_id"`
		Title              interface{} `json:"title"`
		DueDate            interface{} `json:"due_date"`
		Minutes            interface{} `json:"minutes"`
		Priority           interface{} `json:"priority"`
		Done               interface{} `json:"done"`
		SourceAssignmentID interface{} `json:"source_assignment_id"`
		CreatedAt          interface{} `json:"created_at"`
	}
)

func (rows *RawBands) UnmarshalJSON(data []byte) error {
	*rows = nil
	core.DecodeRows(data, func(item json.RawMessage) error {
		var row RawBand
		if err := json.Unmarshal(item, &row); err != nil {
			return err
		}
		*rows = append(*rows, row)
		return nil
	})
	return nil
}

func (scheme *RawScheme) UnmarshalJSON(data []byte) error {
	var weights map[string]interface{}
	if err := json.Unmarshal(data, &weights); err != nil {
		weights = nil
	}
	*scheme = weights
	return nil
}

// NormalizeBands converts stored bands, dropping rows whose bounds are unparseable.
func NormalizeBands(rows []RawBand) []scale.Band {
	bands := make([]scale.Band, 0, len(rows))
	for _, row := range rows {
		lo, okLo := core.ParseFloat(row.Min)
		hi, okHi := core.ParseFloat(row.Max)
		if !okLo || !okHi {
			continue
		}
		bands = append(bands, scale.Band{Letter: stringOf(row.Letter), Min: lo, Max: hi})
	}
	return scale.Normalize(bands)
}

func NormalizeCourse(raw RawCourse) Course {
	c := Course{
		ID:            stringOf(raw.CourseID),
		Name:          "Untitled course",
		Code:          stringOf(raw.Code),
		Credits:       3,
		GradingScheme: make(map[string]float64, len(raw.GradingScheme)),
		LetterScale:   NormalizeBands(raw.LetterScale),
	}
	if c.ID == "" {
		c.ID = stringOf(raw.ID)
	}
	if c.ID == "" {
		c.ID = core.NewID("course")
	}
	if name, ok := textOf(raw.Name); ok {
		c.Name = strings.TrimSpace(name)
	}
	if raw.Credits != nil {
		c.Credits = core.FloatOr(raw.Credits, 0)
	}
	for cat, w := range raw.GradingScheme {
		c.GradingScheme[cat] = core.FloatOr(w, 0)
	}
	return c
}

func NormalizeAssignment(raw RawAssignment) Assignment {
	a := Assignment{
		ID:           stringOf(raw.ID),
		CourseID:     stringOf(raw.CourseID),
		Title:        "Untitled assignment",
		Category:     stringOf(raw.Category),
		PointsTotal:  core.NullFloat(raw.PointsTotal),
		PointsEarned: core.NullFloat(raw.PointsEarned),
		DueDate:      dateStringOf(raw.DueDate),
		Completed:    boolOf(raw.IsCompleted),
	}
	if a.ID == "" {
		a.ID = core.NewID("asg")
	}
	if title, ok := textOf(raw.Title); ok {
		a.Title = title
	}
	if raw.PointsTotal == nil && raw.PointsPossible != nil {
		a.PointsTotal = core.NullFloat(raw.PointsPossible)
	}
	return a
}

func NormalizeTask(raw RawTask) Task {
	t := Task{
		ID:                 stringOf(raw.ID),
		Title:              "Untitled task",
		DueDate:            dateStringOf(raw.DueDate),
		Minutes:            int(core.FloatOr(raw.Minutes, 0)),
		Priority:           normalizePriority(stringOf(raw.Priority)),
		Done:               boolOf(raw.Done),
		SourceAssignmentID: stringOf(raw.SourceAssignmentID),
		CreatedAt:          timeOf(raw.CreatedAt),
	}
	if t.ID == "" {
		t.ID = core.NewID("task")
	}
	if cid := stringOf(raw.CourseID); cid != "" {
		t.CourseID = null.StringFrom(cid)
	}
	if title, ok := textOf(raw.Title); ok {
		t.Title = title
	}
	if t.Minutes < 0 {
		t.Minutes = 0
	}
	return t
}

func normalizePriority(p string) string {
	for _, prio := range Priorities {
		if strings.EqualFold(p, prio) {
			return prio
		}
	}
	return PriorityMedium
}

// stringOf renders scalar JSON values as trimmed strings; nil is "".
func stringOf(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// textOf renders a stored text field: strings as given, numbers and booleans as text.
// Absent values, lists and objects are not text.
func textOf(v interface{}) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64, bool:
		return stringOf(x), true
	default:
		return "", false
	}
}

// dateStringOf keeps due dates as entered (trimmed) so that invalid ones stay in storage.
func dateStringOf(v interface{}) null.String {
	s := stringOf(v)
	return null.NewString(s, s != "")
}

func boolOf(v interface{}) bool {
	return core.BoolOr(v, false)
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05", core.DateLayout}

func timeOf(v interface{}) null.Time {
	s := stringOf(v)
	if s == "" {
		return null.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return null.TimeFrom(t.UTC())
		}
	}
	return null.Time{}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

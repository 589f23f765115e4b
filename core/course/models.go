package course

import (
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/scale"
)

// Labels used when a due-dated record cannot be tied to an existing course.
const (
	LabelGeneral = "General"
	LabelUnknown = "Unknown course"
)

// Task priorities
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

var (
	Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

	// DefaultScheme is given to imported courses that come without a grading scheme.
	DefaultScheme = map[string]float64{
		"Homework":       25,
		"Quizzes":        20,
		"Practice Tests": 20,
		"Participation":  10,
		"Final Exam":     25,
	}
)

type Course struct {
	ID      string  `json:"course_id" validate:"notblank"`
	Name    string  `json:"name" validate:"notblank"`
	Code    string  `json:"code"`
	Credits float64 `json:"credits" validate:"gte=0"`
	// GradingScheme maps a category onto its weight. Weights need not sum to 100.
	GradingScheme map[string]float64 `json:"grading_scheme" validate:"dive,keys,notblank,endkeys,gte=0"`
	// LetterScale overrides the settings' letter scale when not empty.
	LetterScale []scale.Band `json:"letter_scale" validate:"dive"`
}

// Label renders the course as "Name (CODE)", or just its name without a code.
func (c Course) Label() string {
	name := strings.TrimSpace(c.Name)
	code := strings.TrimSpace(c.Code)
	if code == "" {
		return name
	}
	return name + " (" + code + ")"
}

// Categories returns the course's grading categories, sorted.
func (c Course) Categories() []string {
	return sortedKeys(c.GradingScheme)
}

func (c Course) Validate() error { return core.ValidateStruct(c) }

type Assignment struct {
	ID           string       `json:"id" validate:"notblank"`
	CourseID     string       `json:"course_id"`
	Title        string       `json:"title"`
	Category     string       `json:"category"`
	PointsTotal  null.Float64 `json:"points_total" validate:"omitempty,gt=0"`
	PointsEarned null.Float64 `json:"points_earned" validate:"omitempty,gte=0"`
	DueDate      null.String  `json:"due_date" validate:"omitempty,isodate"`
	Completed    bool         `json:"is_completed"`
}

// IsGraded reports whether points were earned, i.e. the assignment got a score.
func (a Assignment) IsGraded() bool {
	return a.PointsEarned.Valid
}

// IsScored reports whether the assignment counts towards a grade: earned points over a positive total.
func (a Assignment) IsScored() bool {
	return a.PointsEarned.Valid && a.PointsTotal.Valid && a.PointsTotal.Float64 > 0
}

func (a Assignment) Validate() error { return core.ValidateStruct(a) }

type Task struct {
	ID                 string      `json:"id" validate:"notblank"`
	CourseID           null.String `json:"course_id"`
	Title              string      `json:"title"`
	DueDate            null.String `json:"due_date" validate:"omitempty,isodate"`
	Minutes            int         `json:"minutes" validate:"gte=0"`
	Priority           string      `json:"priority" validate:"priority"`
	Done               bool        `json:"done"`
	SourceAssignmentID string      `json:"source_assignment_id,omitempty"`
	CreatedAt          null.Time   `json:"created_at"`
}

func (t Task) Validate() error { return core.ValidateStruct(t) }

// Index maps courses by ID.
func Index(courses []Course) map[string]Course {
	idx := make(map[string]Course, len(courses))
	for _, c := range courses {
		idx[c.ID] = c
	}
	return idx
}

// LabelFor resolves the label of the course `id` points to:
// LabelGeneral without an id, LabelUnknown when the course no longer exists.
func LabelFor(courses map[string]Course, id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return LabelGeneral
	}
	c, ok := courses[id]
	if !ok {
		return LabelUnknown
	}
	return c.Label()
}

// AssignmentsFor returns the assignments belonging to `courseID`, in input order.
func AssignmentsFor(assignments []Assignment, courseID string) []Assignment {
	out := make([]Assignment, 0)
	for _, a := range assignments {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out
}

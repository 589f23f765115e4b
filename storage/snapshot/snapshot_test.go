package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/course"
	"github.com/trezcool/organizer/core/grading"
	"github.com/trezcool/organizer/core/scale"
	"github.com/trezcool/organizer/core/settings"
	"github.com/trezcool/organizer/tests"
)

const fixture = `{
	"username": "amani",
	"courses": {
		"c2": {"course_id": "c2", "name": "History", "credits": 4, "grading_scheme": {"Essays": 100}},
		"c1": {"name": "Calculus", "code": "MATH101", "credits": "3", "grading_scheme": {"Homework": 40, "Final Exam": "60"}}
	},
	"assignments": [
		{"id": "a1", "course_id": "c1", "title": "Problem Set", "category": "Homework", "due_date": "2024-03-05", "points_possible": 20},
		{"id": "a2", "course_id": "c1", "category": "Homework", "points_total": 10, "points_earned": "9", "is_completed": "true"}
	],
	"tasks": [
		{"id": "t1", "course_id": "c1", "title": "review", "due_date": " 2024-03-05 ", "minutes": "30", "priority": "high", "done": 0}
	],
	"settings": {"notify_toast": false, "gpa_system": {"preset": "4.3"}},
	"profile": {"major": " Math ", "target_gpa": "3.7"}
}`

func TestDecode(t *testing.T) {
	data, err := Decode(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	// object form: sorted by key, key used as id
	if assert.Len(t, data.Courses, 2) {
		c1, c2 := data.Courses[0], data.Courses[1]
		assert.Equal(t, "c1", c1.ID)
		assert.Equal(t, "Calculus (MATH101)", c1.Label())
		assert.Equal(t, 3.0, c1.Credits)
		assert.Equal(t, map[string]float64{"Homework": 40, "Final Exam": 60}, c1.GradingScheme)
		assert.Equal(t, "c2", c2.ID)
		assert.Equal(t, 4.0, c2.Credits)
	}

	if assert.Len(t, data.Assignments, 2) {
		a1, a2 := data.Assignments[0], data.Assignments[1]
		assert.Equal(t, null.Float64From(20), a1.PointsTotal)
		assert.Equal(t, null.StringFrom("2024-03-05"), a1.DueDate)
		assert.Equal(t, "Untitled assignment", a2.Title)
		assert.Equal(t, null.Float64From(9), a2.PointsEarned)
		assert.True(t, a2.Completed)
	}

	if assert.Len(t, data.Tasks, 1) {
		t1 := data.Tasks[0]
		assert.Equal(t, null.StringFrom("c1"), t1.CourseID)
		assert.Equal(t, null.StringFrom("2024-03-05"), t1.DueDate)
		assert.Equal(t, 30, t1.Minutes)
		assert.Equal(t, course.PriorityHigh, t1.Priority)
		assert.False(t, t1.Done)
	}

	assert.Equal(t, grading.Preset43, data.Settings.GPASystem.Preset)
	assert.Equal(t, settings.Notifications{Enabled: true, Toast: false, Banner: true}, data.Settings.Notifications)
	assert.Equal(t, settings.Profile{Username: "amani", Major: "Math", TargetGPA: 3.7}, data.Profile)
}

func TestDecode_coursesList(t *testing.T) {
	data, err := Decode(strings.NewReader(`{"courses": [{"id": "x", "name": "Art"}, {"name": null}]}`))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if assert.Len(t, data.Courses, 2) {
		assert.Equal(t, "x", data.Courses[0].ID)
		assert.Equal(t, 3.0, data.Courses[0].Credits)
		assert.Equal(t, "Untitled course", data.Courses[1].Name)
		assert.True(t, strings.HasPrefix(data.Courses[1].ID, "course_"))
	}
}

func TestDecode_empty(t *testing.T) {
	for _, in := range []string{"", "{}", `{"courses": null}`} {
		data, err := Decode(strings.NewReader(in))
		if assert.NoError(t, err, in) {
			assert.Empty(t, data.Courses)
			assert.Empty(t, data.Assignments)
			assert.Empty(t, data.Tasks)
			assert.Equal(t, settings.Default(), data.Settings)
			assert.Equal(t, settings.DefaultTargetGPA, data.Profile.TargetGPA)
		}
	}
}

func TestDecode_errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "lol"},
		{name: "truncated", data: `{"courses": [`},
		{name: "list", data: `[{"courses": []}]`},
		{name: "text", data: `"amani"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDecode_mistyped(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		check func(t *testing.T, data Data)
	}{
		{
			name: "gpa system as text",
			data: `{"settings": {"gpa_system": "4.3"}}`,
			check: func(t *testing.T, data Data) {
				assert.Equal(t, grading.DefaultSystem(grading.Preset40), data.Settings.GPASystem)
			},
		},
		{
			name: "letter points row as text",
			data: `{"settings": {"gpa_system": {"preset": "4.3", "max_gpa": 4.3, "letter_points": ["A+", {"letter": "A+", "points": 4.3}]}}}`,
			check: func(t *testing.T, data Data) {
				assert.Equal(t, []grading.LetterPoints{{Letter: "A+", Points: 4.3}}, data.Settings.GPASystem.LetterPoints)
			},
		},
		{
			name: "letter scale as text",
			data: `{"settings": {"letter_scale": "A: 90-100"}, "courses": [{"id": "c1", "letter_scale": "A: 90-100"}]}`,
			check: func(t *testing.T, data Data) {
				assert.Empty(t, data.Settings.LetterScale)
				assert.Equal(t, scale.Default, data.Settings.EffectiveScale())
				if assert.Len(t, data.Courses, 1) {
					assert.Empty(t, data.Courses[0].LetterScale)
				}
			},
		},
		{
			name: "settings and profile as text",
			data: `{"username": "amani", "settings": "dark", "profile": "student"}`,
			check: func(t *testing.T, data Data) {
				assert.Equal(t, settings.Default(), data.Settings)
				assert.Equal(t, settings.Profile{Username: "amani", TargetGPA: settings.DefaultTargetGPA}, data.Profile)
			},
		},
		{
			name: "numeric names and titles",
			data: `{"courses": {"c1": {"name": 101, "grading_scheme": "Homework"}}, "assignments": [{"id": "a1", "title": 2}], "tasks": [{"id": "t1", "title": false}]}`,
			check: func(t *testing.T, data Data) {
				if assert.Len(t, data.Courses, 1) {
					assert.Equal(t, course.Course{ID: "c1", Name: "101", Credits: 3, GradingScheme: map[string]float64{}, LetterScale: []scale.Band{}}, data.Courses[0])
				}
				if assert.Len(t, data.Assignments, 1) {
					assert.Equal(t, "2", data.Assignments[0].Title)
				}
				if assert.Len(t, data.Tasks, 1) {
					assert.Equal(t, "false", data.Tasks[0].Title)
				}
			},
		},
		{
			name: "records that are not objects",
			data: `{"courses": {"c1": {"name": "Art"}, "c2": "History"}, "assignments": [1, {"id": "a1"}, "a2"], "tasks": ["t1", null]}`,
			check: func(t *testing.T, data Data) {
				assert.Len(t, data.Courses, 1)
				assert.Len(t, data.Assignments, 1)
				// null reads as an empty task
				assert.Len(t, data.Tasks, 1)
				assert.Equal(t, 4, data.Skipped)
			},
		},
		{
			name: "collections of the wrong shape",
			data: `{"username": 7, "courses": 3, "assignments": {"a1": {}}, "tasks": "none"}`,
			check: func(t *testing.T, data Data) {
				assert.Empty(t, data.Courses)
				assert.Empty(t, data.Assignments)
				assert.Empty(t, data.Tasks)
				assert.Equal(t, "", data.Profile.Username)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Decode(strings.NewReader(tt.data))
			if assert.NoError(t, err) {
				tt.check(t, data)
			}
		})
	}
}

func TestData_Validate(t *testing.T) {
	data, err := Decode(strings.NewReader(fixture))
	if assert.NoError(t, err) {
		assert.Empty(t, data.Validate())
	}

	data, err = Decode(strings.NewReader(`{
		"courses": [{"course_id": "c1", "name": " ", "credits": -1}],
		"assignments": [{"id": "a1", "due_date": "tomorrow"}, 3],
		"tasks": ["t1"]
	}`))
	if !assert.NoError(t, err) {
		return
	}
	errs := data.Validate()
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	assert.Equal(t, []string{
		"2 stored record(s) are not objects and were skipped",
		`course "c1": name: this field cannot be blank; credits: credits must be 0 or greater`,
		`assignment "a1": due_date: must be a date formatted as YYYY-MM-DD`,
	}, msgs)
	assert.False(t, core.IsValidationError(errs[0]))
	assert.True(t, core.IsValidationError(errs[1]))
	assert.True(t, core.IsValidationError(errs[2]))
}

func TestEncode(t *testing.T) {
	data, err := Decode(strings.NewReader(fixture))
	if !assert.NoError(t, err) {
		return
	}
	data.Tasks[0].CreatedAt = null.TimeFrom(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	if err := Encode(&buf, data); err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	got, err := Decode(&buf)
	if assert.NoError(t, err) {
		assert.Equal(t, data, got)
	}

	buf.Reset()
	assert.NoError(t, Encode(&buf, Data{Settings: settings.Default()}))
	empty, err := Decode(&buf)
	if assert.NoError(t, err) {
		assert.Empty(t, empty.Courses)
		assert.Equal(t, settings.Default(), empty.Settings)
	}
}

func TestSave(t *testing.T) {
	path := testutil.WriteFile(t, "data.json", fixture)
	data, err := Load(path)
	if !assert.NoError(t, err) {
		return
	}
	data.Tasks = append(data.Tasks, testutil.NewTask("t9", "c2", "outline", "2024-03-08", 20, false))

	assert.NoError(t, Save(path, data))
	saved, err := Load(path)
	if assert.NoError(t, err) {
		assert.Len(t, saved.Tasks, 2)
		assert.Equal(t, "outline", saved.Tasks[1].Title)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	assert.Len(t, entries, 1, "no temporary file left")

	assert.Error(t, Save(filepath.Join(path+".missing", "data.json"), data))
}

func TestLoad(t *testing.T) {
	path := testutil.WriteFile(t, "data.json", fixture)
	data, err := Load(path)
	if assert.NoError(t, err) {
		assert.Len(t, data.Courses, 2)
	}

	_, err = Load(path + ".missing")
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestRepository(t *testing.T) {
	path := testutil.WriteFile(t, "data.json", fixture)
	repo, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	assert.Len(t, repo.Courses(), 2)
	c, err := repo.Course("c2")
	assert.NoError(t, err)
	assert.Equal(t, "History", c.Name)
	_, err = repo.Course("c9")
	assert.Equal(t, ErrCourseNotFound, errors.Cause(err))

	assert.Len(t, repo.Assignments(), 2)
	assert.Len(t, repo.AssignmentsFor("c1"), 2)
	assert.Empty(t, repo.AssignmentsFor("c2"))
	assert.Len(t, repo.Tasks(), 1)
	assert.Equal(t, "amani", repo.Profile().Username)
	assert.False(t, repo.Settings().Notifications.Toast)

	// returned slices are copies
	as := repo.Assignments()
	as[0].Title = "changed"
	assert.Equal(t, "Problem Set", repo.Assignments()[0].Title)

	// failed reload keeps the current snapshot
	assert.Error(t, repo.Reload(path+".missing"))
	assert.Len(t, repo.Courses(), 2)

	other := testutil.WriteFile(t, "other.json", `{"courses": [{"id": "c1", "name": "A"}, {"id": "c1", "name": "B"}]}`)
	assert.NoError(t, repo.Reload(other))
	courses := repo.Courses()
	if assert.Len(t, courses, 1) {
		assert.Equal(t, "B", courses[0].Name)
	}
	assert.Empty(t, repo.Tasks())
	assert.Equal(t, other, repo.Path())

	// refresh reads the last loaded file again
	assert.NoError(t, os.WriteFile(other, []byte(`{"tasks": [{"id": "t5"}], "assignments": [{"id": "a1", "due_date": "soon"}]}`), 0o600))
	assert.NoError(t, repo.Refresh())
	assert.Empty(t, repo.Courses())
	assert.Len(t, repo.Tasks(), 1)
	if problems := repo.Problems(); assert.Len(t, problems, 1) {
		assert.True(t, core.IsValidationError(problems[0]))
	}

	// snapshots are copies
	snap := repo.Snapshot()
	snap.Tasks[0].Title = "changed"
	assert.Equal(t, "Untitled task", repo.Tasks()[0].Title)

	assert.NoError(t, NewRepository(Data{}).Refresh())
}

func TestRepository_concurrentReads(t *testing.T) {
	repo := NewRepository(Data{Courses: testutil.Courses(), Assignments: testutil.Assignments(), Tasks: testutil.Tasks()})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, repo.Courses(), 2)
			assert.Len(t, repo.AssignmentsFor("c1"), 3)
		}()
	}
	wg.Wait()
}

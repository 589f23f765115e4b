// Package snapshot loads the JSON data file of one user into normalized records, and writes it back.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/course"
	"github.com/trezcool/organizer/core/grading"
	"github.com/trezcool/organizer/core/scale"
	"github.com/trezcool/organizer/core/settings"
)

// Data is a normalized snapshot; every record went through course.Normalize*.
type Data struct {
	Courses     []course.Course
	Assignments []course.Assignment
	Tasks       []course.Task
	Settings    settings.Settings
	Profile     settings.Profile
	// Skipped counts the stored records that are not objects and were left out.
	Skipped int
}

type rawData struct {
	Username    interface{}          `json:"username"`
	Courses     json.RawMessage      `json:"courses"`
	Assignments json.RawMessage      `json:"assignments"`
	Tasks       json.RawMessage      `json:"tasks"`
	Settings    *settings.Raw        `json:"settings"`
	Profile     *settings.RawProfile `json:"profile"`
}

// Load reads the snapshot stored at `path`.
func Load(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, errors.Wrap(err, "opening data file")
	}
	defer f.Close()

	data, err := Decode(f)
	if err != nil {
		return Data{}, errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}

// Decode reads a snapshot from `r`. Courses may be stored as a list or as an object keyed by course id.
// An empty input is an empty snapshot with default settings.
// Only malformed JSON, or a top-level value that is not an object, fails: stored values of the wrong
// shape fall back to their defaults and records that are not objects are skipped.
func Decode(r io.Reader) (Data, error) {
	var raw rawData
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return Data{}, errors.Wrap(err, "decoding snapshot")
	}

	username, _ := raw.Username.(string)
	data := Data{
		Courses:     make([]course.Course, 0),
		Assignments: make([]course.Assignment, 0),
		Tasks:       make([]course.Task, 0),
		Settings:    settings.Resolve(raw.Settings),
		Profile:     settings.ResolveProfile(raw.Profile, strings.TrimSpace(username)),
	}

	rawCourses, skipped := decodeCourses(raw.Courses)
	data.Skipped += skipped
	for _, rc := range rawCourses {
		data.Courses = append(data.Courses, course.NormalizeCourse(rc))
	}

	data.Skipped += core.DecodeRows(raw.Assignments, func(item json.RawMessage) error {
		var ra course.RawAssignment
		if err := json.Unmarshal(item, &ra); err != nil {
			return err
		}
		data.Assignments = append(data.Assignments, course.NormalizeAssignment(ra))
		return nil
	})
	data.Skipped += core.DecodeRows(raw.Tasks, func(item json.RawMessage) error {
		var rt course.RawTask
		if err := json.Unmarshal(item, &rt); err != nil {
			return err
		}
		data.Tasks = append(data.Tasks, course.NormalizeTask(rt))
		return nil
	})
	return data, nil
}

// decodeCourses reads courses stored as a list or as an object keyed by course id (sorted by key).
// Anything else holds no course.
func decodeCourses(msg json.RawMessage) (list []course.RawCourse, skipped int) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 {
		return nil, 0
	}

	if msg[0] == '[' {
		skipped = core.DecodeRows(msg, func(item json.RawMessage) error {
			var rc course.RawCourse
			if err := json.Unmarshal(item, &rc); err != nil {
				return err
			}
			list = append(list, rc)
			return nil
		})
		return list, skipped
	}

	var byID map[string]json.RawMessage
	if err := json.Unmarshal(msg, &byID); err != nil {
		return nil, 0
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		var rc course.RawCourse
		if err := json.Unmarshal(byID[id], &rc); err != nil {
			skipped++
			continue
		}
		if rc.CourseID == nil && rc.ID == nil {
			rc.CourseID = id
		}
		list = append(list, rc)
	}
	return list, skipped
}

// Validate checks every record of the snapshot. Invalid records are reported, never dropped:
// the returned errors are *core.ValidationError naming the record and its invalid fields,
// plus one error counting the skipped records.
func (d Data) Validate() []error {
	var errs []error
	if d.Skipped > 0 {
		errs = append(errs, errors.Errorf("%d stored record(s) are not objects and were skipped", d.Skipped))
	}
	check := func(record string, err error) {
		if err != nil {
			errs = append(errs, describe(record, err))
		}
	}
	for _, c := range d.Courses {
		check(fmt.Sprintf("course %q", c.ID), c.Validate())
	}
	for _, a := range d.Assignments {
		check(fmt.Sprintf("assignment %q", a.ID), a.Validate())
	}
	for _, t := range d.Tasks {
		check(fmt.Sprintf("task %q", t.ID), t.Validate())
	}
	check("settings", d.Settings.Validate())
	return errs
}

// describe names `record` and every invalid field in the message of a validation error.
func describe(record string, err error) error {
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	if !ok {
		return errors.Wrap(err, record)
	}
	msgs := make([]string, 0, len(vErr.Fields))
	for _, fe := range vErr.Fields {
		msgs = append(msgs, fe.Field+": "+fe.Error)
	}
	return core.NewValidationError(errors.Errorf("%s: %s", record, strings.Join(msgs, "; ")), vErr.Fields...)
}

// stored shapes, read back by Decode
type (
	storedData struct {
		Username    string              `json:"username"`
		Courses     []course.Course     `json:"courses"`
		Assignments []course.Assignment `json:"assignments"`
		Tasks       []course.Task       `json:"tasks"`
		Settings    storedSettings      `json:"settings"`
		Profile     settings.Profile    `json:"profile"`
	}

	storedSettings struct {
		Version     int            `json:"version"`
		GPASystem   grading.System `json:"gpa_system"`
		LetterScale []scale.Band   `json:"letter_scale"`
		settings.Notifications
	}
)

// Encode writes `data` in the stored shape, courses as a list to keep their order.
func Encode(w io.Writer, data Data) error {
	stored := storedData{
		Username:    data.Profile.Username,
		Courses:     nonNil(data.Courses),
		Assignments: data.Assignments,
		Tasks:       data.Tasks,
		Settings: storedSettings{
			Version:       data.Settings.Version,
			GPASystem:     data.Settings.GPASystem,
			LetterScale:   data.Settings.LetterScale,
			Notifications: data.Settings.Notifications,
		},
		Profile: data.Profile,
	}
	if stored.Assignments == nil {
		stored.Assignments = []course.Assignment{}
	}
	if stored.Tasks == nil {
		stored.Tasks = []course.Task{}
	}
	if stored.Settings.LetterScale == nil {
		stored.Settings.LetterScale = []scale.Band{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(stored), "encoding snapshot")
}

func nonNil(courses []course.Course) []course.Course {
	if courses == nil {
		return []course.Course{}
	}
	return courses
}

// Save writes `data` to `path` through a temporary file, so that a failed write keeps the previous file.
func Save(path string, data Data) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating data file")
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if err := Encode(tmp, data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "writing data file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "replacing data file")
}

package snapshot

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core/course"
	"github.com/trezcool/organizer/core/settings"
)

var ErrCourseNotFound = errors.New("course not found")

type (
	// Repository serves a loaded snapshot. Safe for concurrent use.
	Repository struct {
		mutex   sync.RWMutex
		courses *courseTable
		data    Data
		path    string
	}

	courseTable struct {
		t     map[string]course.Course
		order []string
	}
)

func NewRepository(data Data) *Repository {
	repo := &Repository{
		courses: &courseTable{t: make(map[string]course.Course, len(data.Courses))},
	}
	repo.reset(data)
	return repo
}

// Open loads the snapshot at `path` into a new Repository.
func Open(path string) (*Repository, error) {
	data, err := Load(path)
	if err != nil {
		return nil, err
	}
	repo := NewRepository(data)
	repo.path = path
	return repo, nil
}

func (repo *Repository) reset(data Data) {
	repo.courses.t = make(map[string]course.Course, len(data.Courses))
	repo.courses.order = repo.courses.order[:0]
	for _, c := range data.Courses {
		if _, dup := repo.courses.t[c.ID]; !dup {
			repo.courses.order = append(repo.courses.order, c.ID)
		}
		repo.courses.t[c.ID] = c
	}
	repo.data = data
}

// Reload replaces the served snapshot with the one stored at `path`. On error the current one is kept.
func (repo *Repository) Reload(path string) error {
	data, err := Load(path)
	if err != nil {
		return err
	}
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	repo.reset(data)
	repo.path = path
	return nil
}

// Refresh reloads the file the snapshot was last loaded from. A repository built in memory has nothing to refresh.
func (repo *Repository) Refresh() error {
	repo.mutex.RLock()
	path := repo.path
	repo.mutex.RUnlock()

	if path == "" {
		return nil
	}
	return repo.Reload(path)
}

// Path is the file the snapshot was last loaded from, "" for a repository built in memory.
func (repo *Repository) Path() string {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	return repo.path
}

// Problems validates the served snapshot, see Data.Validate.
func (repo *Repository) Problems() []error {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	return repo.data.Validate()
}

// Snapshot returns a copy of the served snapshot, e.g. to edit and Save it.
func (repo *Repository) Snapshot() Data {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	data := repo.data
	data.Courses = append([]course.Course(nil), repo.data.Courses...)
	data.Assignments = append([]course.Assignment(nil), repo.data.Assignments...)
	data.Tasks = append([]course.Task(nil), repo.data.Tasks...)
	return data
}

// Courses returns the courses in stored order; duplicated ids keep the last record.
func (repo *Repository) Courses() []course.Course {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	courses := make([]course.Course, 0, len(repo.courses.order))
	for _, id := range repo.courses.order {
		courses = append(courses, repo.courses.t[id])
	}
	return courses
}

func (repo *Repository) Course(id string) (course.Course, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if c, ok := repo.courses.t[id]; ok {
		return c, nil
	}
	return course.Course{}, errors.Wrapf(ErrCourseNotFound, "%q", id)
}

func (repo *Repository) Assignments() []course.Assignment {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	return append([]course.Assignment(nil), repo.data.Assignments...)
}

func (repo *Repository) AssignmentsFor(courseID string) []course.Assignment {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	return course.AssignmentsFor(repo.data.Assignments, courseID)
}

func (repo *Repository) Tasks() []course.Task {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	return append([]course.Task(nil), repo.data.Tasks...)
}

func (repo *Repository) Settings() settings.Settings {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	return repo.data.Settings
}

func (repo *Repository) Profile() settings.Profile {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	return repo.data.Profile
}

// Package reminder runs the daily due-date reminder.
package reminder

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/course"
	"github.com/trezcool/organizer/core/planner"
	"github.com/trezcool/organizer/core/settings"
)

var nowFunc = time.Now // mockable

// Source provides the records to remind about; storage/snapshot.Repository is one, and a Refresher too.
type Source interface {
	Assignments() []course.Assignment
	Tasks() []course.Task
	Settings() settings.Settings
	Profile() settings.Profile
}

// Refresher is a Source that can reload its records; the daily check refreshes it first.
type Refresher interface {
	Refresh() error
}

// Scheduler checks once a day whether there is something to remind the user of.
// It holds the reminder state, so a reminder is shown at most once per day.
type Scheduler struct {
	logger core.Logger
	source Source
	at     string
	loc    *time.Location
	cron   *gocron.Scheduler

	mutex    sync.Mutex
	state    planner.ReminderState
	notifyFn func(planner.Reminder)
}

func NewScheduler(logger core.Logger, source Source, conf *core.Config) (*Scheduler, error) {
	err := vala.BeginValidation().Validate(
		vala.IsNotNil(logger, "logger"),
		vala.IsNotNil(source, "source"),
		vala.IsNotNil(conf, "conf"),
	).Check()
	if err != nil {
		return nil, err
	}
	if err := vala.BeginValidation().Validate(vala.StringNotEmpty(conf.ReminderAt, "conf.ReminderAt")).Check(); err != nil {
		return nil, err
	}
	if _, err := time.Parse("15:04", conf.ReminderAt); err != nil {
		return nil, core.NewArgumentError("invalid reminder time " + conf.ReminderAt + ", expected HH:MM")
	}

	loc := conf.Location()
	return &Scheduler{
		logger: logger,
		source: source,
		at:     conf.ReminderAt,
		loc:    loc,
		cron:   gocron.NewScheduler(loc),
	}, nil
}

// OnReminder registers `fn` to receive every reminder shown.
func (s *Scheduler) OnReminder(fn func(planner.Reminder)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.notifyFn = fn
}

func (s *Scheduler) State() planner.ReminderState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// Check counts what is overdue, due today and due tomorrow, and shows a reminder unless one was
// already handled on `today`.
func (s *Scheduler) Check(today time.Time) (planner.Reminder, bool) {
	counts := planner.CountReminders(s.source.Assignments(), s.source.Tasks(), today)
	prefs := s.source.Settings().Notifications

	s.mutex.Lock()
	r, show, state := planner.Remind(prefs, s.state, counts, today)
	s.state = state
	notify := s.notifyFn
	s.mutex.Unlock()

	if !show {
		s.logger.Debug("no reminder", map[string]interface{}{"date": core.FormatDate(today), "counts": counts})
		return r, false
	}
	s.logger.Info(r.Message, map[string]interface{}{"toast": r.Toast, "banner": r.Banner}, s.source.Profile())
	if notify != nil {
		notify(r)
	}
	return r, true
}

func (s *Scheduler) run() {
	if src, ok := s.source.(Refresher); ok {
		if err := src.Refresh(); err != nil {
			s.logger.Warn("refreshing records failed, checking the previous ones", err)
		}
	}
	s.Check(nowFunc().In(s.loc))
}

// Start schedules the daily check at the configured time, without blocking.
func (s *Scheduler) Start() error {
	if _, err := s.cron.Every(1).Day().At(s.at).Do(s.run); err != nil {
		return errors.Wrap(err, "scheduling reminder")
	}
	s.cron.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

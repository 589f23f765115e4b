package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/course"
	"github.com/trezcool/organizer/core/planner"
	"github.com/trezcool/organizer/core/scale"
	"github.com/trezcool/organizer/core/settings"
	"github.com/trezcool/organizer/services/importer"
	"github.com/trezcool/organizer/services/reminder"
)

func (cli *commandLine) scale(args []string) error {
	cmd := cli.newCommand("scale")
	file := cmd.String("file", "", "A letter scale to check, one LETTER:MIN-MAX per line.")
	if err := cmd.parse(args); err != nil {
		return err
	}

	var st settings.Settings
	if *file != "" {
		text, err := os.ReadFile(*file)
		if err != nil {
			return errors.Wrap(err, "reading letter scale")
		}
		if st, err = settings.Default().WithLetterScaleText(string(text)); err != nil {
			return core.NewArgumentError(err.Error())
		}
		if err := st.Validate(); err != nil {
			return err
		}
		if len(st.LetterScale) == 0 {
			fmt.Fprintln(cli.out, "empty scale: the built-in one applies")
		}
	} else {
		repo, err := cli.open(cmd)
		if err != nil {
			return err
		}
		st = repo.Settings()
	}
	_, err := fmt.Fprintln(cli.out, scale.Format(st.EffectiveScale()))
	return err
}

func (cli *commandLine) remind(args []string) error {
	cmd := cli.newCommand("remind")
	watch := cmd.Bool("watch", false, "Keep running and remind once a day at the configured time.")
	if err := cmd.parse(args); err != nil {
		return err
	}
	repo, err := cli.open(cmd)
	if err != nil {
		return err
	}

	sched, err := reminder.NewScheduler(cli.logger, repo, cli.conf)
	if err != nil {
		return err
	}
	sched.OnReminder(func(r planner.Reminder) {
		fmt.Fprintln(cli.out, r.Message)
	})

	if _, shown := sched.Check(cli.today()); !shown && !*watch {
		fmt.Fprintln(cli.out, "Nothing to remind.")
	}
	if !*watch {
		return nil
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()
	cli.logger.Info("reminding daily at " + cli.conf.ReminderAt)
	waitForShutdown()
	return nil
}

func (cli *commandLine) stats(args []string) error {
	cmd := cli.newCommand("stats")
	if err := cmd.parse(args); err != nil {
		return err
	}
	repo, err := cli.open(cmd)
	if err != nil {
		return err
	}

	st := planner.Analyze(repo.Courses(), repo.Assignments(), repo.Tasks(), cli.today())
	fmt.Fprintf(cli.out, "Open tasks: %d\n", st.OpenTasks)
	fmt.Fprintf(cli.out, "Overdue tasks: %d\n", st.OverdueTasks)
	fmt.Fprintf(cli.out, "Ungraded assignments: %d\n", st.UngradedAssignments)

	fmt.Fprintln(cli.out, "\nPlanned minutes, next 7 days:")
	rows := make([][]string, 0, len(st.PlannedMinutes))
	for _, cm := range st.PlannedMinutes {
		rows = append(rows, []string{cm.Course, strconv.Itoa(cm.Minutes)})
	}
	if err := cli.table([]string{"course", "minutes"}, rows); err != nil {
		return err
	}

	fmt.Fprintln(cli.out, "\nAssignments by category:")
	rows = make([][]string, 0, len(st.ByCategory))
	for _, cc := range st.ByCategory {
		rows = append(rows, []string{cc.Category, strconv.Itoa(cc.Count)})
	}
	return cli.table([]string{"category", "count"}, rows)
}

func (cli *commandLine) plan(args []string) error {
	cmd := cli.newCommand("plan")
	minutes := cmd.Int("minutes", cli.conf.DefaultTaskMinutes, "Minutes to plan per task.")
	save := cmd.Bool("save", false, "Add the suggested tasks to the data file.")
	if err := cmd.parse(args); err != nil {
		return err
	}
	if *minutes < 0 {
		return core.NewArgumentError("minutes must be 0 or more")
	}
	repo, err := cli.open(cmd)
	if err != nil {
		return err
	}

	idx := course.Index(repo.Courses())
	tasks := planner.SuggestTasks(repo.Assignments(), repo.Tasks(), *minutes, nowFunc())
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{t.DueDate.String, t.Title, course.LabelFor(idx, t.CourseID.String), strconv.Itoa(t.Minutes)})
	}
	if err := cli.table([]string{"due", "task", "course", "minutes"}, rows); err != nil {
		return err
	}
	if !*save || len(tasks) == 0 {
		return nil
	}

	data := repo.Snapshot()
	data.Tasks = append(data.Tasks, tasks...)
	if err := cli.save(repo.Path(), data); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Saved %d task(s).\n", len(tasks))
	return nil
}

func (cli *commandLine) importCSV(args []string) error {
	cmd := cli.newCommand("import")
	coursesFile := cmd.String("courses", "", "A courses CSV file.")
	assignmentsFile := cmd.String("assignments", "", "An assignments CSV file.")
	tasksFile := cmd.String("tasks", "", "A tasks CSV file.")
	mode := cmd.String("mode", importer.ModeMerge, "merge, or replace the imported collections.")
	output := cmd.String("o", "", "The file to write, - for standard output (default: the data file).")
	if err := cmd.parse(args); err != nil {
		return err
	}
	if *coursesFile == "" && *assignmentsFile == "" && *tasksFile == "" {
		cmd.Usage()
		return errHelp
	}
	if *mode != importer.ModeMerge && *mode != importer.ModeReplace {
		return core.NewArgumentError(fmt.Sprintf("invalid mode %q, expected %s", *mode, strings.Join(importer.Modes, " or ")))
	}
	repo, err := cli.open(cmd)
	if err != nil {
		return err
	}

	var src importer.Sources
	for _, in := range []struct {
		path string
		dst  *io.Reader
	}{{*coursesFile, &src.Courses}, {*assignmentsFile, &src.Assignments}, {*tasksFile, &src.Tasks}} {
		if in.path == "" {
			continue
		}
		f, err := os.Open(in.path)
		if err != nil {
			return errors.Wrap(err, "opening CSV file")
		}
		defer f.Close()
		*in.dst = f
	}

	data, res, err := importer.Import(repo.Snapshot(), src, *mode, nowFunc())
	if err != nil {
		return err
	}
	data.Skipped = 0 // already reported on open
	for _, problem := range data.Validate() {
		cli.logger.Warn("import: " + problem.Error())
	}

	dest := *output
	if dest == "" {
		dest = repo.Path()
	}
	if err := cli.save(dest, data); err != nil {
		return err
	}
	if dest != "-" {
		fmt.Fprintf(cli.out, "Imported %d course(s), %d assignment(s) and %d task(s); %d course(s) created for unknown codes.\n",
			res.Courses, res.Assignments, res.Tasks, res.CreatedCourses)
	}
	return nil
}

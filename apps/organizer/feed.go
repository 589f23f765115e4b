package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/calendar"
	"github.com/trezcool/organizer/core/planner"
	"github.com/trezcool/organizer/services/export"
	"github.com/trezcool/organizer/storage/snapshot"
)

type filterFlags struct {
	query, kind, course, status, from, to *string
}

func addFilterFlags(cmd command) filterFlags {
	return filterFlags{
		query:  cmd.String("q", "", "Only items whose title, course, category or kind contain TEXT."),
		kind:   cmd.String("kind", "", "assignment, task or all."),
		course: cmd.String("course", "", "A course id, or - for items without a course."),
		status: cmd.String("status", "", "open, done or all."),
		from:   cmd.String("from", "", "Only items due on or after DATE (YYYY-MM-DD)."),
		to:     cmd.String("to", "", "Only items due on or before DATE (YYYY-MM-DD)."),
	}
}

func (ff filterFlags) filter() (planner.Filter, error) {
	f := planner.Filter{Query: *ff.query, Kind: *ff.kind, CourseID: *ff.course, Status: *ff.status}
	switch core.CleanString(f.Kind, true) {
	case "", planner.KindAll, planner.KindAssignment, planner.KindTask:
	default:
		return f, core.NewArgumentError(fmt.Sprintf("invalid kind %q", f.Kind))
	}
	switch core.CleanString(f.Status, true) {
	case "", "all", "open", "done":
	default:
		return f, core.NewArgumentError(fmt.Sprintf("invalid status %q", f.Status))
	}
	for _, bound := range []struct {
		flag string
		val  *string
	}{{"from", ff.from}, {"to", ff.to}} {
		if strings.TrimSpace(*bound.val) == "" {
			continue
		}
		d, ok := core.ParseDate(*bound.val)
		if !ok {
			return f, core.NewArgumentError(fmt.Sprintf("invalid -%s date %q, expected YYYY-MM-DD", bound.flag, *bound.val))
		}
		if bound.flag == "from" {
			f.Start = d
		} else {
			f.End = d
		}
	}
	return f.Clean(), nil
}

func buildFeed(repo *snapshot.Repository, f planner.Filter) []planner.FeedItem {
	return f.Apply(planner.BuildFeed(repo.Assignments(), repo.Tasks(), repo.Courses()))
}

func (cli *commandLine) feed(args []string) error {
	cmd := cli.newCommand("feed")
	ff := addFilterFlags(cmd)
	if err := cmd.parse(args); err != nil {
		return err
	}
	f, err := ff.filter()
	if err != nil {
		return err
	}
	repo, err := cli.open(cmd)
	if err != nil {
		return err
	}

	items := buildFeed(repo, f)
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		status := "open"
		if it.Done {
			status = "done"
		}
		rows = append(rows, []string{it.DueDate(), it.Kind, it.Title, it.CourseLabel, it.Category, status})
	}
	return cli.table([]string{"due", "kind", "title", "course", "category", "status"}, rows)
}

func (cli *commandLine) ics(args []string) error {
	cmd := cli.newCommand("ics")
	ff := addFilterFlags(cmd)
	name := cmd.String("name", "", "The calendar name (default: the configured one).")
	output := cmd.String("o", "", "The file to write (default: standard output).")
	if err := cmd.parse(args); err != nil {
		return err
	}
	f, err := ff.filter()
	if err != nil {
		return err
	}
	repo, err := cli.open(cmd)
	if err != nil {
		return err
	}
	if *name == "" {
		*name = cli.conf.CalendarName
	}

	doc := calendar.Build(calendar.EventsFromFeed(buildFeed(repo, f)), *name)
	return cli.writeOutput(*output, func(w io.Writer) error {
		_, err := io.WriteString(w, doc)
		return err
	})
}

func (cli *commandLine) export(args []string) error {
	cmd := cli.newCommand("export")
	format := cmd.String("format", export.FormatCSV, "csv or xlsx.")
	what := cmd.String("what", "feed", "For csv: feed or grades.")
	output := cmd.String("o", "", "The file to write (default: standard output, csv only).")
	if err := cmd.parse(args); err != nil {
		return err
	}
	switch *format {
	case export.FormatCSV:
		if *what != "feed" && *what != "grades" {
			return core.NewArgumentError(fmt.Sprintf("invalid -what %q", *what))
		}
	case export.FormatXLSX:
		if *output == "" || *output == "-" {
			return core.NewArgumentError("xlsx export needs -o FILE")
		}
	default:
		return core.NewArgumentError(fmt.Sprintf("invalid format %q", *format))
	}

	repo, err := cli.open(cmd)
	if err != nil {
		return err
	}
	courses, as := repo.Courses(), repo.Assignments()
	conv := repo.Settings().Converter()
	feed := planner.BuildFeed(as, repo.Tasks(), courses)

	return cli.writeOutput(*output, func(w io.Writer) error {
		switch {
		case *format == export.FormatXLSX:
			return export.WriteWorkbook(w, export.Report{
				Profile:     repo.Profile(),
				TermGPA:     conv.TermGPA(courses, as),
				Feed:        feed,
				Grades:      conv.Report(courses, as),
				GeneratedAt: nowFunc(),
			})
		case *what == "grades":
			return export.WriteGradesCSV(w, conv.Report(courses, as))
		default:
			return export.WriteFeedCSV(w, feed)
		}
	})
}

func (cli *commandLine) writeOutput(path string, write func(w io.Writer) error) error {
	w, closeFn, err := cli.createFile(path)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	if err := write(w); err != nil {
		closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return errors.Wrap(err, "closing output file")
	}
	if path != "" && path != "-" {
		cli.logger.Info("written " + path)
	}
	return nil
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/grading"
)

func nullNum(f null.Float64) string {
	if !f.Valid {
		return "-"
	}
	return num(f.Float64)
}

func (cli *commandLine) grades(args []string) error {
	cmd := cli.newCommand("grades")
	if err := cmd.parse(args); err != nil {
		return err
	}
	repo, err := cli.open(cmd)
	if err != nil {
		return err
	}

	courses, as := repo.Courses(), repo.Assignments()
	reports := repo.Settings().Converter().Report(courses, as)
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		letter := "-"
		if r.Letter.Valid {
			letter = r.Letter.String
		}
		rows = append(rows, []string{r.Label, num(r.Credits), nullNum(r.Grade), letter, nullNum(r.Points)})
	}
	if err := cli.table([]string{"course", "credits", "grade", "letter", "points"}, rows); err != nil {
		return err
	}

	for _, c := range courses {
		for _, s := range grading.SuggestCategories(c, repo.AssignmentsFor(c.ID)) {
			msg := fmt.Sprintf("note: %s: %d assignment(s) in %q do not count towards the grade", c.Label(), s.Assignments, s.Category)
			if s.Closest != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", s.Closest)
			}
			fmt.Fprintln(cli.out, msg)
		}
	}
	return nil
}

func (cli *commandLine) gpa(args []string) error {
	cmd := cli.newCommand("gpa")
	preset := cmd.String("preset", "", "Use the built-in 4.0 or 4.3 system instead of the stored one.")
	maxGPA := cmd.Float64("max", 0, "Use another GPA cap than the system's.")
	if err := cmd.parse(args); err != nil {
		return err
	}
	if *preset != "" && *preset != grading.Preset40 && *preset != grading.Preset43 {
		return core.NewArgumentError(fmt.Sprintf("invalid preset %q, expected 4.0 or 4.3", *preset))
	}
	repo, err := cli.open(cmd)
	if err != nil {
		return err
	}

	st := repo.Settings()
	if *preset != "" {
		st = st.ResetGPASystem(*preset)
	}
	if cmd.isSet("max") {
		sys := st.GPASystem
		sys.MaxGPA = *maxGPA
		if st, err = st.WithGPASystem(sys); err != nil {
			return err
		}
	}
	sys := st.GPASystem
	gpa := st.Converter().TermGPA(repo.Courses(), repo.Assignments())
	profile := repo.Profile()

	fmt.Fprintf(cli.out, "GPA system: %s (%s mode, max %s)\n", sys.Preset, sys.Mode, num(sys.MaxGPA))
	if !gpa.Valid {
		fmt.Fprintf(cli.out, "Term GPA: - (no graded course) / target %s\n", num(profile.TargetGPA))
		return nil
	}
	status := "below target"
	if gpa.Float64 >= profile.TargetGPA {
		status = "on target"
	}
	fmt.Fprintf(cli.out, "Term GPA: %s / target %s, %s\n", num(gpa.Float64), num(profile.TargetGPA), status)
	return nil
}

func (cli *commandLine) required(args []string) error {
	cmd := cli.newCommand("required")
	courseID := cmd.String("course", "", "The course id.")
	category := cmd.String("category", "", "The category to solve for (default: Final Exam, or the course's first category).")
	targetStr := cmd.String("target", "", "The course grade to reach, in percent.")
	if err := cmd.parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*courseID) == "" || strings.TrimSpace(*targetStr) == "" {
		cmd.Usage()
		return errHelp
	}
	target, err := strconv.ParseFloat(strings.TrimSpace(*targetStr), 64)
	if err != nil {
		return core.NewArgumentError(fmt.Sprintf("invalid target %q", *targetStr))
	}

	repo, err := cli.open(cmd)
	if err != nil {
		return err
	}
	c, err := repo.Course(strings.TrimSpace(*courseID))
	if err != nil {
		return err
	}
	cat := strings.TrimSpace(*category)
	if cat == "" {
		cat = grading.DefaultCategory(c)
	}
	if _, ok := c.GradingScheme[cat]; !ok {
		return core.NewArgumentError(fmt.Sprintf("%s does not weight %q (categories: %s)", c.Label(), cat, strings.Join(c.Categories(), ", ")))
	}

	req := grading.RequiredScore(c, repo.AssignmentsFor(c.ID), cat, target)
	switch req.Status {
	case grading.StatusNoData:
		fmt.Fprintf(cli.out, "No grade can be computed for %s yet.\n", c.Label())
	case grading.StatusNegligible:
		fmt.Fprintf(cli.out, "%s barely affects the grade of %s.\n", cat, c.Label())
	case grading.StatusUnreachable:
		fmt.Fprintf(cli.out, "Unreachable: even 100%% in %s gives %s%%.\n", cat, nullNum(req.BestPossible))
	case grading.StatusAlreadyMet:
		fmt.Fprintf(cli.out, "Already met: 0%% in %s still gives %s%%.\n", cat, nullNum(req.GradeAtZero))
	case grading.StatusReachable:
		fmt.Fprintf(cli.out, "You need %s%% in %s to reach %s%%.\n", nullNum(req.Required), cat, num(target))
	}
	return nil
}

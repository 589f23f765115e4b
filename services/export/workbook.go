package export

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Sheet names
const (
	SheetSummary = "Summary"
	SheetFeed    = "Feed"
	SheetGrades  = "Grades"
)

// WriteWorkbook writes `r` as an xlsx workbook with a Summary, a Feed and a Grades sheet.
func WriteWorkbook(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	// the default sheet becomes the summary
	f.SetSheetName("Sheet1", SheetSummary)

	generated := r.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	summary := [][]interface{}{
		{"Student", r.Profile.Username},
		{"Major", r.Profile.Major},
		{"School", r.Profile.School},
		{"Target GPA", r.Profile.TargetGPA},
		{"Term GPA", nullable(r.TermGPA)},
		{"Generated", generated.Format(time.RFC3339)},
	}
	if err := writeSheet(f, SheetSummary, nil, summary); err != nil {
		return err
	}

	feed := make([][]interface{}, 0, len(r.Feed))
	for _, it := range r.Feed {
		feed = append(feed, feedRow(it))
	}
	if err := addSheet(f, SheetFeed, FeedHeader, feed); err != nil {
		return err
	}

	grades := make([][]interface{}, 0, len(r.Grades))
	for _, g := range r.Grades {
		grades = append(grades, gradeRow(g))
	}
	if err := addSheet(f, SheetGrades, GradesHeader, grades); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return errors.Wrap(f.Write(w), "writing workbook")
}

func addSheet(f *excelize.File, name string, header []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return errors.Wrapf(err, "creating sheet %s", name)
	}
	return writeSheet(f, name, header, rows)
}

func writeSheet(f *excelize.File, name string, header []string, rows [][]interface{}) error {
	rowNum := 1
	if len(header) > 0 {
		cells := make([]interface{}, len(header))
		for i, h := range header {
			cells[i] = h
		}
		rows = append([][]interface{}{cells}, rows...)
	}
	for _, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return errors.Wrap(err, "computing cell name")
		}
		row := row
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return errors.Wrapf(err, "writing %s row %d", name, rowNum)
		}
		rowNum++
	}
	return nil
}

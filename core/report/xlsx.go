package report

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	summarySheet = "Summary"
)

type sheetWriter struct {
	f   *excelize.File
	err error
}

// row writes values on the given (1-based) row of sheet.
func (sw *sheetWriter) row(sheet string, row int, values ...interface{}) {
	if sw.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		sw.err = err
		return
	}
	sw.err = sw.f.SetSheetRow(sheet, cell, &values)
}

func (sw *sheetWriter) sheet(name string, headers ...interface{}) {
	if sw.err != nil {
		return
	}
	if _, err := sw.f.NewSheet(name); err != nil {
		sw.err = err
		return
	}
	sw.row(name, 1, headers...)
}

// WriteXLSX writes the dashboard to w as an Excel workbook, one sheet per report.
func WriteXLSX(w io.Writer, d Dashboard) error {
	f := excelize.NewFile()
	defer f.Close()

	sw := &sheetWriter{f: f}
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return errors.Wrap(err, "renaming default sheet")
	}
	s := d.Summary
	for i, kv := range [][]interface{}{
		{"Total classes", s.TotalClasses},
		{"Total students", s.TotalStudents},
		{"Total teachers", s.TotalTeachers},
		{"Total subjects", s.TotalSubjects},
		{"Average grade", s.AverageGrade},
		{"Grade window", s.GradeWindow},
		{"Overall average grade", s.OverallAverageGrade},
		{"Total capacity", s.TotalCapacity},
		{"Utilization rate (%)", s.UtilizationRate},
	} {
		sw.row(summarySheet, i+1, kv...)
	}

	sw.sheet("Classes", "Grade level", "Name", "Homeroom teacher", "Capacity", "Students", "Utilization (%)")
	for i, c := range d.Classes {
		var tch string
		if c.Teacher != nil {
			tch = c.Teacher.Name
		}
		sw.row("Classes", i+2, c.GradeLevel, c.Name, tch, c.Capacity, c.StudentCount, c.Utilization)
	}

	sw.sheet("Students", "Name", "Student number", "Class", "Average grade", "Subjects", "Grades")
	for i, s := range d.Students {
		var cls string
		if s.Class != nil {
			cls = s.Class.GradeLevel + " " + s.Class.Name
		}
		sw.row("Students", i+2, s.Name, s.StudentNumber, cls, s.AverageGrade, s.TotalSubjects, s.TotalGrades)
	}

	sw.sheet("Teachers", "Name", "NIP", "Subject", "Average grade", "Students", "Grades")
	for i, t := range d.Teachers {
		var sbj string
		if t.Subject != nil {
			sbj = t.Subject.Name
		}
		sw.row("Teachers", i+2, t.Name, t.NIP, sbj, t.AverageGrade, t.TotalStudents, t.TotalGrades)
	}

	sw.sheet("Subjects", "Code", "Name", "Teachers", "Average grade", "Students", "Grades")
	for i, s := range d.Subjects {
		sw.row("Subjects", i+2, s.Code, s.Name, len(s.Teachers), s.AverageGrade, s.TotalStudents, s.TotalGrades)
	}

	sw.sheet("Recent grades", "Date", "Student", "Subject", "Teacher", "Semester", "Grade")
	for i, g := range d.Grades {
		sw.row("Recent grades", i+2, g.CreatedAt.Format("2006-01-02"), g.Student.Name, g.Subject.Name, g.Teacher.Name, g.Semester, g.Grade)
	}

	if sw.err != nil {
		return errors.Wrap(sw.err, "building workbook")
	}
	return errors.Wrap(f.Write(w), "writing workbook")
}

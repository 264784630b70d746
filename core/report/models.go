package report

import (
	"time"

	"github.com/trezcool/rapor/core/classroom"
	"github.com/trezcool/rapor/core/grade"
	"github.com/trezcool/rapor/core/student"
	"github.com/trezcool/rapor/core/subject"
	"github.com/trezcool/rapor/core/teacher"
)

type (
	SubjectRef struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Code string `json:"code"`
	}

	TeacherRef struct {
		ID      int         `json:"id"`
		Name    string      `json:"name"`
		Email   string      `json:"email"`
		Subject *SubjectRef `json:"subject,omitempty"`
	}

	ClassRef struct {
		ID         int         `json:"id"`
		Name       string      `json:"name"`
		GradeLevel string      `json:"grade_level"`
		Teacher    *TeacherRef `json:"teacher,omitempty"` // homeroom teacher
	}

	StudentRef struct {
		ID            int       `json:"id"`
		Name          string    `json:"name"`
		StudentNumber string    `json:"student_number"`
		Class         *ClassRef `json:"class,omitempty"`
	}
)

type (
	ClassRow struct {
		ID           int         `json:"id"`
		Name         string      `json:"name"`
		GradeLevel   string      `json:"grade_level"`
		Capacity     int         `json:"capacity"`
		StudentCount int         `json:"student_count"`
		Utilization  float64     `json:"utilization"` // percentage
		Teacher      *TeacherRef `json:"teacher,omitempty"`
	}

	GradeRow struct {
		ID        int        `json:"id"`
		Student   StudentRef `json:"student"`
		Subject   SubjectRef `json:"subject"`
		Teacher   TeacherRef `json:"teacher"`
		Semester  string     `json:"semester"`
		Grade     float64    `json:"grade"`
		Notes     string     `json:"notes"`
		CreatedAt time.Time  `json:"created_at"`
	}

	StudentRow struct {
		ID            int       `json:"id"`
		Name          string    `json:"name"`
		Email         string    `json:"email"`
		StudentNumber string    `json:"student_number"`
		Class         *ClassRef `json:"class,omitempty"`
		AverageGrade  float64   `json:"average_grade"`
		TotalSubjects int       `json:"total_subjects"`
		TotalGrades   int       `json:"total_grades"`
		LatestGrade   *GradeRow `json:"latest_grade"`
	}

	TeacherRow struct {
		ID            int         `json:"id"`
		Name          string      `json:"name"`
		Email         string      `json:"email"`
		NIP           string      `json:"nip"`
		Subject       *SubjectRef `json:"subject,omitempty"`
		Classes       []ClassRef  `json:"classes"` // homeroomed
		AverageGrade  float64     `json:"average_grade"`
		TotalStudents int         `json:"total_students"`
		TotalGrades   int         `json:"total_grades"`
	}

	SubjectRow struct {
		ID            int          `json:"id"`
		Name          string       `json:"name"`
		Code          string       `json:"code"`
		Description   string       `json:"description"`
		Teachers      []TeacherRef `json:"teachers"`
		AverageGrade  float64      `json:"average_grade"`
		TotalStudents int          `json:"total_students"`
		TotalGrades   int          `json:"total_grades"`
	}
)

// GradeFilter narrows the grade report down; zero values are ignored.
type GradeFilter struct {
	ClassID   int    `query:"class_id" json:"class_id,omitempty"`
	SubjectID int    `query:"subject_id" json:"subject_id,omitempty"`
	Semester  string `query:"semester" json:"semester,omitempty"`
}

type GradeReport struct {
	Grades        []GradeRow  `json:"grades"`
	AverageGrade  float64     `json:"average_grade"`
	TotalStudents int         `json:"total_students"`
	Filters       GradeFilter `json:"filters"`
	// filter choices
	Classes  []ClassRef   `json:"classes"`
	Subjects []SubjectRef `json:"subjects"`
}

type Summary struct {
	TotalClasses    int     `json:"totalClasses"`
	TotalStudents   int     `json:"totalStudents"`
	TotalTeachers   int     `json:"totalTeachers"`
	TotalSubjects   int     `json:"totalSubjects"`
	AverageGrade    float64 `json:"averageGrade"` // over the GradeWindow most recent grades
	TotalCapacity   int     `json:"totalCapacity"`
	UtilizationRate float64 `json:"utilizationRate"`
	// GradeWindow is the number of recent grades AverageGrade is computed over (0: all).
	GradeWindow         int     `json:"gradeWindow"`
	OverallAverageGrade float64 `json:"overallAverageGrade"`
}

// StudentDetail is a student's report row along with every grade they received, newest first.
type StudentDetail struct {
	StudentRow
	Grades []GradeRow `json:"grades"`
}

// ClassDetail is a class's report row along with its enrolled students.
type ClassDetail struct {
	ClassRow
	Students []StudentRow `json:"students"`
}

// TeacherDetail is a teacher's report row along with every grade they gave, newest first.
type TeacherDetail struct {
	TeacherRow
	Grades []GradeRow `json:"grades"`
}

type Dashboard struct {
	Summary  Summary      `json:"summary"`
	Classes  []ClassRow   `json:"classes"`
	Students []StudentRow `json:"students"`
	Grades   []GradeRow   `json:"grades"` // recent
	Subjects []SubjectRow `json:"subjects"`
	Teachers []TeacherRow `json:"teachers"`
}

func newSubjectRef(s subject.Subject) SubjectRef {
	return SubjectRef{ID: s.ID, Name: s.Name, Code: s.Code}
}

func newTeacherRef(t teacher.Teacher, sbj *subject.Subject) TeacherRef {
	ref := TeacherRef{ID: t.ID, Name: t.Name, Email: t.Email}
	if sbj != nil {
		sr := newSubjectRef(*sbj)
		ref.Subject = &sr
	}
	return ref
}

func newClassRef(c classroom.ClassRoom, tch *TeacherRef) ClassRef {
	return ClassRef{ID: c.ID, Name: c.Name, GradeLevel: c.GradeLevel, Teacher: tch}
}

func newStudentRef(s student.Student, cls *ClassRef) StudentRef {
	return StudentRef{ID: s.ID, Name: s.Name, StudentNumber: s.StudentNumber, Class: cls}
}

func newGradeRow(g grade.Grade, std StudentRef, sbj SubjectRef, tch TeacherRef) GradeRow {
	return GradeRow{
		ID:        g.ID,
		Student:   std,
		Subject:   sbj,
		Teacher:   tch,
		Semester:  g.Semester,
		Grade:     g.Grade,
		Notes:     g.Notes,
		CreatedAt: g.CreatedAt,
	}
}

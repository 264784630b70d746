package testutil

import (
	"context"
	"net/mail"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/classroom"
	"github.com/trezcool/rapor/core/grade"
	"github.com/trezcool/rapor/core/student"
	"github.com/trezcool/rapor/core/subject"
	"github.com/trezcool/rapor/core/teacher"
	"github.com/trezcool/rapor/storage/database"
)

// NewConfig returns the configuration used across tests: TEST mode on a private in-memory SQLite database.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:          "Rapor",
		Env:              "TEST",
		TestMode:         true,
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Rapor", Address: "noreply@rapor.test"},
		Database:         core.DatabaseConfig{Engine: database.SQLite, Name: ":memory:"},
		Reports:          core.ReportsConfig{DashboardGradeWindow: 20, DefaultPrecision: 1, GradesPrecision: 2},
	}
}

// PrepareDB opens a fresh, fully migrated in-memory SQLite database, closed when t ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(NewConfig())
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return validate, translator
}

func timestamp(createdAt []time.Time) time.Time {
	if len(createdAt) > 0 {
		return createdAt[0].UTC()
	}
	return time.Now().UTC()
}

func CreateSubject(t *testing.T, repo subject.Repository, name, code string, createdAt ...time.Time) subject.Subject {
	t.Helper()
	tstamp := timestamp(createdAt)
	sbj, err := repo.CreateSubject(context.Background(), subject.Subject{
		Name:      name,
		Code:      code,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return sbj
}

func CreateTeacher(t *testing.T, repo teacher.Repository, name, email, nip string, subjectID int, createdAt ...time.Time) teacher.Teacher {
	t.Helper()
	tstamp := timestamp(createdAt)
	tch, err := repo.CreateTeacher(context.Background(), teacher.Teacher{
		Name:      name,
		Email:     email,
		NIP:       nip,
		SubjectID: subjectID,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tch
}

func CreateClassRoom(
	t *testing.T,
	repo classroom.Repository,
	name, gradeLevel string,
	teacherID, capacity int,
	createdAt ...time.Time,
) classroom.ClassRoom {
	t.Helper()
	tstamp := timestamp(createdAt)
	cls, err := repo.CreateClassRoom(context.Background(), classroom.ClassRoom{
		Name:       name,
		GradeLevel: gradeLevel,
		TeacherID:  teacherID,
		Capacity:   capacity,
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	})
	if err != nil {
		t.Fatalf("CreateClassRoom() failed: %v", err)
	}
	return cls
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	name, email, studentNumber string,
	classID int,
	createdAt ...time.Time,
) student.Student {
	t.Helper()
	tstamp := timestamp(createdAt)
	std, err := repo.CreateStudent(context.Background(), student.Student{
		Name:          name,
		Email:         email,
		StudentNumber: studentNumber,
		ClassID:       classID,
		BirthDate:     time.Date(2008, time.January, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt:     tstamp,
		UpdatedAt:     tstamp,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateGrade(
	t *testing.T,
	repo grade.Repository,
	studentID, subjectID, teacherID int,
	semester string,
	value float64,
	createdAt ...time.Time,
) grade.Grade {
	t.Helper()
	tstamp := timestamp(createdAt)
	grd, err := repo.CreateGrade(context.Background(), grade.Grade{
		StudentID: studentID,
		SubjectID: subjectID,
		TeacherID: teacherID,
		Semester:  semester,
		Grade:     value,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateGrade() failed: %v", err)
	}
	return grd
}

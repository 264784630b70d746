package grade

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/student"
	"github.com/trezcool/rapor/core/subject"
	"github.com/trezcool/rapor/core/teacher"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("grade")
)

type (
	Repository interface {
		CreateGrade(ctx context.Context, grd Grade) (Grade, error)
		// QueryGrades applies AND operation on available QueryFilter fields.
		// Grades are returned newest first unless an ordering is given.
		QueryGrades(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Grade, error)
		GetGrade(ctx context.Context, id int) (Grade, error)
		UpdateGrade(ctx context.Context, grd Grade) (Grade, error)
		DeleteGrade(ctx context.Context, id int) error
	}

	Service struct {
		repo     Repository
		students student.Repository
		subjects subject.Repository
		teachers teacher.Repository
	}
)

func NewService(repo Repository, students student.Repository, subjects subject.Repository, teachers teacher.Repository) *Service {
	return &Service{repo: repo, students: students, subjects: subjects, teachers: teachers}
}

// CheckReferences makes sure the graded student, the subject and the grading teacher exist.
func (svc *Service) CheckReferences(ctx context.Context, studentID, subjectID, teacherID int) error {
	var fields []core.FieldError
	check := func(field string, get func() error) error {
		if err := get(); err != nil {
			if !core.IsNotFound(err) {
				return errors.Wrapf(err, "checking %s", field)
			}
			fields = append(fields, core.FieldError{Field: field, Error: err.Error()})
		}
		return nil
	}

	if err := check("student_id", func() error {
		_, err := svc.students.GetStudent(ctx, studentID)
		return err
	}); err != nil {
		return err
	}
	if err := check("subject_id", func() error {
		_, err := svc.subjects.GetSubject(ctx, subjectID)
		return err
	}); err != nil {
		return err
	}
	if err := check("teacher_id", func() error {
		_, err := svc.teachers.GetTeacher(ctx, teacherID)
		return err
	}); err != nil {
		return err
	}

	if len(fields) > 0 {
		return core.NewValidationError(nil, fields...)
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ng NewGrade) (Grade, error) {
	now := time.Now().UTC()
	return svc.repo.CreateGrade(ctx, Grade{
		StudentID: ng.StudentID,
		SubjectID: ng.SubjectID,
		TeacherID: ng.TeacherID,
		Semester:  ng.Semester,
		Grade:     ng.value(),
		Notes:     ng.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Grade, error) {
	return svc.repo.QueryGrades(ctx, filter, core.CleanOrdering(ordering, OrderingFields...))
}

func (svc *Service) GetByID(ctx context.Context, id int) (Grade, error) {
	return svc.repo.GetGrade(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Grade, ug UpdateGrade) (Grade, error) {
	orig.StudentID = ug.StudentID
	orig.SubjectID = ug.SubjectID
	orig.TeacherID = ug.TeacherID
	orig.Semester = ug.Semester
	orig.Grade = ug.value()
	orig.Notes = ug.Notes
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateGrade(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteGrade(ctx, id)
}

package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/classroom"
)

var (
	// errors
	ErrNotFound            = core.NewNotFoundError("student")
	ErrEmailExists         = errors.New("a student with this email already exists")
	ErrStudentNumberExists = errors.New("a student with this student number already exists")

	errClassNotFound = "class does not exist"
)

type (
	Repository interface {
		CheckStudentUniqueness(ctx context.Context, email, studentNumber string, excludeID int) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		// QueryStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Student.Name, Student.Email or Student.StudentNumber.
		QueryStudents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		GetStudent(ctx context.Context, id int) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		// DeleteStudent deletes the student along with all of their grades.
		DeleteStudent(ctx context.Context, id int) error
	}

	Service struct {
		repo    Repository
		classes classroom.Repository
	}
)

func NewService(repo Repository, classes classroom.Repository) *Service {
	return &Service{repo: repo, classes: classes}
}

func (svc *Service) CheckUniqueness(ctx context.Context, email, studentNumber string, excludeID int) error {
	if err := svc.repo.CheckStudentUniqueness(ctx, email, studentNumber, excludeID); err != nil {
		var field string
		switch errors.Cause(err) {
		case ErrEmailExists:
			field = "email"
		case ErrStudentNumberExists:
			field = "student_number"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

// CheckClass makes sure the referenced class exists.
func (svc *Service) CheckClass(ctx context.Context, classID int) error {
	if _, err := svc.classes.GetClassRoom(ctx, classID); err != nil {
		if core.IsNotFound(err) {
			return core.NewValidationError(nil, core.FieldError{Field: "class_id", Error: errClassNotFound})
		}
		return errors.Wrap(err, "checking class")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	return svc.repo.CreateStudent(ctx, Student{
		Name:          ns.Name,
		Email:         ns.Email,
		Phone:         ns.Phone,
		StudentNumber: ns.StudentNumber,
		ClassID:       ns.ClassID,
		BirthDate:     ns.birthDate(),
		Address:       ns.Address,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, filter, core.CleanOrdering(ordering, OrderingFields...))
}

func (svc *Service) GetByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Student, us UpdateStudent) (Student, error) {
	orig.Name = us.Name
	orig.Email = us.Email
	orig.Phone = us.Phone
	orig.StudentNumber = us.StudentNumber
	orig.ClassID = us.ClassID
	orig.BirthDate = us.birthDate()
	orig.Address = us.Address
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, orig)
}

// Delete removes the student and cascades to their grades.
func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteStudent(ctx, id)
}

package teacher

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/subject"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("teacher")
	ErrEmailExists = errors.New("a teacher with this email already exists")
	ErrNIPExists   = errors.New("a teacher with this nip already exists")
	ErrInUse       = errors.New("teacher is still a homeroom teacher or has graded students")

	errSubjectNotFound = "subject does not exist"
)

type (
	Repository interface {
		CheckTeacherUniqueness(ctx context.Context, email, nip string, excludeID int) error
		CreateTeacher(ctx context.Context, tchr Teacher) (Teacher, error)
		// QueryTeachers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Teacher.Name, Teacher.Email or Teacher.NIP.
		QueryTeachers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Teacher, error)
		GetTeacher(ctx context.Context, id int) (Teacher, error)
		UpdateTeacher(ctx context.Context, tchr Teacher) (Teacher, error)
		// DeleteTeacher fails with ErrInUse while classes or grades reference the teacher.
		DeleteTeacher(ctx context.Context, id int) error
	}

	Service struct {
		repo     Repository
		subjects subject.Repository
	}
)

func NewService(repo Repository, subjects subject.Repository) *Service {
	return &Service{repo: repo, subjects: subjects}
}

func (svc *Service) CheckUniqueness(ctx context.Context, email, nip string, excludeID int) error {
	if err := svc.repo.CheckTeacherUniqueness(ctx, email, nip, excludeID); err != nil {
		var field string
		switch errors.Cause(err) {
		case ErrEmailExists:
			field = "email"
		case ErrNIPExists:
			field = "nip"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

// CheckSubject makes sure the referenced subject exists.
func (svc *Service) CheckSubject(ctx context.Context, subjectID int) error {
	if _, err := svc.subjects.GetSubject(ctx, subjectID); err != nil {
		if core.IsNotFound(err) {
			return core.NewValidationError(nil, core.FieldError{Field: "subject_id", Error: errSubjectNotFound})
		}
		return errors.Wrap(err, "checking subject")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	now := time.Now().UTC()
	return svc.repo.CreateTeacher(ctx, Teacher{
		Name:      nt.Name,
		Email:     nt.Email,
		Phone:     nt.Phone,
		NIP:       nt.NIP,
		SubjectID: nt.SubjectID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx, filter, core.CleanOrdering(ordering, OrderingFields...))
}

func (svc *Service) GetByID(ctx context.Context, id int) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Teacher, ut UpdateTeacher) (Teacher, error) {
	orig.Name = ut.Name
	orig.Email = ut.Email
	orig.Phone = ut.Phone
	orig.NIP = ut.NIP
	orig.SubjectID = ut.SubjectID
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTeacher(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if err := svc.repo.DeleteTeacher(ctx, id); err != nil {
		if errors.Cause(err) == ErrInUse {
			return core.NewValidationError(err)
		}
		return err
	}
	return nil
}

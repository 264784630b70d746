package subject

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core"
)

var (
	// errors
	ErrNotFound   = core.NewNotFoundError("subject")
	ErrCodeExists = errors.New("a subject with this code already exists")
	ErrInUse      = errors.New("subject is still taught by teachers or graded")
)

type (
	Repository interface {
		CheckSubjectUniqueness(ctx context.Context, code string, excludeID int) error
		CreateSubject(ctx context.Context, sbj Subject) (Subject, error)
		// QuerySubjects applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Subject.Name or Subject.Code.
		QuerySubjects(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Subject, error)
		GetSubject(ctx context.Context, id int) (Subject, error)
		UpdateSubject(ctx context.Context, sbj Subject) (Subject, error)
		// DeleteSubject fails with ErrInUse while teachers or grades reference the subject.
		DeleteSubject(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(ctx context.Context, code string, excludeID int) error {
	if err := svc.repo.CheckSubjectUniqueness(ctx, code, excludeID); err != nil {
		if errors.Cause(err) == ErrCodeExists {
			return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	now := time.Now().UTC()
	return svc.repo.CreateSubject(ctx, Subject{
		Name:        ns.Name,
		Code:        ns.Code,
		Description: ns.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx, filter, core.CleanOrdering(ordering, OrderingFields...))
}

func (svc *Service) GetByID(ctx context.Context, id int) (Subject, error) {
	return svc.repo.GetSubject(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Subject, us UpdateSubject) (Subject, error) {
	orig.Name = us.Name
	orig.Code = us.Code
	orig.Description = us.Description
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSubject(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if err := svc.repo.DeleteSubject(ctx, id); err != nil {
		if errors.Cause(err) == ErrInUse {
			return core.NewValidationError(err)
		}
		return err
	}
	return nil
}

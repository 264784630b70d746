package classroom

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/teacher"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("class")
	ErrInUse    = errors.New("class still has enrolled students")

	errTeacherNotFound = "teacher does not exist"
)

type (
	Repository interface {
		CreateClassRoom(ctx context.Context, cls ClassRoom) (ClassRoom, error)
		// QueryClassRooms applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on ClassRoom.Name.
		QueryClassRooms(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]ClassRoom, error)
		GetClassRoom(ctx context.Context, id int) (ClassRoom, error)
		UpdateClassRoom(ctx context.Context, cls ClassRoom) (ClassRoom, error)
		// DeleteClassRoom fails with ErrInUse while students are enrolled in the class.
		DeleteClassRoom(ctx context.Context, id int) error
	}

	Service struct {
		repo     Repository
		teachers teacher.Repository
	}
)

func NewService(repo Repository, teachers teacher.Repository) *Service {
	return &Service{repo: repo, teachers: teachers}
}

// CheckTeacher makes sure the referenced homeroom teacher exists.
func (svc *Service) CheckTeacher(ctx context.Context, teacherID int) error {
	if _, err := svc.teachers.GetTeacher(ctx, teacherID); err != nil {
		if core.IsNotFound(err) {
			return core.NewValidationError(nil, core.FieldError{Field: "teacher_id", Error: errTeacherNotFound})
		}
		return errors.Wrap(err, "checking teacher")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nc NewClassRoom) (ClassRoom, error) {
	now := time.Now().UTC()
	return svc.repo.CreateClassRoom(ctx, ClassRoom{
		Name:       nc.Name,
		GradeLevel: nc.GradeLevel,
		TeacherID:  nc.TeacherID,
		Capacity:   nc.Capacity,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]ClassRoom, error) {
	return svc.repo.QueryClassRooms(ctx, filter, core.CleanOrdering(ordering, OrderingFields...))
}

func (svc *Service) GetByID(ctx context.Context, id int) (ClassRoom, error) {
	return svc.repo.GetClassRoom(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig ClassRoom, uc UpdateClassRoom) (ClassRoom, error) {
	orig.Name = uc.Name
	orig.GradeLevel = uc.GradeLevel
	orig.TeacherID = uc.TeacherID
	orig.Capacity = uc.Capacity
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateClassRoom(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if err := svc.repo.DeleteClassRoom(ctx, id); err != nil {
		if errors.Cause(err) == ErrInUse {
			return core.NewValidationError(err)
		}
		return err
	}
	return nil
}

package classroom

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rapor/core"
)

const (
	MinCapacity = 1
	MaxCapacity = 50
)

// OrderingFields are the fields classes can be ordered by.
var OrderingFields = []string{"id", "name", "grade_level", "teacher_id", "capacity", "created_at", "updated_at"}

// ClassRoom is a class of students supervised by a homeroom teacher.
type ClassRoom struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	GradeLevel string    `json:"grade_level"`
	TeacherID  int       `json:"teacher_id"` // homeroom teacher
	Capacity   int       `json:"capacity"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// FullName identifies the class across grade levels, e.g. "X IPA 1".
func (c ClassRoom) FullName() string {
	if c.GradeLevel == "" {
		return c.Name
	}
	return c.GradeLevel + " " + c.Name
}

// NewClassRoom contains information needed to create a new ClassRoom.
type NewClassRoom struct {
	Name       string `json:"name" validate:"required,max=255"`
	GradeLevel string `json:"grade_level" validate:"required,max=10"`
	TeacherID  int    `json:"teacher_id" validate:"required"`
	Capacity   int    `json:"capacity" validate:"required,min=1,max=50"`
}

// UpdateClassRoom defines what information may be provided to modify an existing ClassRoom.
type UpdateClassRoom = NewClassRoom

func (nc *NewClassRoom) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nc.Name = core.CleanString(nc.Name)
	nc.GradeLevel = core.CleanString(nc.GradeLevel)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckTeacher(ctx, nc.TeacherID)
}

type QueryFilter struct {
	Search     string `query:"search"`
	GradeLevel string `query:"grade_level"`
	TeacherID  int    `query:"teacher_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf == nil || (qf.Search == "" && qf.GradeLevel == "" && qf.TeacherID == 0)
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.GradeLevel = core.CleanString(qf.GradeLevel)
}

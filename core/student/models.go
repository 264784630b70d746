package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rapor/core"
)

const DateLayout = "2006-01-02"

// OrderingFields are the fields students can be ordered by.
var OrderingFields = []string{"id", "name", "email", "student_number", "class_id", "birth_date", "created_at", "updated_at"}

type Student struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	StudentNumber string    `json:"student_number"`
	ClassID       int       `json:"class_id"`
	BirthDate     time.Time `json:"birth_date"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name          string `json:"name" validate:"required,max=255"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"omitempty,max=20"`
	StudentNumber string `json:"student_number" validate:"required,max=20"`
	ClassID       int    `json:"class_id" validate:"required"`
	BirthDate     string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Address       string `json:"address"`
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent = NewStudent

// Validate cleans & validates ns. The student being updated, if any, is excluded from uniqueness checks.
func (ns *NewStudent) Validate(ctx context.Context, validate *validator.Validate, svc *Service, orig ...Student) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	ns.StudentNumber = core.CleanString(ns.StudentNumber)
	ns.BirthDate = core.CleanString(ns.BirthDate)
	ns.Address = core.CleanString(ns.Address)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	if err := svc.CheckClass(ctx, ns.ClassID); err != nil {
		return err
	}
	var excludeID int
	if len(orig) > 0 {
		excludeID = orig[0].ID
	}
	return svc.CheckUniqueness(ctx, ns.Email, ns.StudentNumber, excludeID)
}

func (ns NewStudent) birthDate() time.Time {
	bd, _ := time.Parse(DateLayout, ns.BirthDate) // already validated
	return bd
}

type QueryFilter struct {
	Search  string `query:"search"` // name, email or student number
	ClassID int    `query:"class_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf == nil || (qf.Search == "" && qf.ClassID == 0)
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

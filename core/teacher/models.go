package teacher

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rapor/core"
)

// OrderingFields are the fields teachers can be ordered by.
var OrderingFields = []string{"id", "name", "email", "nip", "subject_id", "created_at", "updated_at"}

type Teacher struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	NIP       string    `json:"nip"` // employee number
	SubjectID int       `json:"subject_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	Name      string `json:"name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	NIP       string `json:"nip" validate:"required,max=20"`
	SubjectID int    `json:"subject_id" validate:"required"`
}

// UpdateTeacher defines what information may be provided to modify an existing Teacher.
type UpdateTeacher = NewTeacher

// Validate cleans & validates nt. The teacher being updated, if any, is excluded from uniqueness checks.
func (nt *NewTeacher) Validate(ctx context.Context, validate *validator.Validate, svc *Service, orig ...Teacher) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.Phone = core.CleanString(nt.Phone)
	nt.NIP = core.CleanString(nt.NIP)

	if err := validate.Struct(nt); err != nil {
		return err
	}
	if err := svc.CheckSubject(ctx, nt.SubjectID); err != nil {
		return err
	}
	var excludeID int
	if len(orig) > 0 {
		excludeID = orig[0].ID
	}
	return svc.CheckUniqueness(ctx, nt.Email, nt.NIP, excludeID)
}

type QueryFilter struct {
	Search    string `query:"search"` // name, email or nip
	SubjectID int    `query:"subject_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf == nil || (qf.Search == "" && qf.SubjectID == 0)
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

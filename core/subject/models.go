package subject

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rapor/core"
)

// OrderingFields are the fields subjects can be ordered by.
var OrderingFields = []string{"id", "name", "code", "created_at", "updated_at"}

type Subject struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name        string `json:"name" validate:"required,max=255"`
	Code        string `json:"code" validate:"required,max=20"`
	Description string `json:"description"`
}

// UpdateSubject defines what information may be provided to modify an existing Subject.
type UpdateSubject = NewSubject

// Validate cleans & validates ns. The subject being updated, if any, is excluded from uniqueness checks.
func (ns *NewSubject) Validate(ctx context.Context, validate *validator.Validate, svc *Service, orig ...Subject) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = strings.ToUpper(core.CleanString(ns.Code))
	ns.Description = core.CleanString(ns.Description)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	var excludeID int
	if len(orig) > 0 {
		excludeID = orig[0].ID
	}
	return svc.CheckUniqueness(ctx, ns.Code, excludeID)
}

type QueryFilter struct {
	Search string `query:"search"` // name or code
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf == nil || qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

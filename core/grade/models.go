package grade

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rapor/core"
)

const (
	MinGrade = 0
	MaxGrade = 100
)

// OrderingFields are the fields grades can be ordered by.
var OrderingFields = []string{"id", "student_id", "subject_id", "teacher_id", "semester", "grade", "created_at", "updated_at"}

// Grade is a score (0..100) given by a teacher to a student for a subject in a semester.
type Grade struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	SubjectID int       `json:"subject_id"`
	TeacherID int       `json:"teacher_id"`
	Semester  string    `json:"semester"`
	Grade     float64   `json:"grade"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Newer reports whether g was recorded after o (ties broken by the higher ID).
func (g Grade) Newer(o Grade) bool {
	if g.CreatedAt.Equal(o.CreatedAt) {
		return g.ID > o.ID
	}
	return g.CreatedAt.After(o.CreatedAt)
}

// NewGrade contains information needed to record a new Grade.
type NewGrade struct {
	StudentID int      `json:"student_id" validate:"required"`
	SubjectID int      `json:"subject_id" validate:"required"`
	TeacherID int      `json:"teacher_id" validate:"required"`
	Semester  string   `json:"semester" validate:"required,max=10"`
	Grade     *float64 `json:"grade" validate:"required,min=0,max=100"` // pointer: 0 is a valid grade
	Notes     string   `json:"notes"`
}

// UpdateGrade defines what information may be provided to modify an existing Grade.
type UpdateGrade = NewGrade

func (ng *NewGrade) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	ng.Semester = core.CleanString(ng.Semester)
	ng.Notes = core.CleanString(ng.Notes)

	if err := validate.Struct(ng); err != nil {
		return err
	}
	return svc.CheckReferences(ctx, ng.StudentID, ng.SubjectID, ng.TeacherID)
}

func (ng NewGrade) value() float64 {
	if ng.Grade == nil {
		return 0
	}
	return *ng.Grade
}

type QueryFilter struct {
	StudentID int    `query:"student_id"`
	ClassID   int    `query:"class_id"` // class of the graded student
	SubjectID int    `query:"subject_id"`
	TeacherID int    `query:"teacher_id"`
	Semester  string `query:"semester"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf == nil ||
		(qf.StudentID == 0 && qf.ClassID == 0 && qf.SubjectID == 0 && qf.TeacherID == 0 && qf.Semester == "")
}

func (qf *QueryFilter) Clean() {
	qf.Semester = core.CleanString(qf.Semester)
}

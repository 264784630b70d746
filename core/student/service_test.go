package student_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/student"
	"github.com/trezcool/rapor/storage/database/inmem"
	"github.com/trezcool/rapor/tests"
)

func TestNewStudent_Validate(t *testing.T) {
	ctx := context.Background()
	db, _ := inmemdb.Open()
	classes := inmemdb.NewClassRoomRepository(db)
	students := inmemdb.NewStudentRepository(db)
	svc := student.NewService(students, classes)
	validate, _ := testutil.NewValidator()

	cls := testutil.CreateClassRoom(t, classes, "IPA 1", "X", 1, 30)
	ahmad := testutil.CreateStudent(t, students, "Ahmad", "ahmad@student.id", "S001", cls.ID)

	fieldOf := func(err error) string {
		var vErr *core.ValidationError
		if errors.As(err, &vErr) && len(vErr.Fields) > 0 {
			return vErr.Fields[0].Field
		}
		return ""
	}

	t.Run("valid", func(t *testing.T) {
		ns := student.NewStudent{
			Name:          "  Dewi Lestari ",
			Email:         " Dewi@Student.ID",
			StudentNumber: "S002",
			ClassID:       cls.ID,
			BirthDate:     "2008-05-02",
		}
		require.NoError(t, ns.Validate(ctx, validate, svc))
		assert.Equal(t, "dewi@student.id", ns.Email)

		std, err := svc.Create(ctx, ns)
		require.NoError(t, err)
		assert.Equal(t, "Dewi Lestari", std.Name)
		assert.True(t, time.Date(2008, time.May, 2, 0, 0, 0, 0, time.UTC).Equal(std.BirthDate))
	})

	t.Run("bad birth date", func(t *testing.T) {
		ns := student.NewStudent{Name: "X", Email: "x@student.id", StudentNumber: "S100", ClassID: cls.ID, BirthDate: "02/05/2008"}
		assert.Error(t, ns.Validate(ctx, validate, svc))
	})

	t.Run("unknown class", func(t *testing.T) {
		ns := student.NewStudent{Name: "X", Email: "x@student.id", StudentNumber: "S100", ClassID: 42, BirthDate: "2008-05-02"}
		assert.Equal(t, "class_id", fieldOf(ns.Validate(ctx, validate, svc)))
	})

	t.Run("duplicate email", func(t *testing.T) {
		ns := student.NewStudent{Name: "X", Email: "AHMAD@student.id", StudentNumber: "S100", ClassID: cls.ID, BirthDate: "2008-05-02"}
		assert.Equal(t, "email", fieldOf(ns.Validate(ctx, validate, svc)))
	})

	t.Run("duplicate student number", func(t *testing.T) {
		ns := student.NewStudent{Name: "X", Email: "x@student.id", StudentNumber: "S001", ClassID: cls.ID, BirthDate: "2008-05-02"}
		assert.Equal(t, "student_number", fieldOf(ns.Validate(ctx, validate, svc)))
	})

	t.Run("update keeps own email", func(t *testing.T) {
		us := student.UpdateStudent{Name: "Ahmad Fauzi", Email: ahmad.Email, StudentNumber: ahmad.StudentNumber, ClassID: cls.ID, BirthDate: "2008-01-15"}
		require.NoError(t, us.Validate(ctx, validate, svc, ahmad))

		std, err := svc.Update(ctx, ahmad, us)
		require.NoError(t, err)
		assert.Equal(t, "Ahmad Fauzi", std.Name)
		assert.Equal(t, ahmad.CreatedAt, std.CreatedAt)
	})
}

package inmemdb_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/classroom"
	"github.com/trezcool/rapor/core/grade"
	"github.com/trezcool/rapor/core/student"
	"github.com/trezcool/rapor/core/subject"
	"github.com/trezcool/rapor/core/teacher"
	"github.com/trezcool/rapor/storage/database/inmem"
	"github.com/trezcool/rapor/tests"
)

func TestRepositories(t *testing.T) {
	ctx := context.Background()
	db, err := inmemdb.Open()
	require.NoError(t, err)

	subjects := inmemdb.NewSubjectRepository(db)
	teachers := inmemdb.NewTeacherRepository(db)
	classes := inmemdb.NewClassRoomRepository(db)
	students := inmemdb.NewStudentRepository(db)
	grades := inmemdb.NewGradeRepository(db)

	base := time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC)
	mtk := testutil.CreateSubject(t, subjects, "Matematika", "MTK", base)
	fis := testutil.CreateSubject(t, subjects, "Fisika", "FIS", base.Add(time.Minute))
	bio := testutil.CreateSubject(t, subjects, "Biologi", "BIO", base.Add(2*time.Minute))
	budi := testutil.CreateTeacher(t, teachers, "Budi", "budi@school.id", "T001", mtk.ID)
	siti := testutil.CreateTeacher(t, teachers, "Siti", "siti@school.id", "T002", fis.ID)
	x1 := testutil.CreateClassRoom(t, classes, "IPA 1", "X", budi.ID, 30)
	x2 := testutil.CreateClassRoom(t, classes, "IPA 2", "X", siti.ID, 30)
	ahmad := testutil.CreateStudent(t, students, "Ahmad", "ahmad@student.id", "S001", x1.ID)
	dewi := testutil.CreateStudent(t, students, "Dewi", "dewi@student.id", "S002", x2.ID)
	g1 := testutil.CreateGrade(t, grades, ahmad.ID, mtk.ID, budi.ID, "1", 70, base)
	g2 := testutil.CreateGrade(t, grades, dewi.ID, fis.ID, siti.ID, "1", 85, base.Add(time.Hour))
	g3 := testutil.CreateGrade(t, grades, ahmad.ID, fis.ID, siti.ID, "2", 90, base.Add(time.Hour))

	t.Run("ordering", func(t *testing.T) {
		all, err := subjects.QuerySubjects(ctx, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"BIO", "FIS", "MTK"}, codes(all))

		newest, err := subjects.QuerySubjects(ctx, nil, []core.DBOrdering{{Field: "created_at"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"BIO", "FIS", "MTK"}, codes(newest))

		byCode, err := subjects.QuerySubjects(ctx, &subject.QueryFilter{Search: "i"}, []core.DBOrdering{{Field: "code", Ascending: true}})
		require.NoError(t, err)
		assert.Equal(t, []string{"BIO", "FIS", "MTK"}, codes(byCode))

		grds, err := grades.QueryGrades(ctx, nil, nil)
		require.NoError(t, err)
		if assert.Len(t, grds, 3) {
			assert.Equal(t, []int{g3.ID, g2.ID, g1.ID}, []int{grds[0].ID, grds[1].ID, grds[2].ID})
		}
	})

	t.Run("filters", func(t *testing.T) {
		grds, err := grades.QueryGrades(ctx, &grade.QueryFilter{ClassID: x1.ID}, nil)
		require.NoError(t, err)
		assert.Len(t, grds, 2)

		grds, err = grades.QueryGrades(ctx, &grade.QueryFilter{TeacherID: siti.ID, Semester: "1"}, nil)
		require.NoError(t, err)
		if assert.Len(t, grds, 1) {
			assert.Equal(t, g2.ID, grds[0].ID)
		}

		tchs, err := teachers.QueryTeachers(ctx, &teacher.QueryFilter{Search: "T002"}, nil)
		require.NoError(t, err)
		assert.Len(t, tchs, 1)

		stds, err := students.QueryStudents(ctx, &student.QueryFilter{ClassID: x2.ID}, nil)
		require.NoError(t, err)
		assert.Len(t, stds, 1)

		cls, err := classes.QueryClassRooms(ctx, &classroom.QueryFilter{GradeLevel: "X", TeacherID: budi.ID}, nil)
		require.NoError(t, err)
		assert.Len(t, cls, 1)
	})

	t.Run("uniqueness", func(t *testing.T) {
		assert.Equal(t, subject.ErrCodeExists, subjects.CheckSubjectUniqueness(ctx, "MTK", 0))
		assert.Equal(t, teacher.ErrNIPExists, teachers.CheckTeacherUniqueness(ctx, "new@school.id", "T001", 0))
		assert.Equal(t, student.ErrEmailExists, students.CheckStudentUniqueness(ctx, "dewi@student.id", "S009", ahmad.ID))
	})

	t.Run("restricted deletes", func(t *testing.T) {
		assert.Equal(t, subject.ErrInUse, subjects.DeleteSubject(ctx, mtk.ID))
		assert.Equal(t, teacher.ErrInUse, teachers.DeleteTeacher(ctx, budi.ID))
		assert.Equal(t, classroom.ErrInUse, classes.DeleteClassRoom(ctx, x1.ID))
		assert.NoError(t, subjects.DeleteSubject(ctx, bio.ID))
		assert.Equal(t, subject.ErrNotFound, subjects.DeleteSubject(ctx, bio.ID))
	})

	t.Run("student cascade", func(t *testing.T) {
		require.NoError(t, students.DeleteStudent(ctx, ahmad.ID))
		grds, err := grades.QueryGrades(ctx, nil, nil)
		require.NoError(t, err)
		if assert.Len(t, grds, 1) {
			assert.Equal(t, g2.ID, grds[0].ID)
		}
		require.NoError(t, classes.DeleteClassRoom(ctx, x1.ID))
		require.NoError(t, teachers.DeleteTeacher(ctx, budi.ID))
		require.NoError(t, subjects.DeleteSubject(ctx, mtk.ID))
	})
}

func codes(sbjs []subject.Subject) []string {
	res := make([]string, 0, len(sbjs))
	for _, s := range sbjs {
		res = append(res, s.Code)
	}
	return res
}

package echoapi_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/rapor/core/grade"
	"github.com/trezcool/rapor/core/student"
	"github.com/trezcool/rapor/tests"
)

func Test_studentApi(t *testing.T) {
	app := setup(t)
	mtk := testutil.CreateSubject(t, sbjRepo, "Matematika", "MTK")
	budi := testutil.CreateTeacher(t, tchRepo, "Budi Santoso", "budi@school.id", "T001", mtk.ID)
	x1 := testutil.CreateClassRoom(t, clsRepo, "IPA 1", "X", budi.ID, 30)
	x2 := testutil.CreateClassRoom(t, clsRepo, "IPA 2", "X", budi.ID, 30)
	dewi := testutil.CreateStudent(t, stdRepo, "Dewi Lestari", "dewi@student.id", "S002", x2.ID)
	ahmad := testutil.CreateStudent(t, stdRepo, "Ahmad Fauzi", "ahmad@student.id", "S001", x1.ID)
	testutil.CreateGrade(t, grdRepo, ahmad.ID, mtk.ID, budi.ID, "1", 80)

	detail := func(id int) string { return fmt.Sprintf("/v1/students/%d", id) }
	valid := student.NewStudent{
		Name: "Rina", Email: "Rina@Student.id", StudentNumber: "S003", ClassID: x1.ID, BirthDate: "2008-05-17",
	}
	with := func(mod func(ns *student.NewStudent)) student.NewStudent {
		ns := valid
		mod(&ns)
		return ns
	}

	runTests(t, app, []httpTest{
		{name: "Get all (by name)", path: "/v1/students", wantData: marchallList(t, ahmad, dewi)},
		{name: "class_id", path: fmt.Sprintf("/v1/students?class_id=%d", x2.ID), wantData: marchallList(t, dewi)},
		{name: "search by number", path: "/v1/students?search=s001", wantData: marchallList(t, ahmad)},
		{name: "ordering=-student_number", path: "/v1/students?ordering=-student_number", wantData: marchallList(t, dewi, ahmad)},
		{
			name: "create (bad birth date)", method: http.MethodPost, path: "/v1/students",
			body:     marchallObj(t, with(func(ns *student.NewStudent) { ns.BirthDate = "17/05/2008" })),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"birth_date": "birth_date does not match the 2006-01-02 format"}),
		},
		{
			name: "create (unknown class)", method: http.MethodPost, path: "/v1/students",
			body:     marchallObj(t, with(func(ns *student.NewStudent) { ns.ClassID = 42 })),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"class_id": "class does not exist"}),
		},
		{
			name: "create (duplicate email)", method: http.MethodPost, path: "/v1/students",
			body:     marchallObj(t, with(func(ns *student.NewStudent) { ns.Email = "AHMAD@student.id" })),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": student.ErrEmailExists.Error()}),
		},
		{
			name: "create (duplicate student number)", method: http.MethodPost, path: "/v1/students",
			body:     marchallObj(t, with(func(ns *student.NewStudent) { ns.StudentNumber = "S002" })),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"student_number": student.ErrStudentNumberExists.Error()}),
		},
		{name: "retrieve", path: detail(dewi.ID), wantData: marchallObj(t, dewi)},
		{name: "retrieve (unknown)", path: detail(42), wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "student not found"})},
	})

	t.Run("create", func(t *testing.T) {
		rec := serve(app, httpTest{method: http.MethodPost, path: "/v1/students", body: marchallObj(t, valid)})
		assert.Equal(t, http.StatusCreated, rec.Code)

		std := decode[student.Student](t, rec)
		assert.Equal(t, "rina@student.id", std.Email)
		assert.True(t, time.Date(2008, time.May, 17, 0, 0, 0, 0, time.UTC).Equal(std.BirthDate))
	})

	t.Run("update (moving class)", func(t *testing.T) {
		rec := serve(app, httpTest{
			method: http.MethodPut, path: detail(dewi.ID),
			body: marchallObj(t, student.UpdateStudent{
				Name: dewi.Name, Email: dewi.Email, StudentNumber: dewi.StudentNumber, ClassID: x1.ID, BirthDate: "2008-01-15",
			}),
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, x1.ID, decode[student.Student](t, rec).ClassID)
	})

	t.Run("destroy (grades cascade)", func(t *testing.T) {
		rec := serve(app, httpTest{method: http.MethodDelete, path: detail(ahmad.ID)})
		assert.Equal(t, http.StatusNoContent, rec.Code)

		grades, err := grdRepo.QueryGrades(context.Background(), &grade.QueryFilter{StudentID: ahmad.ID}, nil)
		assert.NoError(t, err)
		assert.Empty(t, grades)
	})
}

package echoapi_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/rapor/core/classroom"
	"github.com/trezcool/rapor/tests"
)

func Test_classRoomApi(t *testing.T) {
	app := setup(t)
	mtk := testutil.CreateSubject(t, sbjRepo, "Matematika", "MTK")
	budi := testutil.CreateTeacher(t, tchRepo, "Budi Santoso", "budi@school.id", "T001", mtk.ID)
	siti := testutil.CreateTeacher(t, tchRepo, "Siti Nurhaliza", "siti@school.id", "T002", mtk.ID)
	xi := testutil.CreateClassRoom(t, clsRepo, "IPA 1", "XI", siti.ID, 32)
	x2 := testutil.CreateClassRoom(t, clsRepo, "IPA 2", "X", budi.ID, 30)
	x1 := testutil.CreateClassRoom(t, clsRepo, "IPA 1", "X", budi.ID, 30)
	testutil.CreateStudent(t, stdRepo, "Ahmad", "ahmad@student.id", "S001", x1.ID)

	detail := func(id int) string { return fmt.Sprintf("/v1/classes/%d", id) }

	runTests(t, app, []httpTest{
		{name: "Get all (by grade level, name)", path: "/v1/classes", wantData: marchallList(t, x1, x2, xi)},
		{name: "grade_level", path: "/v1/classes?grade_level=XI", wantData: marchallList(t, xi)},
		{name: "teacher_id", path: fmt.Sprintf("/v1/classes?teacher_id=%d", budi.ID), wantData: marchallList(t, x1, x2)},
		{name: "search", path: "/v1/classes?search=ipa%202", wantData: marchallList(t, x2)},
		{name: "ordering=-capacity", path: "/v1/classes?ordering=-capacity", wantData: marchallList(t, xi, x2, x1)},
		{
			name: "create (over capacity)", method: http.MethodPost, path: "/v1/classes",
			body:     marchallObj(t, classroom.NewClassRoom{Name: "IPS 1", GradeLevel: "X", TeacherID: budi.ID, Capacity: 51}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"capacity": "capacity must be 50 or less"}),
		},
		{
			name: "create (unknown teacher)", method: http.MethodPost, path: "/v1/classes",
			body:     marchallObj(t, classroom.NewClassRoom{Name: "IPS 1", GradeLevel: "X", TeacherID: 42, Capacity: 30}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"teacher_id": "teacher does not exist"}),
		},
		{name: "retrieve", path: detail(xi.ID), wantData: marchallObj(t, xi)},
		{
			name: "destroy (students enrolled)", method: http.MethodDelete, path: detail(x1.ID),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: classroom.ErrInUse.Error()}),
		},
		{name: "destroy (empty)", method: http.MethodDelete, path: detail(x2.ID), wantCode: http.StatusNoContent},
	})

	t.Run("create & update", func(t *testing.T) {
		rec := serve(app, httpTest{
			method: http.MethodPost, path: "/v1/classes",
			body: marchallObj(t, classroom.NewClassRoom{Name: " IPS 1 ", GradeLevel: "X", TeacherID: siti.ID, Capacity: 28}),
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
		cls := decode[classroom.ClassRoom](t, rec)
		assert.Equal(t, "IPS 1", cls.Name)
		assert.Equal(t, 28, cls.Capacity)

		rec = serve(app, httpTest{
			method: http.MethodPut, path: detail(cls.ID),
			body: marchallObj(t, classroom.UpdateClassRoom{Name: "IPS 1", GradeLevel: "XI", TeacherID: budi.ID, Capacity: 30}),
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		cls = decode[classroom.ClassRoom](t, rec)
		assert.Equal(t, "XI", cls.GradeLevel)
		assert.Equal(t, budi.ID, cls.TeacherID)
		assert.Equal(t, 30, cls.Capacity)
	})
}

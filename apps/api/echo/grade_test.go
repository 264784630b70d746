package echoapi_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/rapor/core/grade"
	"github.com/trezcool/rapor/tests"
)

func fPtr(f float64) *float64 { return &f }

func Test_gradeApi(t *testing.T) {
	app := setup(t)
	mtk := testutil.CreateSubject(t, sbjRepo, "Matematika", "MTK")
	fis := testutil.CreateSubject(t, sbjRepo, "Fisika", "FIS")
	budi := testutil.CreateTeacher(t, tchRepo, "Budi Santoso", "budi@school.id", "T001", mtk.ID)
	x1 := testutil.CreateClassRoom(t, clsRepo, "IPA 1", "X", budi.ID, 30)
	x2 := testutil.CreateClassRoom(t, clsRepo, "IPA 2", "X", budi.ID, 30)
	ahmad := testutil.CreateStudent(t, stdRepo, "Ahmad Fauzi", "ahmad@student.id", "S001", x1.ID)
	dewi := testutil.CreateStudent(t, stdRepo, "Dewi Lestari", "dewi@student.id", "S002", x2.ID)

	now := time.Now().UTC()
	g1 := testutil.CreateGrade(t, grdRepo, ahmad.ID, mtk.ID, budi.ID, "1", 80, now.Add(-2*time.Hour))
	g2 := testutil.CreateGrade(t, grdRepo, dewi.ID, fis.ID, budi.ID, "1", 75, now.Add(-time.Hour))
	g3 := testutil.CreateGrade(t, grdRepo, ahmad.ID, fis.ID, budi.ID, "2", 90, now)

	detail := func(id int) string { return fmt.Sprintf("/v1/grades/%d", id) }
	valid := grade.NewGrade{StudentID: dewi.ID, SubjectID: mtk.ID, TeacherID: budi.ID, Semester: "2", Grade: fPtr(0)}

	runTests(t, app, []httpTest{
		{name: "Get all (newest first)", path: "/v1/grades", wantData: marchallList(t, g3, g2, g1)},
		{name: "student_id", path: fmt.Sprintf("/v1/grades?student_id=%d", ahmad.ID), wantData: marchallList(t, g3, g1)},
		{name: "class_id", path: fmt.Sprintf("/v1/grades?class_id=%d", x2.ID), wantData: marchallList(t, g2)},
		{name: "subject_id & semester", path: fmt.Sprintf("/v1/grades?subject_id=%d&semester=1", fis.ID), wantData: marchallList(t, g2)},
		{name: "ordering=-grade", path: "/v1/grades?ordering=-grade", wantData: marchallList(t, g3, g1, g2)},
		{
			name: "create (missing grade)", method: http.MethodPost, path: "/v1/grades",
			body:     marchallObj(t, grade.NewGrade{StudentID: dewi.ID, SubjectID: mtk.ID, TeacherID: budi.ID, Semester: "2"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"grade": "this field is required"}),
		},
		{
			name: "create (out of range)", method: http.MethodPost, path: "/v1/grades",
			body:     marchallObj(t, grade.NewGrade{StudentID: dewi.ID, SubjectID: mtk.ID, TeacherID: budi.ID, Semester: "2", Grade: fPtr(100.5)}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"grade": "grade must be 100 or less"}),
		},
		{
			name: "create (unknown references)", method: http.MethodPost, path: "/v1/grades",
			body:     marchallObj(t, grade.NewGrade{StudentID: 42, SubjectID: 42, TeacherID: budi.ID, Semester: "2", Grade: fPtr(50)}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"student_id": "student not found", "subject_id": "subject not found"}),
		},
		{name: "retrieve", path: detail(g2.ID), wantData: marchallObj(t, g2)},
		{name: "destroy", method: http.MethodDelete, path: detail(g1.ID), wantCode: http.StatusNoContent},
		{name: "retrieve deleted", path: detail(g1.ID), wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "grade not found"})},
	})

	t.Run("create (zero grade) & update", func(t *testing.T) {
		rec := serve(app, httpTest{method: http.MethodPost, path: "/v1/grades", body: marchallObj(t, valid)})
		assert.Equal(t, http.StatusCreated, rec.Code)
		grd := decode[grade.Grade](t, rec)
		assert.Zero(t, grd.Grade)
		assert.Equal(t, "2", grd.Semester)

		upd := valid
		upd.Grade = fPtr(88.5)
		upd.Notes = "remedial"
		rec = serve(app, httpTest{method: http.MethodPut, path: detail(grd.ID), body: marchallObj(t, upd)})
		assert.Equal(t, http.StatusOK, rec.Code)
		grd = decode[grade.Grade](t, rec)
		assert.Equal(t, 88.5, grd.Grade)
		assert.Equal(t, "remedial", grd.Notes)
	})
}

package echoapi_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/rapor/core/subject"
	"github.com/trezcool/rapor/tests"
)

func Test_subjectApi_query(t *testing.T) {
	app := setup(t)

	mtk := testutil.CreateSubject(t, sbjRepo, "Matematika", "MTK")
	fis := testutil.CreateSubject(t, sbjRepo, "Fisika", "FIS")
	bind := testutil.CreateSubject(t, sbjRepo, "Bahasa Indonesia", "BIND")

	runTests(t, app, []httpTest{
		{name: "Get all (by name)", path: "/v1/subjects", wantData: marchallList(t, bind, fis, mtk)},
		{name: "trailing slash", path: "/v1/subjects/", wantData: marchallList(t, bind, fis, mtk)},
		{name: "search (unknown)", path: "/v1/subjects?search=lol", wantData: marchallList(t)},
		{name: "search by name", path: "/v1/subjects?search=MATEMA", wantData: marchallList(t, mtk)},
		{name: "search by code", path: "/v1/subjects?search=fis", wantData: marchallList(t, fis)},
		{name: "ordering=-code", path: "/v1/subjects?ordering=-code", wantData: marchallList(t, mtk, fis, bind)},
		{name: "ordering (unknown field)", path: "/v1/subjects?ordering=lol", wantData: marchallList(t, bind, fis, mtk)},
	})
}

func Test_subjectApi_create(t *testing.T) {
	app := setup(t)
	testutil.CreateSubject(t, sbjRepo, "Matematika", "MTK")

	runTests(t, app, []httpTest{
		{
			name: "required fields", method: http.MethodPost, path: "/v1/subjects", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "this field is required", "code": "this field is required"}),
		},
		{
			name: "code too long", method: http.MethodPost, path: "/v1/subjects",
			body:     marchallObj(t, subject.NewSubject{Name: "Kimia", Code: strings.Repeat("K", 21)}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"code": "code must be a maximum of 20 characters in length"}),
		},
		{
			name: "duplicate code (case-insensitive)", method: http.MethodPost, path: "/v1/subjects",
			body:     marchallObj(t, subject.NewSubject{Name: "Matematika Lanjut", Code: "mtk"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"code": subject.ErrCodeExists.Error()}),
		},
		{name: "malformed body", method: http.MethodPost, path: "/v1/subjects", body: []byte(`{`), wantCode: http.StatusBadRequest},
	})

	t.Run("valid", func(t *testing.T) {
		rec := serve(app, httpTest{
			method: http.MethodPost, path: "/v1/subjects",
			body: marchallObj(t, subject.NewSubject{Name: "  Kimia ", Code: "kim", Description: "Ilmu kimia"}),
		})
		assert.Equal(t, http.StatusCreated, rec.Code)

		sbj := decode[subject.Subject](t, rec)
		assert.NotZero(t, sbj.ID)
		assert.Equal(t, "Kimia", sbj.Name)
		assert.Equal(t, "KIM", sbj.Code)
		assert.Equal(t, "Ilmu kimia", sbj.Description)
		assert.False(t, sbj.CreatedAt.IsZero())
	})

	t.Run("code with punctuation", func(t *testing.T) {
		rec := serve(app, httpTest{
			method: http.MethodPost, path: "/v1/subjects",
			body: marchallObj(t, subject.NewSubject{Name: "Matematika Wajib", Code: "mtk-01"}),
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "MTK-01", decode[subject.Subject](t, rec).Code)
	})
}

func Test_subjectApi_retrieve(t *testing.T) {
	app := setup(t)
	mtk := testutil.CreateSubject(t, sbjRepo, "Matematika", "MTK")

	runTests(t, app, []httpTest{
		{name: "found", path: "/v1/subjects/1", wantData: marchallObj(t, mtk)},
		{name: "unknown ID", path: "/v1/subjects/42", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "subject not found"})},
		{name: "invalid ID", path: "/v1/subjects/lol", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
	})
}

func Test_subjectApi_update(t *testing.T) {
	app := setup(t)
	mtk := testutil.CreateSubject(t, sbjRepo, "Matematika", "MTK")
	testutil.CreateSubject(t, sbjRepo, "Fisika", "FIS")

	runTests(t, app, []httpTest{
		{
			name: "duplicate code", method: http.MethodPut, path: "/v1/subjects/1",
			body:     marchallObj(t, subject.UpdateSubject{Name: "Matematika", Code: "FIS"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"code": subject.ErrCodeExists.Error()}),
		},
		{
			name: "unknown ID", method: http.MethodPut, path: "/v1/subjects/42",
			body:     marchallObj(t, subject.UpdateSubject{Name: "Matematika", Code: "MTK"}),
			wantCode: http.StatusNotFound,
		},
	})

	t.Run("keeping its own code", func(t *testing.T) {
		rec := serve(app, httpTest{
			method: http.MethodPut, path: "/v1/subjects/1",
			body: marchallObj(t, subject.UpdateSubject{Name: "Matematika Wajib", Code: "MTK"}),
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		sbj := decode[subject.Subject](t, rec)
		assert.Equal(t, mtk.ID, sbj.ID)
		assert.Equal(t, "Matematika Wajib", sbj.Name)
		assert.True(t, mtk.CreatedAt.Equal(sbj.CreatedAt))
		assert.False(t, sbj.UpdatedAt.Before(mtk.UpdatedAt))
	})
}

func Test_subjectApi_destroy(t *testing.T) {
	app := setup(t)
	mtk := testutil.CreateSubject(t, sbjRepo, "Matematika", "MTK")
	testutil.CreateSubject(t, sbjRepo, "Fisika", "FIS")
	testutil.CreateTeacher(t, tchRepo, "Budi", "budi@school.id", "T001", mtk.ID)

	runTests(t, app, []httpTest{
		{
			name: "still taught", method: http.MethodDelete, path: "/v1/subjects/1",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: subject.ErrInUse.Error()}),
		},
		{name: "unused", method: http.MethodDelete, path: "/v1/subjects/2", wantCode: http.StatusNoContent},
		{name: "already deleted", method: http.MethodDelete, path: "/v1/subjects/2", wantCode: http.StatusNotFound},
		{name: "remaining", path: "/v1/subjects", wantData: marchallList(t, mtk)},
	})
}

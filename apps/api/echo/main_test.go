package echoapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/rapor/apps/api/echo"
	"github.com/trezcool/rapor/core/classroom"
	"github.com/trezcool/rapor/core/grade"
	"github.com/trezcool/rapor/core/report"
	"github.com/trezcool/rapor/core/student"
	"github.com/trezcool/rapor/core/subject"
	"github.com/trezcool/rapor/core/teacher"
	"github.com/trezcool/rapor/services/logger"
	"github.com/trezcool/rapor/storage/database/inmem"
	"github.com/trezcool/rapor/tests"
)

var (
	sbjRepo subject.Repository
	tchRepo teacher.Repository
	clsRepo classroom.Repository
	stdRepo student.Repository
	grdRepo grade.Repository

	errNotFound = httpErr{Error: "not found"}
)

// setup resets the store and returns a server wired to it.
func setup(t *testing.T) *Server {
	t.Helper()

	// set up DB & repos
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	sbjRepo = inmemdb.NewSubjectRepository(db)
	tchRepo = inmemdb.NewTeacherRepository(db)
	clsRepo = inmemdb.NewClassRoomRepository(db)
	stdRepo = inmemdb.NewStudentRepository(db)
	grdRepo = inmemdb.NewGradeRepository(db)

	// set up services
	conf := testutil.NewConfig()
	validate, translator := testutil.NewValidator()
	return NewServer(Deps{
		Conf:       conf,
		Logger:     logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf),
		Validate:   validate,
		Translator: translator,
		SubjectSvc: subject.NewService(sbjRepo),
		TeacherSvc: teacher.NewService(tchRepo, sbjRepo),
		ClassSvc:   classroom.NewService(clsRepo, tchRepo),
		StudentSvc: student.NewService(stdRepo, clsRepo),
		GradeSvc:   grade.NewService(grdRepo, stdRepo, sbjRepo, tchRepo),
		ReportSvc: report.NewService(report.Repositories{
			Subjects: sbjRepo,
			Teachers: tchRepo,
			Classes:  clsRepo,
			Students: stdRepo,
			Grades:   grdRepo,
		}, report.NewOptions(conf)),
	})
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func serve(app *Server, tt httpTest) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newRequest(method, tt.path, tt.body)
	app.ServeHTTP(rec, req)
	return rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runTests(t *testing.T, app *Server, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, serve(app, tt))
		})
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var obj T
	if !assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &obj)) {
		t.FailNow()
	}
	return obj
}

func Test_home(t *testing.T) {
	app := setup(t)
	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Rapor API!", rec.Body.String())
}

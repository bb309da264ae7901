package echoapi_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/autom8/core/exchange"
	"github.com/trezcool/autom8/core/record"
	"github.com/trezcool/autom8/tests"
)

func Test_dataApi_backupAndRestore(t *testing.T) {
	src := setup(t)
	testutil.CreateCourse(t, src.store, "c1", "CS101")
	testutil.CreateStudent(t, src.store, "s1", "Ada")
	src.store.EnrollStudents("c1", []string{"s1"})

	for _, format := range []string{exchange.FormatJSON, exchange.FormatYAML} {
		t.Run(format, func(t *testing.T) {
			rec := src.do(httpTest{path: "/v1/data/backup?format=" + format})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "autom8_backup_2024-03-04."+format)

			dst := setup(t)
			testutil.CreateStudent(t, dst.store, "old", "Old")

			rec = dst.do(httpTest{method: http.MethodPost, path: "/v1/data/restore", body: rec.Body.Bytes()})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, src.store.Stats(), dst.store.Stats())
			_, ok := dst.store.GetStudent("old")
			assert.False(t, ok, "restore drops existing records")
		})
	}

	rec := src.do(httpTest{path: "/v1/data/backup?format=xml"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_dataApi_import(t *testing.T) {
	f := setup(t)
	testutil.CreateStudent(t, f.store, "old", "Old")
	before := f.db.Writes()

	backup := `{"students":[{"id":"s1","rollNumber":"R1","name":"Ada"}],"settings":{"seeWeightage":70}}`
	runHTTPTests(t, f, []httpTest{
		{
			name: "import", method: http.MethodPost, path: "/v1/data/import", body: []byte(backup),
			wantCode: http.StatusOK, wantData: []byte(`{"courses":0,"students":2,"attendance":0,"gradingScales":0,"studentGrades":0}`),
		},
		{name: "empty", method: http.MethodPost, path: "/v1/data/import", body: []byte(` `), wantCode: http.StatusBadRequest},
		{
			name: "invalid record", method: http.MethodPost, path: "/v1/data/import",
			body:     []byte(`{"students":[{"id":"s2","name":"Brian"}]}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"rollNumber":"this field is required"}`),
		},
	})
	assert.Equal(t, before+1, f.db.Writes(), "one write per import")
	assert.Equal(t, record.Settings{TargetPercentage: 70, CIEWeightage: 40, SEEWeightage: 70}, f.store.Settings())
}

func Test_dataApi_maintenance(t *testing.T) {
	f := setup(t)
	testutil.CreateCourse(t, f.store, "c1", "CS101")
	testutil.CreateStudent(t, f.store, "s1", "Ada")
	f.store.EnrollStudents("c1", []string{"s1"})
	f.store.AddStudentGrade(record.StudentGrade{StudentID: "s1", CourseID: "gone"})

	runHTTPTests(t, f, []httpTest{
		{
			name: "orphans", path: "/v1/data/orphans", wantCode: http.StatusOK,
			wantData: []byte(`[
				{"kind":"grade","studentId":"s1","courseId":"gone","detail":"unknown course"},
				{"kind":"enrollment","studentId":"s1","courseId":"c1","detail":"missing from enrolled courses"}
			]`),
		},
		{name: "sync", method: http.MethodPost, path: "/v1/data/sync-enrollments", wantCode: http.StatusOK},
		{
			name: "orphans after sync", path: "/v1/data/orphans", wantCode: http.StatusOK,
			wantData: []byte(`[{"kind":"grade","studentId":"s1","courseId":"gone","detail":"unknown course"}]`),
		},
		{name: "reset", method: http.MethodDelete, path: "/v1/data", wantCode: http.StatusNoContent},
		{name: "empty after reset", path: "/v1/courses", wantCode: http.StatusOK, wantData: marchallList(t)},
	})
	st, _ := f.store.GetStudent("s1")
	assert.Empty(t, st.ID)
	assert.True(t, strings.HasPrefix(f.do(httpTest{path: "/"}).Body.String(), "Welcome to"))
}

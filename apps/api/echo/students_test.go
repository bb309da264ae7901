package echoapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/autom8/core/record"
	"github.com/trezcool/autom8/tests"
)

func Test_studentApi(t *testing.T) {
	f := setup(t)

	rec := f.do(httpTest{
		method: http.MethodPost, path: "/v1/students",
		body: []byte(`{"rollNumber":"R-1","name":"Ada","email":" ADA@School.TEST "}`),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var ada record.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ada))
	assert.NotEmpty(t, ada.ID)
	assert.Equal(t, "ada@school.test", ada.Email)
	assert.Equal(t, []string{}, ada.EnrolledCourses)

	path := "/v1/students/" + ada.ID
	renamed := ada
	renamed.Name = "Ada Lovelace"

	runHTTPTests(t, f, []httpTest{
		{
			name: "bad email", method: http.MethodPost, path: "/v1/students",
			body:     []byte(`{"rollNumber":"R-2","name":"Brian","email":"nope"}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"email":"email must be a valid email address"}`),
		},
		{
			name: "missing roll number", method: http.MethodPost, path: "/v1/students",
			body:     []byte(`{"name":"Brian"}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"rollNumber":"this field is required"}`),
		},
		{name: "list", path: "/v1/students", wantCode: http.StatusOK, wantData: marchallList(t, ada)},
		{name: "retrieve", path: path, wantCode: http.StatusOK, wantData: marchallObj(t, ada)},
		{name: "unknown", path: "/v1/students/nope", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "unknown performance", path: "/v1/students/nope/performance", wantCode: http.StatusNotFound},
		{
			name: "update", method: http.MethodPut, path: path,
			body: []byte(`{"name":"Ada Lovelace"}`), wantCode: http.StatusOK, wantData: marchallObj(t, renamed),
		},
		{name: "no courses", path: path + "/courses", wantCode: http.StatusOK, wantData: marchallList(t)},
		{name: "no grades", path: path + "/grades", wantCode: http.StatusOK, wantData: marchallList(t)},
	})

	runHTTPTests(t, f, []httpTest{
		{name: "destroy", method: http.MethodDelete, path: path, wantCode: http.StatusNoContent},
		{name: "gone", path: path, wantCode: http.StatusNotFound},
	})
}

func Test_studentApi_performance(t *testing.T) {
	f := setup(t)
	testutil.CreateCourse(t, f.store, "c1", "CS101")
	testutil.CreateCourse(t, f.store, "c2", "CS102")
	testutil.CreateStudent(t, f.store, "s1", "Ada")
	f.store.EnrollStudents("c1", []string{"s1"})
	f.store.EnrollStudents("c2", []string{"s1"})
	f.store.AddStudentGrade(record.StudentGrade{StudentID: "s1", CourseID: "c1", TotalMarks: 91, Grade: "A+", GPA: 4})
	f.store.AddStudentGrade(record.StudentGrade{StudentID: "s1", CourseID: "c2", TotalMarks: 62, Grade: "B", GPA: 3})
	f.store.AddAttendance(record.AttendanceRecord{StudentID: "s1", CourseID: "c1", Date: "2024-03-04", Status: record.StatusPresent})
	f.store.AddAttendance(record.AttendanceRecord{StudentID: "s1", CourseID: "c1", Date: "2024-03-05", Status: record.StatusAbsent})

	rec := f.do(httpTest{path: "/v1/students/s1/performance"})
	require.Equal(t, http.StatusOK, rec.Code)
	var perf record.Performance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &perf))
	assert.Equal(t, 3.5, perf.AverageGPA)
	assert.Equal(t, 4.0, perf.HighestGPA)
	assert.Equal(t, 3.0, perf.LowestGPA)
	assert.Equal(t, 50.0, perf.Attendance.Percentage)
	require.Len(t, perf.Courses, 2)
	assert.Equal(t, "CS102", perf.Courses[1].CourseCode)

	rec = f.do(httpTest{path: "/v1/students/s1/courses"})
	require.Equal(t, http.StatusOK, rec.Code)
	var courses []record.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &courses))
	require.Len(t, courses, 2)
	assert.Equal(t, "c1", courses[0].ID)
}

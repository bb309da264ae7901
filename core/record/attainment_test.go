package record_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/autom8/core/record"
	"github.com/trezcool/autom8/tests"
)

func courseWithMarks(outcomes []record.CourseOutcome, marks ...map[string]float64) record.Course {
	c := record.Course{ID: "c1", Code: "CS101", Outcomes: outcomes}
	for i, m := range marks {
		c.Students = append(c.Students, record.StudentMark{StudentID: string(rune('a' + i)), Marks: m})
	}
	return c
}

func TestOutcomeAttainment(t *testing.T) {
	o1 := testutil.Outcome("o1", "CO1", 70)
	o2 := testutil.Outcome("o2", "CO2", 40)

	tests := []struct {
		name string
		c    record.Course
		want []record.Attainment
	}{
		{
			name: "below target",
			c: courseWithMarks([]record.CourseOutcome{o1},
				map[string]float64{"o1": 90}, map[string]float64{"o1": 60},
				map[string]float64{"o1": 75}, map[string]float64{"o1": 40},
			),
			want: []record.Attainment{{
				OutcomeID: "o1", Code: "CO1", Description: o1.Description, Target: 70,
				Students: 4, Attained: 2, Percentage: 50, Status: record.AttainmentBelowTarget,
			}},
		},
		{
			name: "achieved, missing mark counts as zero",
			c: courseWithMarks([]record.CourseOutcome{o2},
				map[string]float64{"o2": 40}, map[string]float64{"o2": 41},
				map[string]float64{}, map[string]float64{"o2": 50},
			),
			want: []record.Attainment{{
				OutcomeID: "o2", Code: "CO2", Description: o2.Description, Target: 40,
				Students: 4, Attained: 3, Percentage: 75, Status: record.AttainmentAchieved,
			}},
		},
		{
			name: "no students",
			c:    courseWithMarks([]record.CourseOutcome{o1}),
			want: []record.Attainment{{
				OutcomeID: "o1", Code: "CO1", Description: o1.Description, Target: 70,
				Status: record.AttainmentBelowTarget,
			}},
		},
		{name: "no outcomes", c: courseWithMarks(nil, map[string]float64{"o1": 90}), want: []record.Attainment{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, record.OutcomeAttainment(tt.c)); diff != "" {
				t.Errorf("OutcomeAttainment() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCourseAttainment(t *testing.T) {
	c := courseWithMarks(
		[]record.CourseOutcome{testutil.Outcome("o1", "CO1", 70), testutil.Outcome("o2", "CO2", 70)},
		map[string]float64{"o1": 80, "o2": 80},
		map[string]float64{"o1": 80, "o2": 10},
	)
	assert.Equal(t, 75.0, record.CourseAttainment(c))
	assert.Equal(t, 0.0, record.CourseAttainment(record.Course{}))
	assert.Equal(t, 37.5, record.OverallAttainment([]record.Course{c, courseWithMarks([]record.CourseOutcome{testutil.Outcome("o1", "CO1", 70)})}))
	assert.Equal(t, 0.0, record.OverallAttainment(nil))
}

func TestAverageOutcomeMarks(t *testing.T) {
	c := courseWithMarks(
		[]record.CourseOutcome{testutil.Outcome("o1", "CO1", 70), testutil.Outcome("o2", "CO2", 70)},
		map[string]float64{"o1": 80, "o2": 50},
		map[string]float64{"o1": 60},
	)
	want := []record.OutcomeAverage{
		{OutcomeID: "o1", Code: "CO1", Average: 70},
		{OutcomeID: "o2", Code: "CO2", Average: 25},
	}
	if diff := cmp.Diff(want, record.AverageOutcomeMarks(c)); diff != "" {
		t.Errorf("AverageOutcomeMarks() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeAttendance(t *testing.T) {
	records := []record.AttendanceRecord{
		att("s1", "c1", "d1", record.StatusPresent),
		att("s1", "c1", "d2", record.StatusPresent),
		att("s1", "c1", "d3", record.StatusAbsent),
		att("s1", "c1", "d4", record.StatusLeave),
	}
	want := record.AttendanceSummary{Present: 2, Absent: 1, Leave: 1, Total: 4, Percentage: 50}
	assert.Equal(t, want, record.SummarizeAttendance(records))
	assert.Equal(t, record.AttendanceSummary{}, record.SummarizeAttendance(nil))
}

func TestStore_CourseAttendanceStats(t *testing.T) {
	store, _ := testutil.NewStore(t)
	testutil.CreateCourse(t, store, "c1", "CS101")
	testutil.CreateStudent(t, store, "s1", "Ada")
	testutil.CreateStudent(t, store, "s2", "Brian")
	store.EnrollStudents("c1", []string{"s2", "s1", "ghost"})
	store.SetAttendanceFor("c1", "d1", map[string]record.AttendanceStatus{"s1": record.StatusPresent, "s2": record.StatusAbsent})
	store.SetAttendanceFor("c1", "d2", map[string]record.AttendanceStatus{"s1": record.StatusAbsent, "s2": record.StatusAbsent})

	stats := store.CourseAttendanceStats("c1")
	require.Len(t, stats, 2)
	assert.Equal(t, "s2", stats[0].StudentID)
	assert.Equal(t, 0.0, stats[0].Summary.Percentage)
	assert.Equal(t, "s1", stats[1].StudentID)
	assert.Equal(t, "R-s1", stats[1].RollNumber)
	assert.Equal(t, 50.0, stats[1].Summary.Percentage)
}

func TestStore_GradeDistribution(t *testing.T) {
	store, _ := testutil.NewStore(t)
	for _, g := range []string{"B", "A", "B", "F", "A", "B"} {
		store.AddStudentGrade(record.StudentGrade{StudentID: "s", CourseID: "c1", Grade: g})
	}
	store.AddStudentGrade(record.StudentGrade{StudentID: "s", CourseID: "c2", Grade: "A"})

	want := []record.GradeCount{{Grade: "B", Count: 3}, {Grade: "A", Count: 2}, {Grade: "F", Count: 1}}
	assert.Equal(t, want, store.GradeDistribution("c1"))
	assert.Empty(t, store.GradeDistribution("nope"))
}

func TestStore_Alerts(t *testing.T) {
	store, _ := testutil.NewStore(t)
	testutil.CreateCourse(t, store, "c1", "CS101")
	testutil.CreateStudent(t, store, "s1", "Ada")
	testutil.CreateStudent(t, store, "s2", "Brian")
	testutil.CreateStudent(t, store, "s3", "Cleo")
	store.EnrollStudents("c1", []string{"s1", "s2", "s3"})
	// s1: 50%, s2: 100%, s3: no records
	store.SetAttendanceFor("c1", "d1", map[string]record.AttendanceStatus{"s1": record.StatusPresent, "s2": record.StatusPresent})
	store.SetAttendanceFor("c1", "d2", map[string]record.AttendanceStatus{"s1": record.StatusLeave, "s2": record.StatusPresent})
	store.AddStudentGrade(record.StudentGrade{StudentID: "s2", CourseID: "c1", Grade: "C", GPA: 2.0})
	store.AddStudentGrade(record.StudentGrade{StudentID: "s3", CourseID: "c1", Grade: "F", GPA: 0})
	// deleted students raise no alert
	store.AddStudentGrade(record.StudentGrade{StudentID: "gone", CourseID: "c1", Grade: "F", GPA: 0})

	want := []record.Alert{
		{
			Kind: record.AlertLowAttendance, StudentID: "s1", StudentName: "Ada", CourseID: "c1", CourseCode: "CS101",
			Value: 50, Threshold: record.DefaultAttendanceThreshold,
		},
		{
			Kind: record.AlertLowGPA, StudentID: "s3", StudentName: "Cleo", CourseID: "c1", CourseCode: "CS101",
			Value: 0, Threshold: record.DefaultGPAThreshold,
		},
	}
	got := store.Alerts(record.DefaultAttendanceThreshold, record.DefaultGPAThreshold)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Alerts() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_StudentPerformance(t *testing.T) {
	store, _ := testutil.NewStore(t)
	testutil.CreateCourse(t, store, "c1", "CS101")
	testutil.CreateCourse(t, store, "c2", "CS102")
	testutil.CreateCourse(t, store, "c3", "CS103")
	testutil.CreateStudent(t, store, "s1", "Ada")
	store.EnrollStudents("c1", []string{"s1"})
	store.EnrollStudents("c2", []string{"s1"})
	store.AddStudentGrade(record.StudentGrade{StudentID: "s1", CourseID: "c1", Grade: "A", GPA: 3.7})
	store.AddStudentGrade(record.StudentGrade{StudentID: "s1", CourseID: "c2", Grade: "C", GPA: 2.0})
	store.SetAttendanceFor("c1", "d1", map[string]record.AttendanceStatus{"s1": record.StatusPresent})
	store.SetAttendanceFor("c2", "d1", map[string]record.AttendanceStatus{"s1": record.StatusAbsent})

	perf, err := store.StudentPerformance("s1")
	require.NoError(t, err)
	assert.InDelta(t, 2.85, perf.AverageGPA, 1e-9)
	assert.Equal(t, 3.7, perf.HighestGPA)
	assert.Equal(t, 2.0, perf.LowestGPA)
	assert.Equal(t, 50.0, perf.Attendance.Percentage)
	require.Len(t, perf.Courses, 2)
	assert.Equal(t, "c1", perf.Courses[0].CourseID)
	require.NotNil(t, perf.Courses[0].Grade)
	assert.Equal(t, "A", perf.Courses[0].Grade.Grade)
	assert.Equal(t, 0.0, perf.Courses[1].Attendance.Percentage)

	_, err = store.StudentPerformance("nope")
	assert.Equal(t, record.ErrNotFound, err)
}

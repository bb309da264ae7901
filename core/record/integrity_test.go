package record_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/trezcool/autom8/core/record"
	"github.com/trezcool/autom8/tests"
)

func TestStore_Orphans(t *testing.T) {
	store, _ := testutil.NewStore(t)
	testutil.CreateCourse(t, store, "c1", "CS101")
	testutil.CreateCourse(t, store, "c2", "CS102")
	testutil.CreateStudent(t, store, "s1", "Ada")
	testutil.CreateStudent(t, store, "s2", "Brian")
	store.EnrollStudents("c1", []string{"s1", "s2"})
	store.EnrollStudents("c2", []string{"s1"})
	store.SyncEnrollments()
	store.AddStudentGrade(record.StudentGrade{StudentID: "s1", CourseID: "c2"})
	store.AddAttendance(record.AttendanceRecord{StudentID: "s2", CourseID: "c1", Date: "d1", Status: record.StatusPresent})

	if got := store.Orphans(); len(got) != 0 {
		t.Fatalf("Orphans() on consistent store = %+v, want none", got)
	}

	store.DeleteCourse("c2")
	store.DeleteStudent("s2")

	want := []record.Orphan{
		{Kind: record.OrphanGrade, StudentID: "s1", CourseID: "c2", Detail: "unknown course"},
		{Kind: record.OrphanAttendance, StudentID: "s2", CourseID: "c1", Detail: "unknown student"},
		{Kind: record.OrphanMark, StudentID: "s2", CourseID: "c1", Detail: "unknown student"},
		{Kind: record.OrphanEnrollment, StudentID: "s1", CourseID: "c2", Detail: "unknown course"},
	}
	if diff := cmp.Diff(want, store.Orphans(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Orphans() mismatch (-want +got):\n%s", diff)
	}

	store.UnenrollStudents("c1", []string{"s1"})
	found := false
	for _, o := range store.Orphans() {
		if o.Kind == record.OrphanEnrollment && o.CourseID == "c1" && o.Detail == "not on course roster" {
			found = true
		}
	}
	if !found {
		t.Errorf("Orphans() missing the one-sided enrollment of s1 in c1")
	}
}

package record_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/trezcool/autom8/core/record"
	"github.com/trezcool/autom8/tests"
)

func att(sid, cid, date string, status record.AttendanceStatus) record.AttendanceRecord {
	return record.AttendanceRecord{StudentID: sid, CourseID: cid, Date: date, Status: status}
}

func TestAttendanceStatus_Next(t *testing.T) {
	tests := []struct {
		status record.AttendanceStatus
		want   record.AttendanceStatus
	}{
		{record.StatusPresent, record.StatusAbsent},
		{record.StatusAbsent, record.StatusLeave},
		{record.StatusLeave, record.StatusPresent},
		{"late", record.StatusPresent},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Next(); got != tt.want {
				t.Errorf("Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStore_AddAttendance_doesNotDedup(t *testing.T) {
	store, _ := testutil.NewStore(t)
	store.AddAttendance(att("s1", "c1", "2024-03-01", record.StatusPresent))
	store.AddAttendance(att("s1", "c1", "2024-03-01", record.StatusAbsent))

	if got := len(store.GetAttendance("c1", "s1")); got != 2 {
		t.Errorf("len(GetAttendance()) = %d, want 2", got)
	}
	// last one wins in the map
	if got := store.GetAttendanceMap("c1", "2024-03-01")["s1"]; got != record.StatusAbsent {
		t.Errorf("GetAttendanceMap()[s1] = %v, want %v", got, record.StatusAbsent)
	}
}

func TestStore_GetAttendance(t *testing.T) {
	store, _ := testutil.NewStore(t)
	records := []record.AttendanceRecord{
		att("s1", "c1", "2024-03-02", record.StatusPresent),
		att("s2", "c1", "2024-03-01", record.StatusAbsent),
		att("s1", "c2", "2024-03-01", record.StatusLeave),
		att("s1", "c1", "2024-03-01", record.StatusLeave),
	}
	for _, rec := range records {
		store.AddAttendance(rec)
	}

	tests := []struct {
		name      string
		courseID  string
		studentID []string
		want      []record.AttendanceRecord
	}{
		{name: "course, insertion order", courseID: "c1", want: []record.AttendanceRecord{records[0], records[1], records[3]}},
		{name: "course and student", courseID: "c1", studentID: []string{"s1"}, want: []record.AttendanceRecord{records[0], records[3]}},
		{name: "empty student means all", courseID: "c2", studentID: []string{""}, want: []record.AttendanceRecord{records[2]}},
		{name: "unknown course", courseID: "nope", want: []record.AttendanceRecord{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.GetAttendance(tt.courseID, tt.studentID...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("GetAttendance() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_GetAttendanceMap_exactDate(t *testing.T) {
	store, _ := testutil.NewStore(t)
	store.AddAttendance(att("s1", "c1", "2024-03-01", record.StatusPresent))
	store.AddAttendance(att("s2", "c1", "2024-03-01T00:00:00Z", record.StatusAbsent))

	want := map[string]record.AttendanceStatus{"s1": record.StatusPresent}
	if diff := cmp.Diff(want, store.GetAttendanceMap("c1", "2024-03-01")); diff != "" {
		t.Errorf("GetAttendanceMap() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SetAttendanceFor(t *testing.T) {
	date := "2024-03-01"
	tests := []struct {
		name     string
		existing []record.AttendanceRecord
		statuses map[string]record.AttendanceStatus
	}{
		{
			name:     "fresh",
			statuses: map[string]record.AttendanceStatus{"s1": record.StatusPresent, "s2": record.StatusAbsent},
		},
		{
			name: "replaces duplicates and absent students",
			existing: []record.AttendanceRecord{
				att("s1", "c1", date, record.StatusAbsent),
				att("s1", "c1", date, record.StatusLeave),
				att("s3", "c1", date, record.StatusPresent),
			},
			statuses: map[string]record.AttendanceStatus{"s1": record.StatusPresent, "s2": record.StatusLeave},
		},
		{
			name:     "empty mapping clears the day",
			existing: []record.AttendanceRecord{att("s1", "c1", date, record.StatusAbsent)},
			statuses: map[string]record.AttendanceStatus{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := testutil.NewStore(t)
			other := []record.AttendanceRecord{
				att("s1", "c1", "2024-03-02", record.StatusAbsent),
				att("s1", "c2", date, record.StatusAbsent),
			}
			for _, rec := range append(tt.existing, other...) {
				store.AddAttendance(rec)
			}

			store.SetAttendanceFor("c1", date, tt.statuses)

			if diff := cmp.Diff(tt.statuses, store.GetAttendanceMap("c1", date)); diff != "" {
				t.Errorf("GetAttendanceMap() mismatch (-want +got):\n%s", diff)
			}
			if got, want := len(store.Attendance()), len(tt.statuses)+len(other); got != want {
				t.Errorf("len(Attendance()) = %d, want %d", got, want)
			}
			if got := store.GetAttendanceMap("c1", "2024-03-02")["s1"]; got != record.StatusAbsent {
				t.Errorf("other date touched: %v", got)
			}
			if got := store.GetAttendanceMap("c2", date)["s1"]; got != record.StatusAbsent {
				t.Errorf("other course touched: %v", got)
			}
		})
	}
}

func TestStore_ToggleAttendance(t *testing.T) {
	store, _ := testutil.NewStore(t)
	want := []record.AttendanceStatus{record.StatusPresent, record.StatusAbsent, record.StatusLeave, record.StatusPresent}

	for i, w := range want {
		store.ToggleAttendance("s1", "c1", "2024-03-01")
		if got := store.GetAttendanceMap("c1", "2024-03-01")["s1"]; got != w {
			t.Errorf("toggle #%d: status = %v, want %v", i+1, got, w)
		}
	}
	if got := len(store.Attendance()); got != 1 {
		t.Errorf("len(Attendance()) = %d, want 1", got)
	}
}

func TestStore_ToggleAttendance_firstMatchOnly(t *testing.T) {
	store, _ := testutil.NewStore(t)
	store.AddAttendance(att("s1", "c1", "2024-03-01", record.StatusAbsent))
	store.AddAttendance(att("s1", "c1", "2024-03-01", record.StatusAbsent))

	store.ToggleAttendance("s1", "c1", "2024-03-01")

	want := []record.AttendanceRecord{
		att("s1", "c1", "2024-03-01", record.StatusLeave),
		att("s1", "c1", "2024-03-01", record.StatusAbsent),
	}
	if diff := cmp.Diff(want, store.GetAttendance("c1")); diff != "" {
		t.Errorf("GetAttendance() mismatch (-want +got):\n%s", diff)
	}
}

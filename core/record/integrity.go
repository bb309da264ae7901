package record

import (
	"github.com/volatiletech/strmangle"
)

// Orphan kinds
const (
	OrphanGrade      = "grade"
	OrphanAttendance = "attendance"
	OrphanMark       = "mark"
	OrphanEnrollment = "enrollment"
)

// Orphan is a row holding a reference to a course or student that no longer exists,
// or an enrollment listed on only one side.
type Orphan struct {
	Kind      string `json:"kind"`
	StudentID string `json:"studentId"`
	CourseID  string `json:"courseId"`
	Detail    string `json:"detail"`
}

// Orphans audits cross-collection references. It reports only; nothing is removed.
func (s *Store) Orphans() []Orphan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courseIDs := make([]string, 0, len(s.state.Courses))
	for _, c := range s.state.Courses {
		courseIDs = append(courseIDs, c.ID)
	}
	studentIDs := make([]string, 0, len(s.state.Students))
	for _, st := range s.state.Students {
		studentIDs = append(studentIDs, st.ID)
	}

	orphans := make([]Orphan, 0)
	missing := func(courseID, studentID string) string {
		switch {
		case !strmangle.SetInclude(courseID, courseIDs):
			return "unknown course"
		case !strmangle.SetInclude(studentID, studentIDs):
			return "unknown student"
		}
		return ""
	}

	for _, g := range s.state.StudentGrades {
		if detail := missing(g.CourseID, g.StudentID); detail != "" {
			orphans = append(orphans, Orphan{Kind: OrphanGrade, StudentID: g.StudentID, CourseID: g.CourseID, Detail: detail})
		}
	}
	for _, rec := range s.state.Attendance {
		if detail := missing(rec.CourseID, rec.StudentID); detail != "" {
			orphans = append(orphans, Orphan{Kind: OrphanAttendance, StudentID: rec.StudentID, CourseID: rec.CourseID, Detail: detail})
		}
	}
	for _, c := range s.state.Courses {
		for _, sm := range c.Students {
			if !strmangle.SetInclude(sm.StudentID, studentIDs) {
				orphans = append(orphans, Orphan{Kind: OrphanMark, StudentID: sm.StudentID, CourseID: c.ID, Detail: "unknown student"})
			}
		}
	}

	for _, st := range s.state.Students {
		rostered := make([]string, 0)
		for _, c := range s.state.Courses {
			if c.IsEnrolled(st.ID) {
				rostered = append(rostered, c.ID)
			}
		}
		for _, cid := range strmangle.SetComplement(st.EnrolledCourses, rostered) {
			detail := "not on course roster"
			if !strmangle.SetInclude(cid, courseIDs) {
				detail = "unknown course"
			}
			orphans = append(orphans, Orphan{Kind: OrphanEnrollment, StudentID: st.ID, CourseID: cid, Detail: detail})
		}
		for _, cid := range strmangle.SetComplement(rostered, st.EnrolledCourses) {
			orphans = append(orphans, Orphan{Kind: OrphanEnrollment, StudentID: st.ID, CourseID: cid, Detail: "missing from enrolled courses"})
		}
	}
	return orphans
}

package record

import (
	"github.com/volatiletech/strmangle"
)

func (s *Store) AddStudent(student Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Students = append(s.state.Students, cloneStudent(student))
	s.changed()
}

// UpdateStudent merges p into the student. Name copies on course rosters are not refreshed.
func (s *Store) UpdateStudent(id string, p StudentPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Students {
		if s.state.Students[i].ID == id {
			p.apply(&s.state.Students[i])
		}
	}
	s.changed()
}

// DeleteStudent removes the student only; rows referencing the id elsewhere become orphans.
func (s *Store) DeleteStudent(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]Student, 0, len(s.state.Students))
	for _, st := range s.state.Students {
		if st.ID != id {
			kept = append(kept, st)
		}
	}
	s.state.Students = kept
	s.changed()
}

func (s *Store) GetStudent(id string) (Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.studentIndex(id); idx >= 0 {
		return cloneStudent(s.state.Students[idx]), true
	}
	return Student{}, false
}

func (s *Store) Students() []Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStudents(s.state.Students)
}

func (s *Store) studentIndex(id string) int {
	for i, st := range s.state.Students {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// StudentName resolves the canonical name for id, falling back to fallback for unknown students.
func (s *Store) StudentName(id, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.studentIndex(id); idx >= 0 {
		return s.state.Students[idx].Name
	}
	return fallback
}

// EnrolledStudents lists the registered students on the course roster, in roster order.
func (s *Store) EnrolledStudents(courseID string) []Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	students := make([]Student, 0)
	idx := s.courseIndex(courseID)
	if idx < 0 {
		return students
	}
	for _, sm := range s.state.Courses[idx].Students {
		if si := s.studentIndex(sm.StudentID); si >= 0 {
			students = append(students, cloneStudent(s.state.Students[si]))
		}
	}
	return students
}

// SyncEnrollments rewrites every Student.EnrolledCourses from the course rosters,
// which are the source of truth for enrollment. The order of courses already
// listed is kept; newly found ones are appended.
func (s *Store) SyncEnrollments() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Students {
		st := &s.state.Students[i]
		enrolled := make([]string, 0)
		for _, c := range s.state.Courses {
			if c.IsEnrolled(st.ID) {
				enrolled = append(enrolled, c.ID)
			}
		}
		current := make([]string, 0, len(st.EnrolledCourses))
		for _, cid := range st.EnrolledCourses {
			if strmangle.SetInclude(cid, enrolled) {
				current = append(current, cid)
			}
		}
		st.EnrolledCourses = strmangle.SetMerge(current, strmangle.SetComplement(enrolled, current))
	}
	s.changed()
}

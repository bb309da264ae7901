package record

// AddCourse appends course. Neither the id nor the code is checked for uniqueness.
func (s *Store) AddCourse(course Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Courses = append(s.state.Courses, cloneCourse(course))
	s.changed()
}

// UpdateCourse merges p into every course with the given id.
func (s *Store) UpdateCourse(id string, p CoursePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Courses {
		if s.state.Courses[i].ID == id {
			p.apply(&s.state.Courses[i])
		}
	}
	s.changed()
}

// DeleteCourse removes the course. Grades, attendance and enrolled courses referencing it are kept.
func (s *Store) DeleteCourse(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]Course, 0, len(s.state.Courses))
	for _, c := range s.state.Courses {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.state.Courses = kept
	s.changed()
}

func (s *Store) GetCourse(id string) (Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.courseIndex(id); idx >= 0 {
		return cloneCourse(s.state.Courses[idx]), true
	}
	return Course{}, false
}

func (s *Store) Courses() []Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCourses(s.state.Courses)
}

func (s *Store) courseIndex(id string) int {
	for i, c := range s.state.Courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// EnrollStudents adds an empty mark row for every student not already on the course roster.
// The row keeps a copy of the student's current name (the id if the student is unknown);
// later renames do not reach it.
func (s *Store) EnrollStudents(courseID string, studentIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.courseIndex(courseID)
	if idx < 0 {
		s.changed()
		return
	}

	course := &s.state.Courses[idx]
	existing := make(map[string]struct{}, len(course.Students))
	for _, sm := range course.Students {
		existing[sm.StudentID] = struct{}{}
	}
	for _, sid := range studentIDs {
		if _, ok := existing[sid]; ok {
			continue
		}
		existing[sid] = struct{}{}

		name := sid
		if si := s.studentIndex(sid); si >= 0 && s.state.Students[si].Name != "" {
			name = s.state.Students[si].Name
		}
		course.Students = append(course.Students, StudentMark{
			StudentID:   sid,
			StudentName: name,
			Marks:       map[string]float64{},
		})
	}
	s.changed()
}

// UnenrollStudents drops the students' mark rows from the course. Student.EnrolledCourses is left as is.
func (s *Store) UnenrollStudents(courseID string, studentIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.courseIndex(courseID); idx >= 0 {
		remove := make(map[string]struct{}, len(studentIDs))
		for _, sid := range studentIDs {
			remove[sid] = struct{}{}
		}
		course := &s.state.Courses[idx]
		kept := make([]StudentMark, 0, len(course.Students))
		for _, sm := range course.Students {
			if _, ok := remove[sm.StudentID]; !ok {
				kept = append(kept, sm)
			}
		}
		course.Students = kept
	}
	s.changed()
}

// SetStudentMarks replaces the student's mark row on the course, moving it to the end of the roster.
func (s *Store) SetStudentMarks(courseID string, mark StudentMark) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.courseIndex(courseID); idx >= 0 {
		course := &s.state.Courses[idx]
		kept := make([]StudentMark, 0, len(course.Students)+1)
		for _, sm := range course.Students {
			if sm.StudentID != mark.StudentID {
				kept = append(kept, sm)
			}
		}
		course.Students = append(kept, cloneStudentMark(mark))
	}
	s.changed()
}

// ReplaceCourseStudents swaps the whole roster, as a bulk marks import does.
func (s *Store) ReplaceCourseStudents(courseID string, marks []StudentMark) {
	if marks == nil {
		marks = []StudentMark{}
	}
	s.UpdateCourse(courseID, CoursePatch{Students: marks})
}

// EnrolledCourseIDs derives a student's enrollments from the course rosters, in course order.
func (s *Store) EnrolledCourseIDs(studentID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0)
	for _, c := range s.state.Courses {
		if c.IsEnrolled(studentID) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

package record

// AddAttendance appends the record as is. Use SetAttendanceFor to replace a day's records.
func (s *Store) AddAttendance(rec AttendanceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Attendance = append(s.state.Attendance, rec)
	s.changed()
}

// GetAttendance returns the course's records, optionally for one student, in insertion order.
func (s *Store) GetAttendance(courseID string, studentID ...string) []AttendanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sid string
	if len(studentID) > 0 {
		sid = studentID[0]
	}
	records := make([]AttendanceRecord, 0)
	for _, rec := range s.state.Attendance {
		if rec.CourseID != courseID {
			continue
		}
		if sid != "" && rec.StudentID != sid {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// StudentAttendance returns every record of the student across courses.
func (s *Store) StudentAttendance(studentID string) []AttendanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]AttendanceRecord, 0)
	for _, rec := range s.state.Attendance {
		if rec.StudentID == studentID {
			records = append(records, rec)
		}
	}
	return records
}

func (s *Store) Attendance() []AttendanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAttendance(s.state.Attendance)
}

// GetAttendanceMap maps student ids to their status for the course on date.
// Dates are compared verbatim. On duplicates the last record wins.
func (s *Store) GetAttendanceMap(courseID, date string) map[string]AttendanceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	statuses := make(map[string]AttendanceStatus)
	for _, rec := range s.state.Attendance {
		if rec.CourseID == courseID && rec.Date == date {
			statuses[rec.StudentID] = rec.Status
		}
	}
	return statuses
}

// SetAttendanceFor drops every record of the course on date, then adds one record per entry of statuses.
func (s *Store) SetAttendanceFor(courseID, date string, statuses map[string]AttendanceStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]AttendanceRecord, 0, len(s.state.Attendance)+len(statuses))
	for _, rec := range s.state.Attendance {
		if !(rec.CourseID == courseID && rec.Date == date) {
			next = append(next, rec)
		}
	}
	for _, sid := range sortedKeys(statuses) {
		next = append(next, AttendanceRecord{
			StudentID: sid,
			CourseID:  courseID,
			Date:      date,
			Status:    statuses[sid],
		})
	}
	s.state.Attendance = next
	s.changed()
}

// ToggleAttendance advances the first record matching the triple through
// present -> absent -> leave -> present, or adds a present record if there is none.
// Other duplicates of the triple are left untouched.
func (s *Store) ToggleAttendance(studentID, courseID, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Attendance {
		if s.state.Attendance[i].matches(studentID, courseID, date) {
			s.state.Attendance[i].Status = s.state.Attendance[i].Status.Next()
			s.changed()
			return
		}
	}
	s.state.Attendance = append(s.state.Attendance, AttendanceRecord{
		StudentID: studentID,
		CourseID:  courseID,
		Date:      date,
		Status:    StatusPresent,
	})
	s.changed()
}

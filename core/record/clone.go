package record

// Values leave the store as deep copies so callers cannot mutate its state through shared slices or maps.

func cloneStrings(ss []string) []string {
	if ss == nil {
		return nil
	}
	return append(make([]string, 0, len(ss)), ss...)
}

func cloneMarks(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneOutcomes(os []CourseOutcome) []CourseOutcome {
	if os == nil {
		return nil
	}
	return append(make([]CourseOutcome, 0, len(os)), os...)
}

func cloneAssessments(as []Assessment) []Assessment {
	if as == nil {
		return nil
	}
	return append(make([]Assessment, 0, len(as)), as...)
}

func cloneStudentMark(sm StudentMark) StudentMark {
	sm.Marks = cloneMarks(sm.Marks)
	return sm
}

func cloneStudentMarks(sms []StudentMark) []StudentMark {
	if sms == nil {
		return nil
	}
	out := make([]StudentMark, len(sms))
	for i, sm := range sms {
		out[i] = cloneStudentMark(sm)
	}
	return out
}

func cloneCourse(c Course) Course {
	c.Outcomes = cloneOutcomes(c.Outcomes)
	c.Assessments = cloneAssessments(c.Assessments)
	c.Students = cloneStudentMarks(c.Students)
	return c
}

func cloneStudent(s Student) Student {
	s.EnrolledCourses = cloneStrings(s.EnrolledCourses)
	return s
}

func cloneBands(bs []GradeBand) []GradeBand {
	if bs == nil {
		return nil
	}
	return append(make([]GradeBand, 0, len(bs)), bs...)
}

func cloneScale(g GradingScale) GradingScale {
	g.Grades = cloneBands(g.Grades)
	return g
}

func cloneCourses(cs []Course) []Course {
	out := make([]Course, len(cs))
	for i, c := range cs {
		out[i] = cloneCourse(c)
	}
	return out
}

func cloneStudents(ss []Student) []Student {
	out := make([]Student, len(ss))
	for i, s := range ss {
		out[i] = cloneStudent(s)
	}
	return out
}

func cloneScales(gs []GradingScale) []GradingScale {
	out := make([]GradingScale, len(gs))
	for i, g := range gs {
		out[i] = cloneScale(g)
	}
	return out
}

func cloneAttendance(rs []AttendanceRecord) []AttendanceRecord {
	return append(make([]AttendanceRecord, 0, len(rs)), rs...)
}

func cloneGrades(gs []StudentGrade) []StudentGrade {
	return append(make([]StudentGrade, 0, len(gs)), gs...)
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Courses:       cloneCourses(s.Courses),
		Settings:      s.Settings,
		Students:      cloneStudents(s.Students),
		Attendance:    cloneAttendance(s.Attendance),
		GradingScales: cloneScales(s.GradingScales),
		StudentGrades: cloneGrades(s.StudentGrades),
	}
}

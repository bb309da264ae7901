package record

// Outcome attainment statuses
const (
	AttainmentAchieved    = "Achieved"
	AttainmentBelowTarget = "Below Target"
)

// Alert thresholds
const (
	DefaultAttendanceThreshold = 75.0
	DefaultGPAThreshold        = 2.0
)

// Attainment reports how many enrolled students reached an outcome's target mark.
type Attainment struct {
	OutcomeID   string  `json:"outcomeId"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Target      float64 `json:"target"`
	Students    int     `json:"students"`
	Attained    int     `json:"attained"`
	Percentage  float64 `json:"percentage"`
	Status      string  `json:"status"`
}

// Met reports whether the attainment percentage reaches the outcome target.
func (a Attainment) Met() bool {
	return a.Status == AttainmentAchieved
}

// OutcomeAttainment computes, per outcome, the share of enrolled students whose mark
// is at least the outcome target. A missing mark counts as 0.
func OutcomeAttainment(course Course) []Attainment {
	results := make([]Attainment, 0, len(course.Outcomes))
	for _, o := range course.Outcomes {
		a := Attainment{
			OutcomeID:   o.ID,
			Code:        o.Code,
			Description: o.Description,
			Target:      o.Target,
			Students:    len(course.Students),
		}
		for _, sm := range course.Students {
			if sm.Marks[o.ID] >= o.Target {
				a.Attained++
			}
		}
		if a.Students > 0 {
			a.Percentage = float64(a.Attained) / float64(a.Students) * 100
		}
		a.Status = AttainmentBelowTarget
		if a.Percentage >= o.Target {
			a.Status = AttainmentAchieved
		}
		results = append(results, a)
	}
	return results
}

// CourseAttainment is the mean attainment percentage over the course outcomes (0 without outcomes).
func CourseAttainment(course Course) float64 {
	results := OutcomeAttainment(course)
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, a := range results {
		sum += a.Percentage
	}
	return sum / float64(len(results))
}

// OverallAttainment is the mean CourseAttainment over courses (0 without courses).
func OverallAttainment(courses []Course) float64 {
	if len(courses) == 0 {
		return 0
	}
	var sum float64
	for _, c := range courses {
		sum += CourseAttainment(c)
	}
	return sum / float64(len(courses))
}

// OutcomeAverage is the mean mark of the enrolled students for one outcome.
type OutcomeAverage struct {
	OutcomeID string  `json:"outcomeId"`
	Code      string  `json:"code"`
	Average   float64 `json:"average"`
}

func AverageOutcomeMarks(course Course) []OutcomeAverage {
	averages := make([]OutcomeAverage, 0, len(course.Outcomes))
	for _, o := range course.Outcomes {
		avg := OutcomeAverage{OutcomeID: o.ID, Code: o.Code}
		if len(course.Students) > 0 {
			var sum float64
			for _, sm := range course.Students {
				sum += sm.Marks[o.ID]
			}
			avg.Average = sum / float64(len(course.Students))
		}
		averages = append(averages, avg)
	}
	return averages
}

// AttendanceSummary counts statuses over a set of records.
type AttendanceSummary struct {
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Leave      int     `json:"leave"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// SummarizeAttendance counts records by status. Percentage is present over total (0 when empty).
func SummarizeAttendance(records []AttendanceRecord) AttendanceSummary {
	var sum AttendanceSummary
	for _, rec := range records {
		switch rec.Status {
		case StatusPresent:
			sum.Present++
		case StatusAbsent:
			sum.Absent++
		case StatusLeave:
			sum.Leave++
		}
		sum.Total++
	}
	if sum.Total > 0 {
		sum.Percentage = float64(sum.Present) / float64(sum.Total) * 100
	}
	return sum
}

type StudentAttendanceStats struct {
	StudentID   string            `json:"studentId"`
	StudentName string            `json:"studentName"`
	RollNumber  string            `json:"rollNumber"`
	Summary     AttendanceSummary `json:"summary"`
}

// CourseAttendanceStats summarizes the course attendance of each registered student
// enrolled on it, in roster order.
func (s *Store) CourseAttendanceStats(courseID string) []StudentAttendanceStats {
	students := s.EnrolledStudents(courseID)
	stats := make([]StudentAttendanceStats, 0, len(students))
	for _, st := range students {
		stats = append(stats, StudentAttendanceStats{
			StudentID:   st.ID,
			StudentName: st.Name,
			RollNumber:  st.RollNumber,
			Summary:     SummarizeAttendance(s.GetAttendance(courseID, st.ID)),
		})
	}
	return stats
}

// GradeCount is one bar of a grade distribution.
type GradeCount struct {
	Grade string `json:"grade"`
	Count int    `json:"count"`
}

// GradeDistribution counts stored grades of the course by label, in first-seen order.
func (s *Store) GradeDistribution(courseID string) []GradeCount {
	dist := make([]GradeCount, 0)
	pos := make(map[string]int)
	for _, g := range s.StudentGrades(courseID, "") {
		if i, ok := pos[g.Grade]; ok {
			dist[i].Count++
			continue
		}
		pos[g.Grade] = len(dist)
		dist = append(dist, GradeCount{Grade: g.Grade, Count: 1})
	}
	return dist
}

// Alert kinds
const (
	AlertLowAttendance = "low_attendance"
	AlertLowGPA        = "low_gpa"
)

type Alert struct {
	Kind        string  `json:"kind"`
	StudentID   string  `json:"studentId"`
	StudentName string  `json:"studentName"`
	CourseID    string  `json:"courseId"`
	CourseCode  string  `json:"courseCode"`
	Value       float64 `json:"value"`
	Threshold   float64 `json:"threshold"`
}

// Alerts lists enrolled students whose attendance on a course is below attendanceThreshold
// (students without records are skipped) and stored grades of registered students whose
// GPA is below gpaThreshold.
func (s *Store) Alerts(attendanceThreshold, gpaThreshold float64) []Alert {
	alerts := make([]Alert, 0)
	courses := s.Courses()
	codes := make(map[string]string, len(courses))
	for _, c := range courses {
		codes[c.ID] = c.Code
		for _, sm := range c.Students {
			sum := SummarizeAttendance(s.GetAttendance(c.ID, sm.StudentID))
			if sum.Total == 0 || sum.Percentage >= attendanceThreshold {
				continue
			}
			alerts = append(alerts, Alert{
				Kind:        AlertLowAttendance,
				StudentID:   sm.StudentID,
				StudentName: s.StudentName(sm.StudentID, sm.StudentName),
				CourseID:    c.ID,
				CourseCode:  c.Code,
				Value:       sum.Percentage,
				Threshold:   attendanceThreshold,
			})
		}
	}
	for _, g := range s.StudentGrades("", "") {
		if g.GPA >= gpaThreshold {
			continue
		}
		st, ok := s.GetStudent(g.StudentID)
		if !ok {
			continue
		}
		alerts = append(alerts, Alert{
			Kind:        AlertLowGPA,
			StudentID:   g.StudentID,
			StudentName: st.Name,
			CourseID:    g.CourseID,
			CourseCode:  codes[g.CourseID],
			Value:       g.GPA,
			Threshold:   gpaThreshold,
		})
	}
	return alerts
}

type CoursePerformance struct {
	CourseID   string            `json:"courseId"`
	CourseCode string            `json:"courseCode"`
	CourseName string            `json:"courseName"`
	Grade      *StudentGrade     `json:"grade,omitempty"`
	Attendance AttendanceSummary `json:"attendance"`
}

// Performance gathers a student's grades and attendance across the courses they are enrolled on.
type Performance struct {
	StudentID  string              `json:"studentId"`
	AverageGPA float64             `json:"averageGpa"`
	HighestGPA float64             `json:"highestGpa"`
	LowestGPA  float64             `json:"lowestGpa"`
	Attendance AttendanceSummary   `json:"attendance"`
	Courses    []CoursePerformance `json:"courses"`
}

func (s *Store) StudentPerformance(studentID string) (Performance, error) {
	if _, ok := s.GetStudent(studentID); !ok {
		return Performance{}, ErrNotFound
	}

	perf := Performance{
		StudentID:  studentID,
		Attendance: SummarizeAttendance(s.StudentAttendance(studentID)),
		Courses:    make([]CoursePerformance, 0),
	}

	grades := s.StudentGrades("", studentID)
	for i, g := range grades {
		perf.AverageGPA += g.GPA
		if i == 0 || g.GPA > perf.HighestGPA {
			perf.HighestGPA = g.GPA
		}
		if i == 0 || g.GPA < perf.LowestGPA {
			perf.LowestGPA = g.GPA
		}
	}
	if len(grades) > 0 {
		perf.AverageGPA /= float64(len(grades))
	}

	for _, c := range s.Courses() {
		if !c.IsEnrolled(studentID) {
			continue
		}
		cp := CoursePerformance{
			CourseID:   c.ID,
			CourseCode: c.Code,
			CourseName: c.Name,
			Attendance: SummarizeAttendance(s.GetAttendance(c.ID, studentID)),
		}
		if g, ok := s.GetStudentGrade(studentID, c.ID); ok {
			cp.Grade = &g
		}
		perf.Courses = append(perf.Courses, cp)
	}
	return perf, nil
}

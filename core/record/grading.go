package record

import (
	"math"
	"sort"

	"github.com/volatiletech/null/v8"
)

// NotApplicableGrade is reported when no band contains the average.
const NotApplicableGrade = "N/A"

func (s *Store) AddGradingScale(scale GradingScale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.GradingScales = append(s.state.GradingScales, cloneScale(scale))
	s.changed()
}

// UpdateGradingScale merges p into the scale. Bands are not checked for overlaps or gaps.
func (s *Store) UpdateGradingScale(id string, p GradingScalePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.GradingScales {
		if s.state.GradingScales[i].ID == id {
			p.apply(&s.state.GradingScales[i])
		}
	}
	s.changed()
}

func (s *Store) DeleteGradingScale(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]GradingScale, 0, len(s.state.GradingScales))
	for _, g := range s.state.GradingScales {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	s.state.GradingScales = kept
	s.changed()
}

func (s *Store) GetGradingScale(id string) (GradingScale, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.state.GradingScales {
		if g.ID == id {
			return cloneScale(g), true
		}
	}
	return GradingScale{}, false
}

func (s *Store) GradingScales() []GradingScale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneScales(s.state.GradingScales)
}

// AddStudentGrade appends grade without checking for an existing (student, course) row.
func (s *Store) AddStudentGrade(grade StudentGrade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.StudentGrades = append(s.state.StudentGrades, grade)
	s.changed()
}

// UpdateStudentGrade merges p into every row of the (student, course) pair.
func (s *Store) UpdateStudentGrade(studentID, courseID string, p StudentGradePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.StudentGrades {
		g := &s.state.StudentGrades[i]
		if g.StudentID == studentID && g.CourseID == courseID {
			p.apply(g)
		}
	}
	s.changed()
}

// SaveStudentGrade updates the pair's rows if any exist, or adds grade otherwise.
// Remarks of existing rows are kept.
func (s *Store) SaveStudentGrade(grade StudentGrade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := StudentGradePatch{
		TotalMarks: null.Float64From(grade.TotalMarks),
		Grade:      null.StringFrom(grade.Grade),
		GPA:        null.Float64From(grade.GPA),
	}
	found := false
	for i := range s.state.StudentGrades {
		g := &s.state.StudentGrades[i]
		if g.StudentID == grade.StudentID && g.CourseID == grade.CourseID {
			p.apply(g)
			found = true
		}
	}
	if !found {
		s.state.StudentGrades = append(s.state.StudentGrades, grade)
	}
	s.changed()
}

// GetStudentGrade returns the first row of the (student, course) pair.
func (s *Store) GetStudentGrade(studentID, courseID string) (StudentGrade, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.state.StudentGrades {
		if g.StudentID == studentID && g.CourseID == courseID {
			return g, true
		}
	}
	return StudentGrade{}, false
}

// StudentGrades lists grades, optionally narrowed by course and/or student (empty matches all).
func (s *Store) StudentGrades(courseID, studentID string) []StudentGrade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grades := make([]StudentGrade, 0)
	for _, g := range s.state.StudentGrades {
		if courseID != "" && g.CourseID != courseID {
			continue
		}
		if studentID != "" && g.StudentID != studentID {
			continue
		}
		grades = append(grades, g)
	}
	return grades
}

// GradeResult is the outcome of grading one student's marks.
type GradeResult struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Grade   string  `json:"grade"`
	GPA     float64 `json:"gpa"`
}

// LookupGrade returns the first band, in scale order, containing mark.
func LookupGrade(scale GradingScale, mark float64) (string, float64) {
	for _, band := range scale.Grades {
		if band.Contains(mark) {
			return band.Grade, band.Points
		}
	}
	return NotApplicableGrade, 0
}

// ComputeGrade averages the marks over the course outcomes (a missing mark counts as 0,
// no outcomes averages to 0) and grades the average against scale.
func ComputeGrade(outcomes []CourseOutcome, marks map[string]float64, scale GradingScale) GradeResult {
	var total float64
	for _, o := range outcomes {
		total += marks[o.ID]
	}
	var average float64
	if len(outcomes) > 0 {
		average = total / float64(len(outcomes))
	}
	grade, gpa := LookupGrade(scale, average)
	return GradeResult{
		Total:   total,
		Average: average,
		Grade:   grade,
		GPA:     gpa,
	}
}

// GradeFor computes the StudentGrade row for a mark row of course.
func GradeFor(course Course, mark StudentMark, scale GradingScale) StudentGrade {
	res := ComputeGrade(course.Outcomes, mark.Marks, scale)
	return StudentGrade{
		StudentID:  mark.StudentID,
		CourseID:   course.ID,
		TotalMarks: Round(res.Average, 2),
		Grade:      res.Grade,
		GPA:        res.GPA,
	}
}

// RecomputeCourseGrades grades every enrolled student of the course with the scale
// and saves the rows. It returns the saved grades, in roster order.
func (s *Store) RecomputeCourseGrades(courseID, scaleID string) ([]StudentGrade, error) {
	course, ok := s.GetCourse(courseID)
	if !ok {
		return nil, ErrNotFound
	}
	scale, ok := s.GetGradingScale(scaleID)
	if !ok {
		return nil, ErrNotFound
	}

	grades := make([]StudentGrade, 0, len(course.Students))
	s.Batch(func() {
		for _, sm := range course.Students {
			g := GradeFor(course, sm, scale)
			s.SaveStudentGrade(g)
			grades = append(grades, g)
		}
	})
	return grades, nil
}

// FinalScore weights the CIE and SEE percentages with the settings' weightages.
func FinalScore(cie, see float64, settings Settings) float64 {
	return cie*settings.CIEWeightage/100 + see*settings.SEEWeightage/100
}

// Round rounds x half away from zero to the given number of decimals.
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}

func sortedKeys(m map[string]AttendanceStatus) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

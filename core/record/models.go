package record

import (
	"fmt"
	"time"
)

type AssessmentType string

// Assessment types
const (
	AssessmentIAE1       AssessmentType = "IAE1"
	AssessmentIAE2       AssessmentType = "IAE2"
	AssessmentAssignment AssessmentType = "Assignment"
)

var AssessmentTypes = []AssessmentType{AssessmentIAE1, AssessmentIAE2, AssessmentAssignment}

type AttendanceStatus string

// Attendance statuses, in toggle order.
const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLeave   AttendanceStatus = "leave"
)

var statusCycle = []AttendanceStatus{StatusPresent, StatusAbsent, StatusLeave}

// Next returns the status following s in the present -> absent -> leave -> present cycle.
// An unknown status restarts the cycle at present.
func (s AttendanceStatus) Next() AttendanceStatus {
	idx := -1
	for i, st := range statusCycle {
		if st == s {
			idx = i
			break
		}
	}
	return statusCycle[(idx+1)%len(statusCycle)]
}

func (s AttendanceStatus) IsValid() bool {
	for _, st := range statusCycle {
		if st == s {
			return true
		}
	}
	return false
}

type CourseOutcome struct {
	ID          string  `json:"id" yaml:"id" validate:"required"`
	Code        string  `json:"code" yaml:"code" validate:"required,notblank,code"`
	Description string  `json:"description" yaml:"description"`
	Target      float64 `json:"target" yaml:"target" validate:"min=0,max=100"`
}

type Assessment struct {
	ID        string         `json:"id" yaml:"id" validate:"required"`
	Name      string         `json:"name" yaml:"name" validate:"required,notblank"`
	Type      AssessmentType `json:"type" yaml:"type" validate:"assessment_type"`
	Weightage float64        `json:"weightage" yaml:"weightage" validate:"gt=0,max=100"`
}

// StudentMark is a course enrollment row. Marks are keyed by CourseOutcome.ID.
type StudentMark struct {
	StudentID   string             `json:"studentId" yaml:"studentId" validate:"required"`
	StudentName string             `json:"studentName" yaml:"studentName"`
	Marks       map[string]float64 `json:"marks" yaml:"marks" validate:"dive,min=0,max=100"`
}

type Course struct {
	ID          string          `json:"id" yaml:"id" validate:"required"`
	Code        string          `json:"code" yaml:"code" validate:"required,notblank,code"`
	Name        string          `json:"name" yaml:"name" validate:"required,notblank"`
	Semester    int             `json:"semester" yaml:"semester" validate:"min=1"`
	Outcomes    []CourseOutcome `json:"outcomes" yaml:"outcomes" validate:"dive"`
	Assessments []Assessment    `json:"assessments" yaml:"assessments" validate:"dive"`
	Students    []StudentMark   `json:"students" yaml:"students" validate:"dive"`
	CreatedAt   time.Time       `json:"createdAt" yaml:"createdAt"`
}

// WeightageTotal sums the course's assessment weightages. It should equal 100, but nothing enforces it.
func (c Course) WeightageTotal() float64 {
	var total float64
	for _, a := range c.Assessments {
		total += a.Weightage
	}
	return total
}

// StudentMark returns the first enrollment row for studentID.
func (c Course) StudentMark(studentID string) (StudentMark, bool) {
	for _, sm := range c.Students {
		if sm.StudentID == studentID {
			return sm, true
		}
	}
	return StudentMark{}, false
}

func (c Course) IsEnrolled(studentID string) bool {
	_, ok := c.StudentMark(studentID)
	return ok
}

// DefaultOutcomes returns the CO1..CO6 outcomes a new course starts with.
func DefaultOutcomes(target float64) []CourseOutcome {
	outcomes := make([]CourseOutcome, 0, 6)
	for i := 1; i <= 6; i++ {
		outcomes = append(outcomes, CourseOutcome{
			ID:     fmt.Sprintf("co%d", i),
			Code:   fmt.Sprintf("CO%d", i),
			Target: target,
		})
	}
	return outcomes
}

type Student struct {
	ID              string    `json:"id" yaml:"id" validate:"required"`
	RollNumber      string    `json:"rollNumber" yaml:"rollNumber" validate:"required,notblank"`
	Name            string    `json:"name" yaml:"name" validate:"required,notblank"`
	Email           string    `json:"email" yaml:"email" validate:"omitempty,email"`
	Phone           string    `json:"phone" yaml:"phone"`
	EnrolledCourses []string  `json:"enrolledCourses" yaml:"enrolledCourses"`
	CreatedAt       time.Time `json:"createdAt" yaml:"createdAt"`
}

// AttendanceRecord is naturally keyed by (StudentID, CourseID, Date). Date is compared verbatim.
type AttendanceRecord struct {
	StudentID string           `json:"studentId" yaml:"studentId" validate:"required"`
	CourseID  string           `json:"courseId" yaml:"courseId" validate:"required"`
	Date      string           `json:"date" yaml:"date" validate:"required"`
	Status    AttendanceStatus `json:"status" yaml:"status" validate:"attendance_status"`
}

func (r AttendanceRecord) matches(studentID, courseID, date string) bool {
	return r.StudentID == studentID && r.CourseID == courseID && r.Date == date
}

type GradeBand struct {
	Grade    string  `json:"grade" yaml:"grade" validate:"required,notblank"`
	MinMarks float64 `json:"minMarks" yaml:"minMarks" validate:"min=0"`
	MaxMarks float64 `json:"maxMarks" yaml:"maxMarks" validate:"gtefield=MinMarks"`
	Points   float64 `json:"points" yaml:"points" validate:"min=0"`
}

// Contains reports whether mark falls within the band, bounds included.
func (b GradeBand) Contains(mark float64) bool {
	return b.MinMarks <= mark && mark <= b.MaxMarks
}

type GradingScale struct {
	ID     string      `json:"id" yaml:"id" validate:"required"`
	Name   string      `json:"name" yaml:"name" validate:"required,notblank"`
	Grades []GradeBand `json:"grades" yaml:"grades" validate:"dive"`
}

// DefaultGradeBands is the 10-point scale offered when creating a grading scale.
func DefaultGradeBands() []GradeBand {
	return []GradeBand{
		{Grade: "A+", MinMarks: 90, MaxMarks: 100, Points: 4.0},
		{Grade: "A", MinMarks: 80, MaxMarks: 89, Points: 3.7},
		{Grade: "B+", MinMarks: 70, MaxMarks: 79, Points: 3.3},
		{Grade: "B", MinMarks: 60, MaxMarks: 69, Points: 3.0},
		{Grade: "C", MinMarks: 50, MaxMarks: 59, Points: 2.0},
		{Grade: "F", MinMarks: 0, MaxMarks: 49, Points: 0.0},
	}
}

// StudentGrade is the stored, denormalized result of a grade computation.
// It is only refreshed when explicitly recomputed and saved.
type StudentGrade struct {
	StudentID  string  `json:"studentId" yaml:"studentId" validate:"required"`
	CourseID   string  `json:"courseId" yaml:"courseId" validate:"required"`
	TotalMarks float64 `json:"totalMarks" yaml:"totalMarks"`
	Grade      string  `json:"grade" yaml:"grade"`
	GPA        float64 `json:"gpa" yaml:"gpa" validate:"min=0"`
	Remarks    string  `json:"remarks" yaml:"remarks"`
}

type Settings struct {
	TargetPercentage float64 `json:"targetPercentage" yaml:"targetPercentage" validate:"min=0,max=100"`
	CIEWeightage     float64 `json:"cieWeightage" yaml:"cieWeightage" validate:"min=0,max=100"`
	SEEWeightage     float64 `json:"seeWeightage" yaml:"seeWeightage" validate:"min=0,max=100"`
}

func DefaultSettings() Settings {
	return Settings{
		TargetPercentage: 70,
		CIEWeightage:     40,
		SEEWeightage:     60,
	}
}

// Snapshot is the serialisable representation of the whole store.
type Snapshot struct {
	Courses       []Course           `json:"courses" yaml:"courses"`
	Settings      Settings           `json:"settings" yaml:"settings"`
	Students      []Student          `json:"students" yaml:"students"`
	Attendance    []AttendanceRecord `json:"attendance" yaml:"attendance"`
	GradingScales []GradingScale     `json:"gradingScales" yaml:"gradingScales"`
	StudentGrades []StudentGrade     `json:"studentGrades" yaml:"studentGrades"`
}

// Stats counts the entities held by the store.
type Stats struct {
	Courses       int `json:"courses"`
	Students      int `json:"students"`
	Attendance    int `json:"attendance"`
	GradingScales int `json:"gradingScales"`
	StudentGrades int `json:"studentGrades"`
}

package record

import (
	"github.com/volatiletech/null/v8"
)

// Patches describe partial-field merges: only Valid scalars and non-nil slices are applied.

type CoursePatch struct {
	Code        null.String     `json:"code" validate:"omitempty,notblank"`
	Name        null.String     `json:"name" validate:"omitempty,notblank"`
	Semester    null.Int        `json:"semester" validate:"omitempty,min=1"`
	Outcomes    []CourseOutcome `json:"outcomes" validate:"omitempty,dive"`
	Assessments []Assessment    `json:"assessments" validate:"omitempty,dive"`
	Students    []StudentMark   `json:"students" validate:"omitempty,dive"`
	CreatedAt   null.Time       `json:"createdAt"`
}

func (p CoursePatch) apply(c *Course) {
	if p.Code.Valid {
		c.Code = p.Code.String
	}
	if p.Name.Valid {
		c.Name = p.Name.String
	}
	if p.Semester.Valid {
		c.Semester = p.Semester.Int
	}
	if p.Outcomes != nil {
		c.Outcomes = cloneOutcomes(p.Outcomes)
	}
	if p.Assessments != nil {
		c.Assessments = cloneAssessments(p.Assessments)
	}
	if p.Students != nil {
		c.Students = cloneStudentMarks(p.Students)
	}
	if p.CreatedAt.Valid {
		c.CreatedAt = p.CreatedAt.Time
	}
}

type StudentPatch struct {
	RollNumber      null.String `json:"rollNumber" validate:"omitempty,notblank"`
	Name            null.String `json:"name" validate:"omitempty,notblank"`
	Email           null.String `json:"email" validate:"omitempty,email"`
	Phone           null.String `json:"phone"`
	EnrolledCourses []string    `json:"enrolledCourses"`
	CreatedAt       null.Time   `json:"createdAt"`
}

func (p StudentPatch) apply(s *Student) {
	if p.RollNumber.Valid {
		s.RollNumber = p.RollNumber.String
	}
	if p.Name.Valid {
		s.Name = p.Name.String
	}
	if p.Email.Valid {
		s.Email = p.Email.String
	}
	if p.Phone.Valid {
		s.Phone = p.Phone.String
	}
	if p.EnrolledCourses != nil {
		s.EnrolledCourses = cloneStrings(p.EnrolledCourses)
	}
	if p.CreatedAt.Valid {
		s.CreatedAt = p.CreatedAt.Time
	}
}

type GradingScalePatch struct {
	Name   null.String `json:"name" validate:"omitempty,notblank"`
	Grades []GradeBand `json:"grades" validate:"omitempty,dive"`
}

func (p GradingScalePatch) apply(g *GradingScale) {
	if p.Name.Valid {
		g.Name = p.Name.String
	}
	if p.Grades != nil {
		g.Grades = cloneBands(p.Grades)
	}
}

type StudentGradePatch struct {
	TotalMarks null.Float64 `json:"totalMarks"`
	Grade      null.String  `json:"grade"`
	GPA        null.Float64 `json:"gpa" validate:"omitempty,min=0"`
	Remarks    null.String  `json:"remarks"`
}

func (p StudentGradePatch) apply(g *StudentGrade) {
	if p.TotalMarks.Valid {
		g.TotalMarks = p.TotalMarks.Float64
	}
	if p.Grade.Valid {
		g.Grade = p.Grade.String
	}
	if p.GPA.Valid {
		g.GPA = p.GPA.Float64
	}
	if p.Remarks.Valid {
		g.Remarks = p.Remarks.String
	}
}

type SettingsPatch struct {
	TargetPercentage null.Float64 `json:"targetPercentage" validate:"omitempty,min=0,max=100"`
	CIEWeightage     null.Float64 `json:"cieWeightage" validate:"omitempty,min=0,max=100"`
	SEEWeightage     null.Float64 `json:"seeWeightage" validate:"omitempty,min=0,max=100"`
}

// SettingsPatchFrom turns a full Settings value into a patch setting every field.
func SettingsPatchFrom(s Settings) SettingsPatch {
	return SettingsPatch{
		TargetPercentage: null.Float64From(s.TargetPercentage),
		CIEWeightage:     null.Float64From(s.CIEWeightage),
		SEEWeightage:     null.Float64From(s.SEEWeightage),
	}
}

func (p SettingsPatch) apply(s *Settings) {
	if p.TargetPercentage.Valid {
		s.TargetPercentage = p.TargetPercentage.Float64
	}
	if p.CIEWeightage.Valid {
		s.CIEWeightage = p.CIEWeightage.Float64
	}
	if p.SEEWeightage.Valid {
		s.SEEWeightage = p.SEEWeightage.Float64
	}
}

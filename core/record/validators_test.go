package record_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/autom8/core"
	"github.com/trezcool/autom8/core/record"
	"github.com/trezcool/autom8/tests"
)

var (
	translator = core.NewTranslator()
	validate   = record.NewValidator(translator)
)

// fieldErrors returns the translated {field: message} map of err, or nil when err is nil.
func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok, "error %T is not validator.ValidationErrors: %v", err, err)
	return core.TranslateErrors(vErrs, translator)
}

func TestCourse_Validate(t *testing.T) {
	valid := func() record.Course {
		return record.Course{
			ID: "c1", Code: " CS101 ", Name: "Algorithms", Semester: 1,
			Outcomes:    record.DefaultOutcomes(70),
			Assessments: []record.Assessment{{ID: "a1", Name: "IAE 1", Type: record.AssessmentIAE1, Weightage: 100}},
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *record.Course)
		wantField string
		wantMsg   string
	}{
		{name: "valid", mutate: func(c *record.Course) {}},
		{name: "blank code", mutate: func(c *record.Course) { c.Code = "   " }, wantField: "code", wantMsg: "this field is required"},
		{name: "semester", mutate: func(c *record.Course) { c.Semester = 0 }, wantField: "semester"},
		{
			name:      "assessment type",
			mutate:    func(c *record.Course) { c.Assessments[0].Type = "Quiz" },
			wantField: "type", wantMsg: "must be one of IAE1, IAE2 or Assignment",
		},
		{name: "weightage", mutate: func(c *record.Course) { c.Assessments[0].Weightage = 0 }, wantField: "weightage"},
		{name: "outcome target", mutate: func(c *record.Course) { c.Outcomes[0].Target = 120 }, wantField: "target"},
		{
			name:      "mark out of range",
			mutate:    func(c *record.Course) { c.Students = []record.StudentMark{{StudentID: "s1", Marks: map[string]float64{"co1": 101}}} },
			wantField: "marks[co1]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			errs := fieldErrors(t, c.Validate(validate))
			if tt.wantField == "" {
				assert.Empty(t, errs)
				assert.Equal(t, "CS101", c.Code)
				return
			}
			require.Contains(t, errs, tt.wantField)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, errs[tt.wantField])
			}
		})
	}
}

func TestStudent_Validate(t *testing.T) {
	st := record.Student{ID: "s1", RollNumber: "R1", Name: " Ada ", Email: " ADA@School.test "}
	require.NoError(t, st.Validate(validate))
	assert.Equal(t, "Ada", st.Name)
	assert.Equal(t, "ada@school.test", st.Email)

	st.Email = "nope"
	assert.Contains(t, fieldErrors(t, st.Validate(validate)), "email")
}

func TestAttendanceRecord_Validate(t *testing.T) {
	rec := record.AttendanceRecord{StudentID: "s1", CourseID: "c1", Date: "2024-03-01", Status: record.StatusLeave}
	require.NoError(t, rec.Validate(validate))

	rec.Status = "late"
	errs := fieldErrors(t, rec.Validate(validate))
	assert.Equal(t, "must be one of present, absent or leave", errs["status"])
}

func TestGradingScale_Validate(t *testing.T) {
	g := testutil.Scale("g1")
	require.NoError(t, g.Validate(validate))

	g.Grades[0].MaxMarks = 10 // below its MinMarks
	assert.Contains(t, fieldErrors(t, g.Validate(validate)), "maxMarks")
}

func TestPatches_Validate(t *testing.T) {
	assert.NoError(t, (&record.CoursePatch{}).Validate(validate))
	assert.NoError(t, (&record.CoursePatch{Name: null.StringFrom("Algorithms"), Semester: null.IntFrom(2)}).Validate(validate))
	assert.Contains(t, fieldErrors(t, (&record.CoursePatch{Name: null.StringFrom("  ")}).Validate(validate)), "name")
	assert.Contains(t, fieldErrors(t, (&record.CoursePatch{Semester: null.IntFrom(-1)}).Validate(validate)), "semester")

	assert.NoError(t, (&record.StudentPatch{Email: null.StringFrom("ada@school.test")}).Validate(validate))
	assert.Contains(t, fieldErrors(t, (&record.StudentPatch{Email: null.StringFrom("nope")}).Validate(validate)), "email")

	assert.NoError(t, (&record.SettingsPatch{}).Validate(validate))
	assert.Contains(t, fieldErrors(t, (&record.SettingsPatch{TargetPercentage: null.Float64From(101)}).Validate(validate)), "targetPercentage")
}

func TestValidateMarks(t *testing.T) {
	course := record.Course{Outcomes: []record.CourseOutcome{testutil.Outcome("o1", "CO1", 70)}}

	assert.NoError(t, record.ValidateMarks(course, []record.StudentMark{{StudentID: "s1", Marks: map[string]float64{"o1": 70}}}, validate))

	err := record.ValidateMarks(course, []record.StudentMark{{StudentID: "s1", Marks: map[string]float64{"o9": 70}}}, validate)
	assert.True(t, core.IsValidationError(err), "err = %v", err)
}

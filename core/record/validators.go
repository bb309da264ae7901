package record

import (
	"database/sql/driver"
	"reflect"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/autom8/core"
)

var (
	assessmentTypeTag  = "assessment_type"
	assessmentTypeText = "must be one of IAE1, IAE2 or Assignment"

	attendanceStatusTag  = "attendance_status"
	attendanceStatusText = "must be one of present, absent or leave"
)

// InitValidators registers the record validation tags and teaches validate to read null types.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterCustomTypeFunc(nullValuer,
		null.String{}, null.Int{}, null.Float64{}, null.Time{})

	_ = validate.RegisterValidation(assessmentTypeTag, assessmentTypeValidation)
	core.RegisterCustomTranslation(validate, translator, assessmentTypeTag, assessmentTypeText)

	_ = validate.RegisterValidation(attendanceStatusTag, attendanceStatusValidation)
	core.RegisterCustomTranslation(validate, translator, attendanceStatusTag, attendanceStatusText)
}

// NewValidator returns a validator with both the core and the record tags registered.
func NewValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}

// nullValuer unwraps null types so that omitempty skips invalid ones.
func nullValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(driver.Valuer); ok {
		if val, err := valuer.Value(); err == nil {
			return val
		}
	}
	return nil
}

func assessmentTypeValidation(fl validator.FieldLevel) bool {
	typ := AssessmentType(fl.Field().String())
	for _, t := range AssessmentTypes {
		if t == typ {
			return true
		}
	}
	return false
}

func attendanceStatusValidation(fl validator.FieldLevel) bool {
	return AttendanceStatus(fl.Field().String()).IsValid()
}

// Boundary validation. The store itself accepts anything.

func (c *Course) Validate(validate *validator.Validate) error {
	c.Code = core.CleanString(c.Code)
	c.Name = core.CleanString(c.Name)
	return validate.Struct(c)
}

func (p *CoursePatch) Validate(validate *validator.Validate) error {
	return validate.Struct(p)
}

func (s *Student) Validate(validate *validator.Validate) error {
	s.RollNumber = core.CleanString(s.RollNumber)
	s.Name = core.CleanString(s.Name)
	s.Email = core.CleanString(s.Email, true /* lower */)
	s.Phone = core.CleanString(s.Phone)
	return validate.Struct(s)
}

func (p *StudentPatch) Validate(validate *validator.Validate) error {
	return validate.Struct(p)
}

func (r AttendanceRecord) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func (g *GradingScale) Validate(validate *validator.Validate) error {
	g.Name = core.CleanString(g.Name)
	return validate.Struct(g)
}

func (p *GradingScalePatch) Validate(validate *validator.Validate) error {
	return validate.Struct(p)
}

func (g StudentGrade) Validate(validate *validator.Validate) error {
	return validate.Struct(g)
}

func (p *StudentGradePatch) Validate(validate *validator.Validate) error {
	return validate.Struct(p)
}

func (p *SettingsPatch) Validate(validate *validator.Validate) error {
	return validate.Struct(p)
}

// ValidateMarks checks that every mark row is in range and keyed by an outcome of course.
func ValidateMarks(course Course, marks []StudentMark, validate *validator.Validate) error {
	outcomes := make(map[string]struct{}, len(course.Outcomes))
	for _, o := range course.Outcomes {
		outcomes[o.ID] = struct{}{}
	}
	for _, sm := range marks {
		if err := validate.Struct(sm); err != nil {
			return err
		}
		for oid := range sm.Marks {
			if _, ok := outcomes[oid]; !ok {
				return core.NewValidationError(nil, core.FieldError{Field: "marks", Error: "unknown outcome " + oid})
			}
		}
	}
	return nil
}

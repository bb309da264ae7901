package echoapi

import (
	"bytes"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/autom8/core/exchange"
	"github.com/trezcool/autom8/core/record"
)

const (
	mimeTextCSV  = "text/csv; charset=utf-8"
	maxMarksSize = 1 << 20
)

type courseApi struct {
	apiDeps
}

func registerCourseAPI(g *echo.Group, deps apiDeps) {
	api := courseApi{deps}

	cg := g.Group("/courses")
	cg.GET("", api.query)
	cg.POST("", api.create)

	// detail endpoints
	dg := cg.Group("/:id", api.courseMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/students", api.students)
	dg.POST("/enroll", api.enroll)
	dg.POST("/unenroll", api.unenroll)
	dg.PUT("/marks/:studentId", api.setMarks)
	dg.POST("/marks/import", api.importMarks)
	dg.GET("/marks/export", api.exportMarks)
	dg.GET("/attainment", api.attainment)
	dg.GET("/report", api.report)
	dg.POST("/grades", api.computeGrades)
	dg.GET("/grades/distribution", api.gradeDistribution)
	dg.GET("/attendance/stats", api.attendanceStats)
}

// courseMiddleware loads the course of the :id path param into the context.
func (api *courseApi) courseMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		course, ok := api.store.GetCourse(ctx.Param("id"))
		if !ok {
			return errHttpNotFound
		}
		ctx.Set("object", course)
		return next(ctx)
	}
}

func contextCourse(ctx echo.Context) record.Course {
	course, _ := ctx.Get("object").(record.Course)
	return course
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.Courses())
}

func (api *courseApi) create(ctx echo.Context) error {
	var data record.Course
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Course")
	}
	if data.ID == "" {
		data.ID = uuid.New().String()
	}
	if data.Outcomes == nil {
		data.Outcomes = record.DefaultOutcomes(api.store.Settings().TargetPercentage)
	}
	if data.Assessments == nil {
		data.Assessments = []record.Assessment{}
	}
	if data.Students == nil {
		data.Students = []record.StudentMark{}
	}
	if data.CreatedAt.IsZero() {
		data.CreatedAt = api.now().UTC()
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	api.store.AddCourse(data)
	return ctx.JSON(http.StatusCreated, data)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, contextCourse(ctx))
}

func (api *courseApi) update(ctx echo.Context) error {
	course := contextCourse(ctx)

	var data record.CoursePatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CoursePatch")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if data.Students != nil {
		if err := record.ValidateMarks(course, data.Students, api.validate); err != nil {
			return err
		}
	}

	api.store.UpdateCourse(course.ID, data)
	updated, _ := api.store.GetCourse(course.ID)
	return ctx.JSON(http.StatusOK, updated)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	api.store.DeleteCourse(contextCourse(ctx).ID)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) students(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.EnrolledStudents(contextCourse(ctx).ID))
}

type enrollRequest struct {
	StudentIDs []string `json:"studentIds" validate:"required,min=1,dive,required"`
}

func (api *courseApi) bindEnroll(ctx echo.Context) (enrollRequest, error) {
	var data enrollRequest
	if err := ctx.Bind(&data); err != nil {
		return data, errors.Wrap(err, "binding to enrollRequest")
	}
	return data, api.validate.Struct(data)
}

func (api *courseApi) enroll(ctx echo.Context) error {
	data, err := api.bindEnroll(ctx)
	if err != nil {
		return err
	}
	id := contextCourse(ctx).ID
	api.store.EnrollStudents(id, data.StudentIDs)
	course, _ := api.store.GetCourse(id)
	return ctx.JSON(http.StatusOK, course)
}

func (api *courseApi) unenroll(ctx echo.Context) error {
	data, err := api.bindEnroll(ctx)
	if err != nil {
		return err
	}
	id := contextCourse(ctx).ID
	api.store.UnenrollStudents(id, data.StudentIDs)
	course, _ := api.store.GetCourse(id)
	return ctx.JSON(http.StatusOK, course)
}

type marksRequest struct {
	StudentName string             `json:"studentName"`
	Marks       map[string]float64 `json:"marks" validate:"required"`
	ScaleID     string             `json:"scaleId"` // grades the student when set
}

type marksResponse struct {
	record.StudentMark
	Grade *record.StudentGrade `json:"grade,omitempty"`
}

func (api *courseApi) setMarks(ctx echo.Context) error {
	course := contextCourse(ctx)

	var data marksRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to marksRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	sid := ctx.Param("studentId")
	mark := record.StudentMark{StudentID: sid, StudentName: data.StudentName, Marks: data.Marks}
	if mark.StudentName == "" {
		existing, _ := course.StudentMark(sid)
		mark.StudentName = api.store.StudentName(sid, existing.StudentName)
	}
	if err := record.ValidateMarks(course, []record.StudentMark{mark}, api.validate); err != nil {
		return err
	}

	resp := marksResponse{StudentMark: mark}
	if data.ScaleID == "" {
		api.store.SetStudentMarks(course.ID, mark)
		return ctx.JSON(http.StatusOK, resp)
	}

	scale, ok := api.store.GetGradingScale(data.ScaleID)
	if !ok {
		return record.ErrNotFound
	}
	grade := record.GradeFor(course, mark, scale)
	api.store.Batch(func() {
		api.store.SetStudentMarks(course.ID, mark)
		api.store.SaveStudentGrade(grade)
	})
	resp.Grade = &grade
	return ctx.JSON(http.StatusOK, resp)
}

func (api *courseApi) importMarks(ctx echo.Context) error {
	data, err := io.ReadAll(http.MaxBytesReader(ctx.Response(), ctx.Request().Body, maxMarksSize))
	if err != nil {
		return errors.Wrap(err, "reading marks")
	}
	marks, err := exchange.ImportMarks(api.store, contextCourse(ctx).ID, bytes.NewReader(data))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, marks)
}

func (api *courseApi) exportMarks(ctx echo.Context) error {
	course := contextCourse(ctx)
	scale, err := api.scaleFor(ctx.QueryParam("scaleId"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err = exchange.ExportMarks(&buf, course, scale); err != nil {
		return errors.Wrap(err, "exporting marks")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+course.Code+`_marks.csv"`)
	return ctx.Blob(http.StatusOK, mimeTextCSV, buf.Bytes())
}

// scaleFor returns the scale with id, the first stored scale when id is empty,
// or the default bands when there is none.
func (api *courseApi) scaleFor(id string) (record.GradingScale, error) {
	if id != "" {
		scale, ok := api.store.GetGradingScale(id)
		if !ok {
			return record.GradingScale{}, record.ErrNotFound
		}
		return scale, nil
	}
	if scales := api.store.GradingScales(); len(scales) > 0 {
		return scales[0], nil
	}
	return record.GradingScale{Name: "Default", Grades: record.DefaultGradeBands()}, nil
}

type attainmentResponse struct {
	Outcomes []record.Attainment     `json:"outcomes"`
	Averages []record.OutcomeAverage `json:"averages"`
	Overall  float64                 `json:"overall"`
}

func (api *courseApi) attainment(ctx echo.Context) error {
	course := contextCourse(ctx)
	return ctx.JSON(http.StatusOK, attainmentResponse{
		Outcomes: record.OutcomeAttainment(course),
		Averages: record.AverageOutcomeMarks(course),
		Overall:  record.CourseAttainment(course),
	})
}

func (api *courseApi) report(ctx echo.Context) error {
	course := contextCourse(ctx)
	var buf bytes.Buffer
	if err := exchange.ExportAttainmentReport(&buf, course); err != nil {
		return errors.Wrap(err, "exporting report")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+course.Code+`_CO_Report.csv"`)
	return ctx.Blob(http.StatusOK, mimeTextCSV, buf.Bytes())
}

type computeGradesRequest struct {
	ScaleID string `json:"scaleId" validate:"required"`
}

func (api *courseApi) computeGrades(ctx echo.Context) error {
	var data computeGradesRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to computeGradesRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	grades, err := api.store.RecomputeCourseGrades(contextCourse(ctx).ID, data.ScaleID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *courseApi) gradeDistribution(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.GradeDistribution(contextCourse(ctx).ID))
}

func (api *courseApi) attendanceStats(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.CourseAttendanceStats(contextCourse(ctx).ID))
}

package echoapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/autom8/core/record"
)

type gradingApi struct {
	apiDeps
}

func registerGradingAPI(g *echo.Group, deps apiDeps) {
	api := gradingApi{deps}

	sg := g.Group("/grading-scales")
	sg.GET("", api.queryScales)
	sg.POST("", api.createScale)
	sg.GET("/:id", api.retrieveScale)
	sg.PUT("/:id", api.updateScale)
	sg.DELETE("/:id", api.destroyScale)

	gg := g.Group("/grades")
	gg.GET("", api.queryGrades)
	gg.POST("", api.createGrade)
	gg.POST("/compute", api.computeGrade)
	gg.PUT("/:studentId/:courseId", api.updateGrade)
}

// Grading scales

func (api *gradingApi) queryScales(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.GradingScales())
}

func (api *gradingApi) createScale(ctx echo.Context) error {
	var data record.GradingScale
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradingScale")
	}
	if data.ID == "" {
		data.ID = uuid.New().String()
	}
	if data.Grades == nil {
		data.Grades = record.DefaultGradeBands()
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	api.store.AddGradingScale(data)
	return ctx.JSON(http.StatusCreated, data)
}

func (api *gradingApi) retrieveScale(ctx echo.Context) error {
	scale, ok := api.store.GetGradingScale(ctx.Param("id"))
	if !ok {
		return record.ErrNotFound
	}
	return ctx.JSON(http.StatusOK, scale)
}

func (api *gradingApi) updateScale(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, ok := api.store.GetGradingScale(id); !ok {
		return record.ErrNotFound
	}

	var data record.GradingScalePatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradingScalePatch")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	api.store.UpdateGradingScale(id, data)
	scale, _ := api.store.GetGradingScale(id)
	return ctx.JSON(http.StatusOK, scale)
}

func (api *gradingApi) destroyScale(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, ok := api.store.GetGradingScale(id); !ok {
		return record.ErrNotFound
	}
	api.store.DeleteGradingScale(id)
	return ctx.NoContent(http.StatusNoContent)
}

// Student grades

func (api *gradingApi) queryGrades(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.StudentGrades(ctx.QueryParam("courseId"), ctx.QueryParam("studentId")))
}

func (api *gradingApi) createGrade(ctx echo.Context) error {
	var data record.StudentGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentGrade")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	api.store.AddStudentGrade(data)
	return ctx.JSON(http.StatusCreated, data)
}

type computeGradeRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	CourseID  string `json:"courseId" validate:"required"`
	ScaleID   string `json:"scaleId" validate:"required"`
	Remarks   string `json:"remarks"`
}

// computeGrade grades one student's marks on a course and saves the result.
func (api *gradingApi) computeGrade(ctx echo.Context) error {
	var data computeGradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to computeGradeRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	course, ok := api.store.GetCourse(data.CourseID)
	if !ok {
		return record.ErrNotFound
	}
	scale, ok := api.store.GetGradingScale(data.ScaleID)
	if !ok {
		return record.ErrNotFound
	}
	mark, ok := course.StudentMark(data.StudentID)
	if !ok {
		return record.ErrNotFound
	}

	grade := record.GradeFor(course, mark, scale)
	grade.Remarks = data.Remarks
	api.store.SaveStudentGrade(grade)

	saved, _ := api.store.GetStudentGrade(data.StudentID, data.CourseID)
	return ctx.JSON(http.StatusOK, saved)
}

func (api *gradingApi) updateGrade(ctx echo.Context) error {
	sid, cid := ctx.Param("studentId"), ctx.Param("courseId")
	if _, ok := api.store.GetStudentGrade(sid, cid); !ok {
		return record.ErrNotFound
	}

	var data record.StudentGradePatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentGradePatch")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	api.store.UpdateStudentGrade(sid, cid, data)
	grade, _ := api.store.GetStudentGrade(sid, cid)
	return ctx.JSON(http.StatusOK, grade)
}

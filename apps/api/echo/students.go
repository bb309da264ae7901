package echoapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/autom8/core/record"
)

type studentApi struct {
	apiDeps
}

func registerStudentAPI(g *echo.Group, deps apiDeps) {
	api := studentApi{deps}

	sg := g.Group("/students")
	sg.GET("", api.query)
	sg.POST("", api.create)

	// detail endpoints
	dg := sg.Group("/:id", api.studentMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/courses", api.courses)
	dg.GET("/attendance", api.attendance)
	dg.GET("/grades", api.grades)
	dg.GET("/performance", api.performance)
}

func (api *studentApi) studentMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		st, ok := api.store.GetStudent(ctx.Param("id"))
		if !ok {
			return errHttpNotFound
		}
		ctx.Set("object", st)
		return next(ctx)
	}
}

func contextStudent(ctx echo.Context) record.Student {
	st, _ := ctx.Get("object").(record.Student)
	return st
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.Students())
}

func (api *studentApi) create(ctx echo.Context) error {
	var data record.Student
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Student")
	}
	if data.ID == "" {
		data.ID = uuid.New().String()
	}
	if data.EnrolledCourses == nil {
		data.EnrolledCourses = []string{}
	}
	if data.CreatedAt.IsZero() {
		data.CreatedAt = api.now().UTC()
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	api.store.AddStudent(data)
	return ctx.JSON(http.StatusCreated, data)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, contextStudent(ctx))
}

func (api *studentApi) update(ctx echo.Context) error {
	var data record.StudentPatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentPatch")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	id := contextStudent(ctx).ID
	api.store.UpdateStudent(id, data)
	updated, _ := api.store.GetStudent(id)
	return ctx.JSON(http.StatusOK, updated)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	api.store.DeleteStudent(contextStudent(ctx).ID)
	return ctx.NoContent(http.StatusNoContent)
}

// courses lists the courses whose roster holds the student.
func (api *studentApi) courses(ctx echo.Context) error {
	ids := api.store.EnrolledCourseIDs(contextStudent(ctx).ID)
	courses := make([]record.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := api.store.GetCourse(id); ok {
			courses = append(courses, c)
		}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *studentApi) attendance(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.StudentAttendance(contextStudent(ctx).ID))
}

func (api *studentApi) grades(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.StudentGrades("", contextStudent(ctx).ID))
}

func (api *studentApi) performance(ctx echo.Context) error {
	perf, err := api.store.StudentPerformance(contextStudent(ctx).ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, perf)
}

package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/autom8/core"
	"github.com/trezcool/autom8/core/record"
)

type attendanceApi struct {
	apiDeps
}

func registerAttendanceAPI(g *echo.Group, deps apiDeps) {
	api := attendanceApi{deps}

	ag := g.Group("/attendance")
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.GET("/sheet", api.sheet)
	ag.PUT("/sheet", api.saveSheet)
	ag.POST("/toggle", api.toggle)
}

// Handlers

// query filters by courseId and/or studentId; with neither it returns every record.
func (api *attendanceApi) query(ctx echo.Context) error {
	courseID, studentID := ctx.QueryParam("courseId"), ctx.QueryParam("studentId")
	switch {
	case courseID != "" && studentID != "":
		return ctx.JSON(http.StatusOK, api.store.GetAttendance(courseID, studentID))
	case courseID != "":
		return ctx.JSON(http.StatusOK, api.store.GetAttendance(courseID))
	case studentID != "":
		return ctx.JSON(http.StatusOK, api.store.StudentAttendance(studentID))
	}
	return ctx.JSON(http.StatusOK, api.store.Attendance())
}

func (api *attendanceApi) create(ctx echo.Context) error {
	var data record.AttendanceRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AttendanceRecord")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	api.store.AddAttendance(data)
	return ctx.JSON(http.StatusCreated, data)
}

type sheetQuery struct {
	CourseID string `query:"courseId" json:"courseId" validate:"required"`
	Date     string `query:"date" json:"date" validate:"required"`
}

// sheet returns the studentId -> status map of one course session.
func (api *attendanceApi) sheet(ctx echo.Context) error {
	q := sheetQuery{CourseID: ctx.QueryParam("courseId"), Date: ctx.QueryParam("date")}
	if err := api.validate.Struct(q); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.store.GetAttendanceMap(q.CourseID, q.Date))
}

type sheetRequest struct {
	sheetQuery
	Statuses map[string]record.AttendanceStatus `json:"statuses" validate:"required"`
}

// saveSheet replaces every record of the session with statuses.
func (api *attendanceApi) saveSheet(ctx echo.Context) error {
	var data sheetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to sheetRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}
	for sid, status := range data.Statuses {
		if !status.IsValid() {
			return core.NewValidationError(nil, core.FieldError{Field: "statuses." + sid, Error: "must be one of present, absent or leave"})
		}
	}

	api.store.SetAttendanceFor(data.CourseID, data.Date, data.Statuses)
	return ctx.JSON(http.StatusOK, api.store.GetAttendanceMap(data.CourseID, data.Date))
}

type toggleRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	CourseID  string `json:"courseId" validate:"required"`
	Date      string `json:"date" validate:"required"`
}

func (api *attendanceApi) toggle(ctx echo.Context) error {
	var data toggleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to toggleRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	api.store.ToggleAttendance(data.StudentID, data.CourseID, data.Date)
	rec := record.AttendanceRecord{StudentID: data.StudentID, CourseID: data.CourseID, Date: data.Date}
	for _, r := range api.store.GetAttendance(data.CourseID, data.StudentID) {
		if r.Date == data.Date {
			rec.Status = r.Status
			break
		}
	}
	return ctx.JSON(http.StatusOK, rec)
}

package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/autom8/core"
	"github.com/trezcool/autom8/core/record"
)

type dashboardApi struct {
	apiDeps
}

func registerDashboardAPI(g *echo.Group, deps apiDeps) {
	api := dashboardApi{deps}

	dg := g.Group("/dashboard")
	dg.GET("", api.summary)
	dg.GET("/alerts", api.alerts)
}

type dashboardResponse struct {
	Stats             record.Stats `json:"stats"`
	OverallAttainment float64      `json:"overallAttainment"`
	Alerts            int          `json:"alerts"`
}

func (api *dashboardApi) summary(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, dashboardResponse{
		Stats:             api.store.Stats(),
		OverallAttainment: record.OverallAttainment(api.store.Courses()),
		Alerts:            len(api.store.Alerts(record.DefaultAttendanceThreshold, record.DefaultGPAThreshold)),
	})
}

// alerts accepts optional attendance and gpa threshold overrides.
func (api *dashboardApi) alerts(ctx echo.Context) error {
	attendance, err := floatParam(ctx, "attendance", record.DefaultAttendanceThreshold)
	if err != nil {
		return err
	}
	gpa, err := floatParam(ctx, "gpa", record.DefaultGPAThreshold)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.store.Alerts(attendance, gpa))
}

func floatParam(ctx echo.Context, name string, def float64) (float64, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be a number"})
	}
	return f, nil
}

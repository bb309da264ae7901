package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/autom8/core/record"
)

type settingsApi struct {
	apiDeps
}

func registerSettingsAPI(g *echo.Group, deps apiDeps) {
	api := settingsApi{deps}
	g.GET("/settings", api.retrieve)
	g.PUT("/settings", api.update)
}

func (api *settingsApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.Settings())
}

func (api *settingsApi) update(ctx echo.Context) error {
	var data record.SettingsPatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SettingsPatch")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	api.store.UpdateSettings(data)
	return ctx.JSON(http.StatusOK, api.store.Settings())
}

package echoapi

import (
	"bytes"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/autom8/core"
	"github.com/trezcool/autom8/core/exchange"
	"github.com/trezcool/autom8/core/record"
)

const maxBackupSize = 32 << 20

type dataApi struct {
	apiDeps
}

func registerDataAPI(g *echo.Group, deps apiDeps) {
	api := dataApi{deps}

	dg := g.Group("/data")
	dg.GET("/backup", api.backup)
	dg.POST("/import", api.importBackup)
	dg.POST("/restore", api.restore)
	dg.DELETE("", api.reset)
	dg.GET("/orphans", api.orphans)
	dg.POST("/sync-enrollments", api.syncEnrollments)
}

func (api *dataApi) backup(ctx echo.Context) error {
	format := ctx.QueryParam("format")
	if format == "" {
		format = exchange.FormatJSON
	}
	contentType := echo.MIMEApplicationJSONCharsetUTF8
	if format == exchange.FormatYAML {
		contentType = "application/yaml; charset=utf-8"
	}

	now := api.now()
	var buf bytes.Buffer
	if err := exchange.ExportBackup(&buf, api.store, format, now); err != nil {
		if errors.Cause(err) == exchange.ErrUnknownFormat {
			return core.NewValidationError(nil, core.FieldError{Field: "format", Error: "must be one of json or yaml"})
		}
		return errors.Wrap(err, "exporting backup")
	}

	filename := "autom8_backup_" + now.Format("2006-01-02") + "." + format
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, contentType, buf.Bytes())
}

// readBackup parses and validates the request body. Absent settings fields keep base's values.
func (api *dataApi) readBackup(ctx echo.Context, base record.Settings) (exchange.Backup, error) {
	data, err := io.ReadAll(http.MaxBytesReader(ctx.Response(), ctx.Request().Body, maxBackupSize))
	if err != nil {
		return exchange.Backup{}, errors.Wrap(err, "reading backup")
	}
	b, err := exchange.ParseBackup(data, base)
	if err != nil {
		return exchange.Backup{}, err
	}
	if err = b.Validate(api.validate); err != nil {
		return exchange.Backup{}, err
	}
	return b, nil
}

// importBackup adds the backup's records to the current ones.
func (api *dataApi) importBackup(ctx echo.Context) error {
	b, err := api.readBackup(ctx, api.store.Settings())
	if err != nil {
		return err
	}
	exchange.ImportBackup(api.store, b)
	return ctx.JSON(http.StatusOK, api.store.Stats())
}

// restore replaces the whole store with the backup.
func (api *dataApi) restore(ctx echo.Context) error {
	b, err := api.readBackup(ctx, record.DefaultSettings())
	if err != nil {
		return err
	}
	exchange.RestoreBackup(api.store, b)
	return ctx.JSON(http.StatusOK, api.store.Stats())
}

func (api *dataApi) reset(ctx echo.Context) error {
	api.store.Reset()
	return ctx.NoContent(http.StatusNoContent)
}

func (api *dataApi) orphans(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.Orphans())
}

func (api *dataApi) syncEnrollments(ctx echo.Context) error {
	api.store.SyncEnrollments()
	return ctx.JSON(http.StatusOK, api.store.Students())
}

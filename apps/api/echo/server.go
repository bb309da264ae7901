package echoapi

import (
	"context"
	"net/http"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/autom8/core"
	"github.com/trezcool/autom8/core/record"
)

type (
	Options struct {
		Address        string
		Debug          bool
		TestMode       bool
		DisableReqLogs bool
		AppName        string

		Store      *record.Store
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		// Now stamps new records and backups; defaults to time.Now.
		Now func() time.Time
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

// NewServer returns the JSON API over opts.Store. It panics if a dependency is missing.
func NewServer(opts *Options) Server {
	vala.BeginValidation().Validate(
		vala.IsNotNil(opts, "opts"),
	).CheckAndPanic()
	vala.BeginValidation().Validate(
		vala.IsNotNil(opts.Store, "store"),
		vala.IsNotNil(opts.Logger, "logger"),
		vala.IsNotNil(opts.Validate, "validate"),
		vala.IsNotNil(opts.Translator, "translator"),
	).CheckAndPanic()
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.opts.Debug || s.opts.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator)
	s.app.Debug = s.opts.Debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	deps := apiDeps{
		store:    s.opts.Store,
		validate: s.opts.Validate,
		now:      s.opts.Now,
	}
	registerCourseAPI(v1, deps)
	registerStudentAPI(v1, deps)
	registerAttendanceAPI(v1, deps)
	registerGradingAPI(v1, deps)
	registerSettingsAPI(v1, deps)
	registerDashboardAPI(v1, deps)
	registerDataAPI(v1, deps)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	name := s.opts.AppName
	if name == "" {
		name = "Autom8"
	}
	return ctx.String(http.StatusOK, "Welcome to "+name+" API!")
}

// apiDeps is shared by every handler group.
type apiDeps struct {
	store    *record.Store
	validate *validator.Validate
	now      func() time.Time
}

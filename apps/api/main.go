package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	echoapi "github.com/trezcool/autom8/apps/api/echo"
	"github.com/trezcool/autom8/core"
	"github.com/trezcool/autom8/core/record"
	"github.com/trezcool/autom8/storage/blob/dummy"
	"github.com/trezcool/autom8/storage/blob/file"
	"github.com/trezcool/autom8/storage/database"
	sqlxrepos "github.com/trezcool/autom8/storage/database/sqlx"
	logsvc "github.com/trezcool/autom8/services/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger, err := logsvc.New(conf)
	if err != nil {
		return errors.Wrap(err, "setting up logger")
	}
	if zl, ok := logger.(*logsvc.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, watch, closeBackend, err := openBackend(conf, logger)
	if err != nil {
		return errors.Wrap(err, "setting up storage")
	}
	defer closeBackend()

	store := record.NewStore(backend, conf.StorageKey, logger)
	store.LoadFromStorage(ctx)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build), "storage", conf.Storage.Driver)
	defer logger.Info("Application stopped")

	translator := core.NewTranslator()
	validate := record.NewValidator(translator)

	server := echoapi.NewServer(&echoapi.Options{
		Address:        conf.Server.Host,
		Debug:          conf.Debug,
		TestMode:       conf.TestMode,
		DisableReqLogs: conf.Server.DisableReqLogs,
		AppName:        conf.AppName,
		Store:          store,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
	})

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	debugSrv := &http.Server{Addr: conf.Server.DebugHost, Handler: http.DefaultServeMux}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "api server")
		}
		return nil
	})
	g.Go(func() error {
		if err := debugSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("debug server closed", err)
		}
		return nil
	})
	if watch != nil {
		// reload when another process rewrites the store file
		g.Go(func() error {
			return watch(gctx, func() { store.LoadFromStorage(gctx) })
		})
	}

	// =========================================================================
	// Shutdown

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Start shutdown...")

		// give outstanding requests a deadline for completion
		sctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		_ = debugSrv.Shutdown(sctx)
		if err := server.Stop(sctx); err != nil {
			return errors.Wrap(err, "could not stop server gracefully")
		}
		return nil
	})
	return g.Wait()
}

type watchFunc func(ctx context.Context, onChange func()) error

// openBackend returns the blob backend selected by conf.Storage.Driver, an optional
// watcher for external changes, and a cleanup func.
func openBackend(conf *core.Config, logger core.Logger) (record.Backend, watchFunc, func(), error) {
	nop := func() {}
	switch conf.Storage.Driver {
	case core.StorageMemory:
		return dummyblob.Open(), nil, nop, nil
	case core.StorageFile:
		db, err := fileblob.Open(conf.Storage.Dir, logger)
		if err != nil {
			return nil, nil, nop, err
		}
		watch := func(ctx context.Context, onChange func()) error {
			return db.Watch(ctx, conf.StorageKey, onChange)
		}
		return db, watch, nop, nil
	case core.StoragePostgres, core.StorageSQLite:
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, nil, nop, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, nil, nop, err
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database", err)
			}
		}
		if err = database.Migrate(db); err != nil {
			closeDB()
			return nil, nil, nop, err
		}
		return sqlxrepos.NewBlobRepository(db), nil, closeDB, nil
	}
	return nil, nil, nop, errors.Wrap(database.ErrUnsupportedDriver, conf.Storage.Driver)
}

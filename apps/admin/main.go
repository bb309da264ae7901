package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/autom8/core"
	"github.com/trezcool/autom8/core/record"
	"github.com/trezcool/autom8/services/email"
	"github.com/trezcool/autom8/services/logger"
	"github.com/trezcool/autom8/storage/blob/file"
	"github.com/trezcool/autom8/storage/database"
	sqlxrepos "github.com/trezcool/autom8/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stderr, "ADMIN : ", log.LstdFlags)

	conf := core.NewConfig()
	logger, err := logsvc.New(conf)
	errAndDie(std, err)

	backend, closeBackend, err := openBackend(conf, logger)
	errAndDie(std, err)

	store := record.NewStore(backend, conf.StorageKey, logger)
	store.LoadFromStorage(context.Background())

	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridAPIKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, os.Stdout)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	cli := commandLine{
		conf:     conf,
		store:    store,
		mailSvc:  mailSvc,
		validate: record.NewValidator(core.NewTranslator()),
		in:       os.Stdin,
		out:      os.Stdout,
	}
	err = cli.run(os.Args)
	closeBackend()
	if err != nil {
		if err != errHelp {
			std.Printf("error: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}

// openBackend opens the persistent backend selected by conf.Storage.Driver.
func openBackend(conf *core.Config, logger core.Logger) (record.Backend, func(), error) {
	nop := func() {}
	switch conf.Storage.Driver {
	case core.StorageFile:
		db, err := fileblob.Open(conf.Storage.Dir, logger)
		return db, nop, err
	case core.StoragePostgres, core.StorageSQLite:
		db, err := database.Open(conf)
		if err != nil {
			return nil, nop, err
		}
		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nop, err
		}
		return sqlxrepos.NewBlobRepository(db), func() { _ = db.Close() }, nil
	}
	// a memory store would be lost as soon as the command returns
	return nil, nop, database.ErrUnsupportedDriver
}

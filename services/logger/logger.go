package logsvc

import (
	"log"
	"os"

	"github.com/trezcool/autom8/core"
)

// New returns the logger selected by conf.LogFormat. Rollbar reporting is enabled outside debug mode.
func New(conf *core.Config) (core.Logger, error) {
	if conf.LogFormat == "zap" {
		return NewZapLogger(conf)
	}
	std := log.New(os.Stdout, conf.AppName+" : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger, nil
}

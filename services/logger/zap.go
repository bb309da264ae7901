package logsvc

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/autom8/core"
)

// ZapLogger writes structured logs through zap.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

var _ core.Logger = (*ZapLogger)(nil)

// NewZapLogger builds a development (console) logger in debug mode and a JSON one otherwise.
func NewZapLogger(conf *core.Config) (*ZapLogger, error) {
	var zconf zap.Config
	if conf.Debug {
		zconf = zap.NewDevelopmentConfig()
	} else {
		zconf = zap.NewProductionConfig()
		zconf.EncoderConfig.TimeKey = "time"
		zconf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zl, err := zconf.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return NewZapLoggerFrom(zl.With(zap.String("app", conf.AppName), zap.String("env", conf.Env))), nil
}

func NewZapLoggerFrom(zl *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: zl.Sugar()}
}

// fields turns args into zap key/values: string keys pair with the following value,
// errors go under "error" and anything else under "argN".
func (l ZapLogger) fields(args []interface{}) []interface{} {
	kvs := make([]interface{}, 0, len(args)*2)
	for i := 0; i < len(args); i++ {
		switch arg := args[i].(type) {
		case error:
			kvs = append(kvs, zap.Error(arg))
		case string:
			if i+1 < len(args) {
				kvs = append(kvs, arg, args[i+1])
				i++
				continue
			}
			kvs = append(kvs, fmt.Sprintf("arg%d", i), arg)
		default:
			kvs = append(kvs, fmt.Sprintf("arg%d", i), arg)
		}
	}
	return kvs
}

func (l ZapLogger) Debug(msg string, args ...interface{}) { l.sugar.Debugw(msg, l.fields(args)...) }
func (l ZapLogger) Info(msg string, args ...interface{})  { l.sugar.Infow(msg, l.fields(args)...) }
func (l ZapLogger) Warn(msg string, args ...interface{})  { l.sugar.Warnw(msg, l.fields(args)...) }
func (l ZapLogger) Error(msg string, args ...interface{}) { l.sugar.Errorw(msg, l.fields(args)...) }
func (l ZapLogger) Fatal(msg string, args ...interface{}) { l.sugar.Fatalw(msg, l.fields(args)...) }

func (l ZapLogger) Sync() error {
	return l.sugar.Sync()
}

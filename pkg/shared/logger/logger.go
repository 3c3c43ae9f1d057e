package logx

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"kriyatec.com/medstore-api/pkg/shared/config"
)

var DefaultLoggerOpts = &LoggerOpts{
	Environment: config.Development,
}

type LoggerOpts struct {
	Environment config.Environment
}

func safe(opts ...LoggerOpts) *LoggerOpts {
	if len(opts) == 0 {
		return DefaultLoggerOpts
	}
	return &opts[0]
}

func Init(opts ...LoggerOpts) {
	if safe(opts...).Environment == config.Production {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	} else {
		log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Caller().Logger()
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}
}

// Writer exposes the global logger to middlewares that log through an io.Writer.
func Writer() io.Writer {
	return log.Logger
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Panic() *zerolog.Event {
	return log.Panic()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}

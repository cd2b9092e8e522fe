// Package logx configures the process-wide zerolog logger. Turn handling
// logs structured fields (turn_id, handler, user_id) through the global
// logger, so Init must run before the first turn; the autoload subpackage
// does that from LOG_* environment variables.
package logx

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool `split_words:"true" default:"false"`
	PrettyFormat bool `split_words:"true" default:"false"`
}

// Init replaces the global logger according to conf. Pretty format is for
// local terminals; the default JSON writer is what log collectors ingest.
func Init(conf Config) {
	var logger zerolog.Logger
	if conf.PrettyFormat {
		logger = zerolog.New(zerolog.NewConsoleWriter())
	} else {
		logger = zerolog.New(os.Stdout)
	}

	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	log.Logger = logger.Level(level).With().Timestamp().Caller().Stack().Logger()
}

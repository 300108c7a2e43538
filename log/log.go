package log

import (
	"io"
	"os"

	"github.com/flightsurety/surety-node/config"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

// NewLogger builds the node logger from log_path, log_format and log_level.
func NewLogger(cfg *config.Config) (log.Logger, error) {
	var dest io.Writer = os.Stdout

	if cfg.LogPath != "stdout" {
		file, err := os.OpenFile(cfg.LogPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return nil, errors.Wrap(err, "open log file")
		}

		dest = file
	}

	return newLogger(log.NewSyncWriter(dest), cfg.LogFormat, cfg.LogLevel)
}

func newLogger(dest io.Writer, format, level string) (log.Logger, error) {
	var l log.Logger

	switch format {
	case config.LogFormatJSON:
		l = log.NewTMJSONLogger(dest)
	case config.LogFormatPlain:
		l = log.NewTMLogger(dest)
	default:
		return nil, errors.Errorf("unsupported log format %q", format)
	}

	l, err := flags.ParseLogLevel(level, l, "info")
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}

	return l, nil
}

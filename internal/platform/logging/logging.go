package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Params struct {
	// FileName of the rotating log; empty or "-" writes to stderr.
	FileName string
	Level    string
	JSON     bool
}

// Setup configures the global logrus logger. The returned closer releases the
// log file and is safe to call when logging to stderr.
func Setup(params Params) io.Closer {
	if params.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: params.FileName != "" && params.FileName != "-"})
	}
	log.SetLevel(GetLevel(params.Level))

	if params.FileName == "" || params.FileName == "-" {
		log.SetOutput(os.Stderr)
		return nopCloser{}
	}

	if !strings.HasSuffix(params.FileName, ".log") {
		params.FileName += ".log"
	}
	if err := os.MkdirAll(filepath.Dir(params.FileName), 0o755); err != nil {
		log.SetOutput(os.Stderr)
		log.Errorf("create log dir: %s", err)
		return nopCloser{}
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   params.FileName,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		Compress:   true,
	}
	log.SetOutput(lumberJackLogger)
	return lumberJackLogger
}

func GetLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

package logger

import (
	"io"
	"os"
	"strings"

	"homework_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Components take entries from it via Component.
var Log = logrus.New()

// Init configures Log from the application configuration and writes to stdout.
func Init(cfg *config.AppConfig) {
	if ok := Configure(Log, os.Stdout, cfg.LogLevel, cfg.Environment); !ok {
		Log.Warnf("Invalid log level '%s', defaulting to 'info'", cfg.LogLevel)
	}
	Log.WithFields(logrus.Fields{
		"level":       Log.GetLevel().String(),
		"environment": cfg.Environment,
	}).Debug("Logger initialized")
}

// Configure applies level and formatter to l. Production-like environments
// log JSON, everything else logs human readable text. It reports false when
// level could not be parsed and info was used instead.
func Configure(l *logrus.Logger, out io.Writer, level, environment string) bool {
	l.SetOutput(out)

	ok := true
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl, ok = logrus.InfoLevel, false
	}
	l.SetLevel(lvl)

	switch strings.ToLower(environment) {
	case "production", "staging":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return ok
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

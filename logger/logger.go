// file: logger/logger.go

package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide structured logger.
// It is usable before Init so packages can log during tests without setup.
var Log = logrus.New()

// Init configures the logger with a JSON formatter writing to stderr.
// Stdout is reserved for command output.
func Init() {
	Log = logrus.New()
	Log.SetFormatter(&logrus.JSONFormatter{})
	Log.SetOutput(os.Stderr)
	Log.SetLevel(logrus.InfoLevel)
}

// SetLevel parses a level name such as "debug" or "warn".
// Unknown names leave the current level untouched.
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		Log.WithField("level", level).Warn("Unknown log level, keeping current level")
		return
	}
	Log.SetLevel(lvl)
}

// internal/cmdutil/log.go
package cmdutil

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the tool's stderr logger. Level is Warn by default;
// --verbose raises it to Info, --debug to Debug, --quiet silences
// everything. Core packages never log; only app layers hold a logger.
func NewLogger(dst io.Writer, quiet, verbose, debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(dst)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	switch {
	case quiet:
		log.SetOutput(io.Discard)
	case debug:
		log.SetLevel(logrus.DebugLevel)
	case verbose:
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

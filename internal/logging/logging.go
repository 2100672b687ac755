package logging

import (
	"fmt"
	"io"
	"sort"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var levels = map[string]logrus.Level{
	"trace":    logrus.TraceLevel,
	"debug":    logrus.DebugLevel,
	"info":     logrus.InfoLevel,
	"warn":     logrus.WarnLevel,
	"error":    logrus.ErrorLevel,
	"critical": logrus.FatalLevel,
	"off":      logrus.PanicLevel,
}

// Setup configures the standard logrus logger. format is "json" or "text".
func Setup(out io.Writer, level, format string) error {
	lvl, ok := levels[level]
	if !ok {
		return fmt.Errorf("log level must be one of %v, got %q", LevelNames(), level)
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(out)
	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.0000"})
	}
	return nil
}

// For returns a logger tagged with the given module name.
func For(module string) *logrus.Entry {
	return logrus.WithField("module", module)
}

// LevelNames lists the accepted level names in sorted order.
func LevelNames() []string {
	names := lo.Keys(levels)
	sort.Strings(names)
	return names
}

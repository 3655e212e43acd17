// Package logging builds the process logger: logrus on stderr, optionally
// teed into a size-rotated file.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level string
	// File enables the rotating log file; empty means stderr only.
	File string
	// Out replaces stderr. Tests use it.
	Out io.Writer
}

// New returns a configured logger and a func that releases the log file.
// An unknown level falls back to info and is reported once on the logger.
func New(o Options) (*logrus.Logger, func() error) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})

	out := o.Out
	if out == nil {
		out = os.Stderr
	}
	closeFn := func() error { return nil }
	if o.File != "" {
		file := &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = io.MultiWriter(out, file)
		closeFn = file.Close
	}
	l.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(o.Level))
	if err != nil {
		l.SetLevel(logrus.InfoLevel)
		if o.Level != "" {
			l.WithField("level", o.Level).Warn("unknown log level, using info")
		}
	} else {
		l.SetLevel(lvl)
	}
	return l, closeFn
}

// For returns a child logger tagged with the module name.
func For(l logrus.FieldLogger, module string) *logrus.Entry {
	return l.WithField("module", module)
}

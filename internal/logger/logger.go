// Package logger builds the structured logger shared by all services.
package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Default returns the package level logger entry
func Default() *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger())
}

// New creates a logger writing to w with the given level name ("debug", "info", ...).
// Unknown levels fall back to info.
func New(w io.Writer, level string, json bool) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(w)
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	if json {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logrus.NewEntry(log)
}

// Discard returns a logger that drops every entry; used by tests.
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

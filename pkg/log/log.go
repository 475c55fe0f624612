// Package log provides the structured logging seam used by every internal
// component. Components take a Logger at construction time rather than
// reaching for a global, so tests can swap in NewNullLogger.
package log

import "github.com/sirupsen/logrus"

type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Tracef(format string, args ...interface{})
}

type logger struct {
	entry *logrus.Entry
}

// New returns a Logger backed by logrus, tagged with the given component
// name (e.g. "vdp", "m68k", "rtc") so multi-component logs stay attributable.
func New(component string) Logger {
	l := logrus.New()
	return &logger{entry: l.WithField("component", component)}
}

func (l *logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logger) Tracef(format string, args ...interface{}) { l.entry.Tracef(format, args...) }

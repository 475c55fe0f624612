package log

// nullLogger discards everything. Used by default in tests and by any
// component constructed without an explicit Logger.
type nullLogger struct{}

func (n nullLogger) Infof(format string, args ...interface{})  {}
func (n nullLogger) Errorf(format string, args ...interface{}) {}
func (n nullLogger) Debugf(format string, args ...interface{}) {}
func (n nullLogger) Tracef(format string, args ...interface{}) {}

// NewNullLogger returns a Logger that discards everything.
func NewNullLogger() Logger {
	return nullLogger{}
}

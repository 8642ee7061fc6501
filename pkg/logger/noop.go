package logger

// NoopLogger discards every message. Useful as a default and in tests.
type NoopLogger struct{}

// NewNoop returns a logger that discards everything.
func NewNoop() *NoopLogger {
	return &NoopLogger{}
}

func (n *NoopLogger) WithField(string, any) Logger      { return n }
func (n *NoopLogger) WithFields(map[string]any) Logger  { return n }
func (n *NoopLogger) WithError(error) Logger            { return n }
func (n *NoopLogger) Debug(...any)                      {}
func (n *NoopLogger) Info(...any)                       {}
func (n *NoopLogger) Warn(...any)                       {}
func (n *NoopLogger) Error(...any)                      {}
func (n *NoopLogger) Fatal(...any)                      {}
func (n *NoopLogger) Debugf(string, ...any)             {}
func (n *NoopLogger) Infof(string, ...any)              {}
func (n *NoopLogger) Warnf(string, ...any)              {}
func (n *NoopLogger) Errorf(string, ...any)             {}
func (n *NoopLogger) Fatalf(string, ...any)             {}
func (n *NoopLogger) SetLevel(Level)                    {}
func (n *NoopLogger) GetLevel() Level                   { return Disabled }

package logger

type Level int8

const (
	Disabled   Level = -1   // Disabled turns logging off entirely.
	DebugLevel Level = iota // DebugLevel is used for debugging information.
	InfoLevel               // InfoLevel is used for informational messages.
	WarnLevel               // WarnLevel is used for warning messages.
	ErrorLevel              // ErrorLevel is used for error messages.
	FatalLevel              // FatalLevel is used for fatal messages that cause the program to exit.
	NoLevel                 // NoLevel is used for no logging level.
)

// Logger is the logging contract used across the dashboard. Implementations
// decorate a root logger with contextual fields and emit leveled messages.
type Logger interface {
	WithField(key string, value any) Logger  // WithField returns a logger with the given key-value pair.
	WithFields(fields map[string]any) Logger // WithFields returns a logger with the given fields.
	WithError(err error) Logger              // WithError returns a logger with the given error.

	Debug(args ...any) // Debug logs the message with the debug level.
	Info(args ...any)  // Info logs the message with the info level.
	Warn(args ...any)  // Warn logs the message with the warning level.
	Error(args ...any) // Error logs the message with the error level.
	Fatal(args ...any) // Fatal logs the message and then exits the program.

	Debugf(format string, args ...any) // Debugf formats and logs the message.
	Infof(format string, args ...any)  // Infof formats and logs the message.
	Warnf(format string, args ...any)  // Warnf formats and logs the message.
	Errorf(format string, args ...any) // Errorf formats and logs the message.
	Fatalf(format string, args ...any) // Fatalf formats and logs the message.

	SetLevel(level Level) // SetLevel sets the logging level for the logger.
	GetLevel() Level      // GetLevel returns the logging level for the logger.
}

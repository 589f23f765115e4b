package core

// Logger is any leveled logger.
// args are extra context: errors (logged with their stack when available) and map[string]interface{} fields.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

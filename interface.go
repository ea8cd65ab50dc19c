package sharedlog

// LevelLogger is the logging surface shared by *Logger and the adapters that accept one.
type LevelLogger interface {
	Error(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Debug(msg string, fields ...Fields)
}

var _ LevelLogger = (*Logger)(nil)

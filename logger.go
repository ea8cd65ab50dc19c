package sharedlog

import (
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Logger writes leveled records to the console, the combined log and the error log.
// Loggers derived with With or Ctx share their parent's sinks and configuration.
type Logger struct {
	core   *core
	fields Fields
}

// core is the state shared by a logger and everything derived from it.
type core struct {
	// mu is held for reading while a record is emitted and for writing while the
	// sinks are replaced or closed.
	mu         sync.RWMutex
	cfg        Config
	opts       options
	transports *transportSet
	logger     atomic.Pointer[zerolog.Logger]
	generation atomic.Int64
	closed     atomic.Bool
}

// New creates the log directories, the three sinks and the logger bound to them.
func New(cfg Config, opts ...Option) (*Logger, error) {
	const op errors.Op = "sharedlog.New"

	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	resolved, badEnvLevel, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	if err = validateConfig(&resolved); err != nil {
		return nil, err
	}
	if err = ensureDirs(resolved.CombinedLogsDir, resolved.ErrorLogsDir); err != nil {
		return nil, err
	}

	c := &core{cfg: resolved, opts: o}
	if err = c.rebuild(); err != nil {
		return nil, errors.New(op).Err(err).Msg(errMsgBuildTransport)
	}

	l := &Logger{core: c}
	if badEnvLevel != emptyString {
		l.Warn("unrecognised log level in environment, using info", Fields{EnvLogLevel: badEnvLevel})
	}
	return l, nil
}

var shared = &sharedState{}

type sharedState struct {
	once   sync.Once
	logger *Logger
	err    error
}

// Shared returns the process-wide logger, creating it on the first call. Arguments to
// later calls are ignored.
func Shared(cfg Config, opts ...Option) (*Logger, error) {
	s := shared
	s.once.Do(func() {
		s.logger, s.err = New(cfg, opts...)
	})
	return s.logger, s.err
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{}
}

// rebuild replaces the sinks and the engine logger. Callers hold c.mu or own c exclusively.
func (c *core) rebuild() error {
	ts, err := newTransportSet(c.cfg, &c.opts)
	if err != nil {
		return err
	}

	zl := zerolog.New(ts.writer).
		Level(Level(c.cfg.LogLevel).zerolog()).
		Hook(timestampHook(c.opts.clock))
	if c.opts.metrics != nil {
		zl = zl.Hook(c.opts.metrics.hook())
	}

	old := c.transports
	c.transports = ts
	c.logger.Store(&zl)
	c.generation.Inc()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Error logs msg at error level. Error records also go to the error log. An error value
// under the "error" key renders as " | <message>" after msg, and its cause chain is added
// as error_chain.
// Example: log.Error("query failed", sharedlog.Fields{"error": err})
func (l *Logger) Error(msg string, fields ...Fields) { l.log(LevelError, msg, fields) }

// Warn logs msg at warn level.
func (l *Logger) Warn(msg string, fields ...Fields) { l.log(LevelWarn, msg, fields) }

// Info logs msg at info level.
// Example: log.Info("user processed", sharedlog.Fields{"user_id": id, "count": 5})
func (l *Logger) Info(msg string, fields ...Fields) { l.log(LevelInfo, msg, fields) }

// Debug logs msg at debug level. It is dropped unless the level is debug.
func (l *Logger) Debug(msg string, fields ...Fields) { l.log(LevelDebug, msg, fields) }

// log never panics and never reports sink failures to the caller.
func (l *Logger) log(level Level, msg string, fields []Fields) {
	if l == nil || l.core == nil {
		return
	}
	defer func() { _ = recover() }()

	c := l.core
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed.Load() {
		return
	}
	zl := c.logger.Load()
	if zl == nil {
		return
	}
	e := zl.WithLevel(level.zerolog())
	if e == nil {
		return
	}

	all := merge(l.fields, fields...)
	if err, ok := all[FieldError].(error); ok {
		if chain := buildErrorChain(err); len(chain) > 1 {
			e.Strs(FieldChain, chain)
		}
	}
	if m := sanitizeFields(all); m != nil {
		e.Fields(m)
	}
	e.Msg(msg)
}

// With returns a logger that adds fields to every record.
func (l *Logger) With(fields Fields) *Logger {
	if l == nil {
		return Nop()
	}
	return &Logger{core: l.core, fields: merge(l.fields, fields)}
}

// SetLogLevel changes the minimum level for every logger sharing this one's sinks.
// Unknown names are rejected with ErrUnknownLevel and leave the level unchanged.
func (l *Logger) SetLogLevel(level string) error {
	const op errors.Op = "sharedlog.Logger.SetLogLevel"

	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if l == nil || l.core == nil {
		return nil
	}

	c := l.core
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed.Load() {
		return errors.New(op).Msg(errMsgLoggerClosed)
	}

	c.cfg.LogLevel = lvl.String()
	zl := c.logger.Load().Level(lvl.zerolog())
	c.logger.Store(&zl)
	return nil
}

// UpdateLogDirectories moves the combined and error logs to new directories, creating
// them if needed. The level and metadata are kept. On failure nothing changes.
func (l *Logger) UpdateLogDirectories(combinedDir, errorDir string) error {
	const op errors.Op = "sharedlog.Logger.UpdateLogDirectories"
	if l == nil || l.core == nil {
		return nil
	}

	c := l.core
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed.Load() {
		return errors.New(op).Msg(errMsgLoggerClosed)
	}

	if err := ensureDirs(combinedDir, errorDir); err != nil {
		return err
	}

	prev := c.cfg
	c.cfg.CombinedLogsDir = combinedDir
	c.cfg.ErrorLogsDir = errorDir
	if err := c.rebuild(); err != nil {
		c.cfg = prev
		return errors.New(op).Err(err).Msg(errMsgBuildTransport)
	}
	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	if l == nil || l.core == nil {
		return emptyString
	}
	l.core.mu.RLock()
	defer l.core.mu.RUnlock()
	return Level(l.core.cfg.LogLevel)
}

// Config returns the resolved configuration currently in effect.
func (l *Logger) Config() Config {
	if l == nil || l.core == nil {
		return Config{}
	}
	l.core.mu.RLock()
	defer l.core.mu.RUnlock()
	return l.core.cfg
}

// Close flushes queued records and closes every sink. Loggers derived from l are closed
// with it. It's safe to call Close multiple times.
func (l *Logger) Close() error {
	if l == nil || l.core == nil {
		return nil
	}
	c := l.core
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed.Load() {
		return nil
	}
	c.closed.Store(true)

	var err error
	if c.transports != nil {
		err = c.transports.Close()
		c.transports = nil
	}
	return err
}

package sharedlog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
)

// Config describes where and how a Logger writes. Zero values take the documented defaults.
type Config struct {
	// RootDir is the base for the default log locations. Defaults to the working directory.
	RootDir string `yaml:"root_dir"`
	// CombinedLogsDir defaults to <RootDir>/logs/combined.
	CombinedLogsDir string `yaml:"combined_logs_dir"`
	// ErrorLogsDir defaults to <RootDir>/logs/errors.
	ErrorLogsDir string `yaml:"error_logs_dir"`
	// LogLevel defaults to $LOG_LEVEL, then "info".
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=error warn info debug"`

	MaxSizeMB          int  `yaml:"max_size_mb" validate:"gte=0"`
	MaxAgeDays         int  `yaml:"max_age_days" validate:"gte=0"`
	AsyncBufferSize    int  `yaml:"async_buffer_size" validate:"gte=0"`
	DisableCompression bool `yaml:"disable_compression"`
	ConsoleNoColor     bool `yaml:"console_no_color"`
	DisableConsole     bool `yaml:"disable_console"`
	// Synchronous writes every record before the logging call returns.
	Synchronous bool `yaml:"synchronous"`
	// DropOnOverflow bounds each asynchronous sink to AsyncBufferSize records. Records that
	// do not fit are discarded and counted instead of queued.
	DropOnOverflow bool `yaml:"drop_on_overflow"`
}

// DefaultCombinedDir returns the combined-log directory used when none is configured.
func DefaultCombinedDir(root string) string {
	return filepath.Join(root, defaultLogsDir, defaultCombinedDir)
}

// DefaultErrorDir returns the error-log directory used when none is configured.
func DefaultErrorDir(root string) string {
	return filepath.Join(root, defaultLogsDir, defaultErrorsDir)
}

// resolve fills in defaults. The returned warning is non-empty when $LOG_LEVEL held a
// value that had to be ignored.
func (c Config) resolve() (Config, string, error) {
	const op errors.Op = "sharedlog.Config.resolve"

	if c.RootDir == emptyString {
		wd, err := os.Getwd()
		if err != nil {
			return c, emptyString, errors.New(op).Err(err).Msg(errMsgWorkingDir)
		}
		c.RootDir = wd
	}
	if c.CombinedLogsDir == emptyString {
		c.CombinedLogsDir = DefaultCombinedDir(c.RootDir)
	}
	if c.ErrorLogsDir == emptyString {
		c.ErrorLogsDir = DefaultErrorDir(c.RootDir)
	}

	var warning string
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == emptyString {
		env := os.Getenv(EnvLogLevel)
		if lvl, err := ParseLevel(env); err == nil {
			c.LogLevel = lvl.String()
		} else {
			c.LogLevel = LevelInfo.String()
			if env != emptyString {
				warning = env
			}
		}
	}

	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = defaultMaxSizeMB
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = defaultMaxAgeDays
	}
	if c.AsyncBufferSize == 0 {
		c.AsyncBufferSize = defaultAsyncBufferSize
	}
	return c, warning, nil
}

// configValidator is built on first use and shared; validator caches struct metadata.
var configValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// validateConfig checks the struct-tag constraints of a resolved config.
func validateConfig(cfg *Config) error {
	const op errors.Op = "sharedlog.validateConfig"
	if cfg == nil {
		return errors.New(op).Msg(errMsgNilConfig)
	}
	if err := configValidator().Struct(cfg); err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}
	return nil
}

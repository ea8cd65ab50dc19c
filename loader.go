package sharedlog

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Station-Manager/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// loadEnvFiles loads .env files in priority order:
// 1. ENV_FILE environment variable (if set, loads only this file)
// 2. .env.local (if exists)
// 3. .env
// Variables already present in the environment are never overwritten.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != emptyString {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	if err := godotenv.Load(".env.local"); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// LoadConfig reads a YAML logging config. .env files are loaded first, and a valid
// LOG_LEVEL in the environment overrides the file's log_level.
func LoadConfig(path string) (Config, error) {
	const op errors.Op = "sharedlog.LoadConfig"

	if err := loadEnvFiles(); err != nil {
		return Config{}, errors.New(op).Err(err).Msg(errMsgLoadEnv)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.New(op).Err(err).Msg(errMsgReadConfig)
	}

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.New(op).Err(err).Msg(errMsgParseConfig)
	}

	if lvl, err := ParseLevel(os.Getenv(EnvLogLevel)); err == nil {
		cfg.LogLevel = lvl.String()
	}
	return cfg, nil
}

// WatchConfig reloads path whenever it is written and applies changes to the level and
// log directories. It returns once the watch is in place; the watch ends with ctx.
// Reload failures are logged and the current configuration is kept.
func (l *Logger) WatchConfig(ctx context.Context, path string) error {
	const op errors.Op = "sharedlog.Logger.WatchConfig"

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.New(op).Err(err).Msg(errMsgWatchConfig)
	}
	// the directory is watched so editors that replace the file are still seen
	if err = w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return errors.New(op).Err(err).Msg(errMsgWatchConfig)
	}

	target := filepath.Clean(path)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				l.reload(path)
			case werr, ok := <-w.Errors:
				if !ok {
					return
				}
				l.Warn("logging config watch error", Fields{FieldError: werr})
			}
		}
	}()
	return nil
}

func (l *Logger) reload(path string) {
	// truncate-then-write editors produce an empty file first
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		return
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		l.Warn("logging config reload failed", Fields{FieldError: err, "path": path})
		return
	}
	if err = l.applyConfig(cfg); err != nil {
		l.Warn("logging config not applied", Fields{FieldError: err, "path": path})
	}
}

// applyConfig applies the level and directory settings of cfg. Other settings take effect
// only when a new Logger is built.
func (l *Logger) applyConfig(cfg Config) error {
	current := l.Config()
	if cfg.RootDir == emptyString {
		cfg.RootDir = current.RootDir
	}
	if cfg.LogLevel == emptyString {
		cfg.LogLevel = current.LogLevel
	}

	resolved, _, err := cfg.resolve()
	if err != nil {
		return err
	}
	if err = validateConfig(&resolved); err != nil {
		return err
	}

	if resolved.LogLevel != current.LogLevel {
		if err = l.SetLogLevel(resolved.LogLevel); err != nil {
			return err
		}
	}
	if resolved.CombinedLogsDir != current.CombinedLogsDir || resolved.ErrorLogsDir != current.ErrorLogsDir {
		return l.UpdateLogDirectories(resolved.CombinedLogsDir, resolved.ErrorLogsDir)
	}
	return nil
}

package sharedlog

import (
	stderrs "errors"
	"io"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
)

const (
	transportConsole  = "console"
	transportCombined = "combined"
	transportError    = "error"
)

// transportSet is the console, combined-file and error-file sinks of one build.
type transportSet struct {
	writer   zerolog.LevelWriter
	combined *hourlyFile
	errors   *hourlyFile
	closers  []io.Closer
	cron     *cron.Cron
}

// noCloseWriter keeps the console stream open when the pipeline in front of it closes.
type noCloseWriter struct {
	io.Writer
}

func newTransportSet(cfg Config, o *options) (*transportSet, error) {
	ts := &transportSet{
		combined: newHourlyFile(cfg.CombinedLogsDir, combinedSuffix, cfg, o.clock, o.metrics),
		errors:   newHourlyFile(cfg.ErrorLogsDir, errorSuffix, cfg, o.clock, o.metrics),
	}

	var writers []io.Writer
	if !cfg.DisableConsole {
		console := newConsoleFormat(noCloseWriter{o.console}, cfg.ConsoleNoColor)
		writers = append(writers, ts.async(transportConsole, console, cfg, o))
	}
	writers = append(writers, ts.async(transportCombined, newFileFormat(ts.combined), cfg, o))
	writers = append(writers, &zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: ts.async(transportError, newFileFormat(ts.errors), cfg, o)},
		Level:  zerolog.ErrorLevel,
	})
	ts.writer = zerolog.MultiLevelWriter(writers...)

	ts.combined.sweep()
	ts.errors.sweep()

	c, err := newRotationScheduler(ts.combined, ts.errors)
	if err != nil {
		_ = ts.Close()
		return nil, err
	}
	ts.cron = c
	return ts, nil
}

// async moves writes to w off the caller's goroutine. By default records queue without
// limit; with DropOnOverflow they go through a fixed ring that discards on overflow and
// counts the loss. Synchronous writes directly.
func (ts *transportSet) async(name string, w io.Writer, cfg Config, o *options) io.Writer {
	switch {
	case cfg.Synchronous:
		return w
	case cfg.DropOnOverflow:
		dw := diode.NewWriter(w, cfg.AsyncBufferSize, asyncPollInterval, func(missed int) {
			o.metrics.dropped(name, missed)
		})
		ts.closers = append(ts.closers, dw)
		return dw
	default:
		q := newQueueWriter(w)
		ts.closers = append(ts.closers, q)
		return q
	}
}

// Close stops the rotation job, drains the buffers and closes the files.
func (ts *transportSet) Close() error {
	if ts.cron != nil {
		<-ts.cron.Stop().Done()
	}
	var errs []error
	for _, c := range ts.closers {
		errs = append(errs, c.Close())
	}
	errs = append(errs, ts.combined.Close(), ts.errors.Close())
	return stderrs.Join(errs...)
}

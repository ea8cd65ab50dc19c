package sharedlog

import (
	"io"
	"os"
	"time"
)

type options struct {
	console io.Writer
	clock   func() time.Time
	metrics *Metrics
}

// Option customises a Logger at construction.
type Option func(*options)

func defaultOptions() options {
	return options{
		console: os.Stderr,
		clock:   time.Now,
	}
}

// WithConsoleWriter sends console output to w instead of os.Stderr.
func WithConsoleWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.console = w
		}
	}
}

// WithClock replaces the time source used for timestamps and rotation keys.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithMetrics records emitted, dropped and rotated counts into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

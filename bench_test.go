package sharedlog

import (
	"io"
	"strconv"
	"testing"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
)

// newBenchLogger wires a Logger straight to a discard engine, skipping sinks and
// directory setup, so only the per-record cost is measured.
func newBenchLogger(level Level) *Logger {
	c := &core{cfg: Config{LogLevel: level.String()}}
	zl := zerolog.New(io.Discard).Level(level.zerolog())
	c.logger.Store(&zl)
	return &Logger{core: c}
}

func makeDetailedChain(depth int) error {
	if depth <= 0 {
		return nil
	}
	err := smerrors.New(smerrors.Op("op_0")).Msg("root cause message")
	for i := 1; i < depth; i++ {
		err = smerrors.New(smerrors.Op("op_" + strconv.Itoa(i))).Err(err).Msg("wrapped message")
	}
	return err
}

func BenchmarkLogger_InfoNoFields(b *testing.B) {
	l := newBenchLogger(LevelInfo)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info("hello")
	}
}

func BenchmarkLogger_InfoFields(b *testing.B) {
	l := newBenchLogger(LevelInfo)
	f := Fields{"user": "alice", "attempt": 3, "tags": []string{"a", "b"}}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info("hello", f)
	}
}

func BenchmarkLogger_DebugFiltered(b *testing.B) {
	l := newBenchLogger(LevelInfo)
	f := Fields{"user": "alice"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Debug("hidden", f)
	}
}

func BenchmarkLogger_ErrorChain(b *testing.B) {
	for _, depth := range []int{1, 5, 20} {
		err := makeDetailedChain(depth)
		b.Run("depth_"+strconv.Itoa(depth), func(b *testing.B) {
			l := newBenchLogger(LevelError)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				l.Error("failed", Fields{FieldError: err})
			}
		})
	}
}

func BenchmarkSanitizeFields(b *testing.B) {
	type payload struct {
		ID    int               `json:"id"`
		Name  string            `json:"name"`
		Attrs map[string]string `json:"attrs"`
	}
	f := Fields{"payload": payload{ID: 1, Name: "n", Attrs: map[string]string{"k": "v"}}, "count": 7}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = sanitizeFields(f)
	}
}

func BenchmarkLogger_Parallel(b *testing.B) {
	l := newBenchLogger(LevelInfo)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l.Info("parallel", Fields{"k": 1})
		}
	})
}

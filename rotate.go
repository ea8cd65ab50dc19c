package sharedlog

import (
	stderrs "errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"
)

var errFileClosed = stderrs.New("log file is closed")

// idle holds closed lumberjack loggers for reuse. lumberjack starts a mill goroutine on a
// logger's first open and never stops it, so loggers are recycled rather than dropped.
var idle struct {
	mu   sync.Mutex
	list []*lumberjack.Logger
}

// acquireOutput returns a closed lumberjack logger with retention and compression off.
// Both are done by hourlyFile, which keeps the mill goroutine idle.
func acquireOutput(maxSize int) *lumberjack.Logger {
	idle.mu.Lock()
	defer idle.mu.Unlock()
	if n := len(idle.list); n > 0 {
		out := idle.list[n-1]
		idle.list = idle.list[:n-1]
		out.MaxSize = maxSize
		return out
	}
	return &lumberjack.Logger{MaxSize: maxSize, LocalTime: true}
}

func releaseOutput(out *lumberjack.Logger) {
	idle.mu.Lock()
	defer idle.mu.Unlock()
	idle.list = append(idle.list, out)
}

// hourlyFile writes to <dir>/<YYYY-MM-DD-HH>_<suffix>.log, switching files whenever the
// hour changes. Within an hour lumberjack enforces the size cap. Finished hours and size
// backups are gzip'd here and removed by sweep once past the retention window.
type hourlyFile struct {
	dir      string
	suffix   string
	maxAge   int
	compress bool
	clock    func() time.Time
	metrics  *Metrics

	mu      sync.Mutex
	key     string
	out     *lumberjack.Logger
	closed  bool
	pending sync.WaitGroup
}

func newHourlyFile(dir, suffix string, cfg Config, clock func() time.Time, m *Metrics) *hourlyFile {
	return &hourlyFile{
		dir:      dir,
		suffix:   suffix,
		maxAge:   cfg.MaxAgeDays,
		compress: !cfg.DisableCompression,
		clock:    clock,
		metrics:  m,
		out:      acquireOutput(cfg.MaxSizeMB),
	}
}

func (h *hourlyFile) filename(key string) string {
	return filepath.Join(h.dir, key+"_"+h.suffix+".log")
}

// Filename returns the file currently written to, empty before the first write.
func (h *hourlyFile) Filename() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.key == emptyString {
		return emptyString
	}
	return h.filename(h.key)
}

func (h *hourlyFile) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, errFileClosed
	}
	h.rollLocked(h.clock())
	return h.out.Write(p)
}

// Rotate moves to a new file if the hour has changed since the last write.
func (h *hourlyFile) Rotate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.key == emptyString {
		return
	}
	h.rollLocked(h.clock())
}

func (h *hourlyFile) rollLocked(now time.Time) {
	key := now.Local().Format(hourKeyLayout)
	if key == h.key {
		return
	}
	if prev := h.key; prev != emptyString {
		_ = h.out.Close()
		h.metrics.rotated(h.suffix)
		if h.compress {
			h.pending.Add(1)
			go func() {
				defer h.pending.Done()
				h.compressHour(prev)
			}()
		}
	}
	h.key = key
	// lumberjack reopens under the new name on the next write
	h.out.Filename = h.filename(key)
}

// compressHour gzips the file of a finished hour together with its size backups.
func (h *hourlyFile) compressHour(key string) {
	_ = gzipFile(h.filename(key))
	backups, _ := filepath.Glob(filepath.Join(h.dir, key+"_"+h.suffix+"-*.log"))
	for _, name := range backups {
		_ = gzipFile(name)
	}
}

// sweep removes this sink's files whose modification time is past the retention window
// and compresses uncompressed files that have not been written for an hour.
func (h *hourlyFile) sweep() {
	now := h.clock()
	matches, err := filepath.Glob(filepath.Join(h.dir, "*_"+h.suffix+"*"))
	if err != nil {
		return
	}
	current := h.Filename()
	for _, name := range matches {
		if name == current {
			continue
		}
		info, err := os.Stat(name)
		if err != nil || info.IsDir() {
			continue
		}
		switch {
		case h.maxAge > 0 && info.ModTime().Before(now.Add(-time.Duration(h.maxAge)*24*time.Hour)):
			_ = os.Remove(name)
		case h.compress && filepath.Ext(name) == ".log" && info.ModTime().Before(now.Add(-time.Hour)):
			_ = gzipFile(name)
		}
	}
}

// Close closes the open file and waits for pending compression. Safe to call repeatedly.
func (h *hourlyFile) Close() error {
	h.mu.Lock()
	var err error
	if !h.closed {
		h.closed = true
		err = h.out.Close()
		releaseOutput(h.out)
		h.out = nil
	}
	h.mu.Unlock()
	h.pending.Wait()
	return err
}

// gzipMu serialises compression so a rollover and a sweep never work on the same file.
var gzipMu sync.Mutex

// gzipFile replaces path with path.gz.
func gzipFile(path string) (err error) {
	gzipMu.Lock()
	defer gzipMu.Unlock()

	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(path+".gz", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(path + ".gz")
		}
	}()

	gz := gzip.NewWriter(dst)
	if _, err = io.Copy(gz, src); err != nil {
		_ = dst.Close()
		return err
	}
	if err = gz.Close(); err != nil {
		_ = dst.Close()
		return err
	}
	if err = dst.Close(); err != nil {
		return err
	}
	_ = src.Close()
	return os.Remove(path)
}

// newRotationScheduler rolls and sweeps files at the top of every hour so that quiet
// sinks still rotate on time.
func newRotationScheduler(files ...*hourlyFile) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	_, err := c.AddFunc(rotationSchedule, func() {
		for _, f := range files {
			f.Rotate()
			f.sweep()
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

package sharedlog

import (
	stderrs "errors"
	"io"
	"sync"
)

var errWriterClosed = stderrs.New("log writer is closed")

// queueWriter hands records to a single goroutine that writes them in order. The queue
// grows as needed, so a burst is delayed rather than dropped. Close writes everything
// still queued before returning.
type queueWriter struct {
	w io.Writer

	mu     sync.Mutex
	cond   *sync.Cond
	queue  [][]byte
	closed bool
	done   chan struct{}
}

func newQueueWriter(w io.Writer) *queueWriter {
	q := &queueWriter{w: w, done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Write copies p; zerolog reuses the buffer once Write returns.
func (q *queueWriter) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return 0, errWriterClosed
	}
	q.queue = append(q.queue, buf)
	q.cond.Signal()
	return len(p), nil
}

func (q *queueWriter) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.queue) == 0 && !q.closed {
			q.cond.Wait()
		}
		batch := q.queue
		q.queue = nil
		closed := q.closed
		q.mu.Unlock()

		for _, p := range batch {
			_, _ = q.w.Write(p)
		}
		if closed && len(batch) == 0 {
			return
		}
	}
}

// Close drains the queue, then closes the wrapped writer if it is an io.Closer.
func (q *queueWriter) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return nil
	}
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()

	<-q.done
	if c, ok := q.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

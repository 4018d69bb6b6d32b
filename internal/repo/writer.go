package repo

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrWriterClosed is returned by Flush after Close.
var ErrWriterClosed = errors.New("snapshot writer closed")

// SnapshotFunc returns the serialized current state of one slot. It is
// called on the writer goroutine at write time, so every write carries the
// newest snapshot rather than the one current when the write was scheduled.
type SnapshotFunc func() ([]byte, error)

// WriteResult describes one completed write attempt.
type WriteResult struct {
	Key      string
	Bytes    int
	Duration time.Duration
	Err      error
}

// WriterOptions tunes a SnapshotWriter.
type WriterOptions struct {
	// Delay debounces bursts of Schedule calls into one write. Zero writes
	// on every kick.
	Delay time.Duration
	// Timeout bounds a single Save. Zero means 5s.
	Timeout time.Duration
	// OnResult, if set, is called on the writer goroutine after each write.
	OnResult func(WriteResult)
}

// SnapshotWriter persists one slot from a single goroutine, so writes never
// interleave. Callers trigger it with Schedule and never wait; Flush is the
// optional completion signal for callers that need durability.
//
// A slot is dirty from the first Schedule until a write succeeds. A failed
// write is not retried on its own; the next Schedule, Flush or Close writes
// again.
type SnapshotWriter struct {
	store    BlobStore
	key      string
	snapshot SnapshotFunc
	opts     WriterOptions

	kick    chan struct{}
	flushCh chan chan error
	done    chan struct{}
	stopped chan struct{}

	closeOnce sync.Once

	// owned by the worker goroutine; readable after stopped is closed
	dirty    bool
	finalErr error
}

// NewSnapshotWriter starts the writer goroutine for key.
func NewSnapshotWriter(store BlobStore, key string, snapshot SnapshotFunc, opts WriterOptions) *SnapshotWriter {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	w := &SnapshotWriter{
		store:    store,
		key:      key,
		snapshot: snapshot,
		opts:     opts,
		kick:     make(chan struct{}, 1),
		flushCh:  make(chan chan error),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.run()
	return w
}

// Schedule marks the slot dirty and arranges a write. It never blocks and
// is a no-op after Close.
func (w *SnapshotWriter) Schedule() {
	select {
	case <-w.done:
		return
	default:
	}
	select {
	case w.kick <- struct{}{}:
	default: // a kick is already queued
	}
}

// Flush writes the slot now if it is dirty and returns the outcome. It
// returns nil when there is nothing to write.
func (w *SnapshotWriter) Flush(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case w.flushCh <- reply:
	case <-w.stopped:
		return ErrWriterClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close performs a final write when the slot is dirty, stops the goroutine,
// and returns the final write's error. It is safe to call more than once.
func (w *SnapshotWriter) Close(ctx context.Context) error {
	w.closeOnce.Do(func() { close(w.done) })
	select {
	case <-w.stopped:
		return w.finalErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *SnapshotWriter) run() {
	defer close(w.stopped)

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	var timerC <-chan time.Time

	for {
		select {
		case <-w.kick:
			w.dirty = true
			if w.opts.Delay <= 0 {
				_ = w.write()
				continue
			}
			if timerC != nil && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.opts.Delay)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if w.dirty {
				_ = w.write()
			}

		case reply := <-w.flushCh:
			w.drainKick()
			var err error
			if w.dirty {
				err = w.write()
			}
			reply <- err

		case <-w.done:
			w.drainKick()
			if w.dirty {
				w.finalErr = w.write()
			}
			return
		}
	}
}

// drainKick folds a queued kick into the current write.
func (w *SnapshotWriter) drainKick() {
	select {
	case <-w.kick:
		w.dirty = true
	default:
	}
}

// write runs under its own root span; backend spans (GORM statements) nest
// beneath it.
func (w *SnapshotWriter) write() error {
	ctx, span := otel.Tracer("repo/SnapshotWriter").Start(context.Background(), "SnapshotWriter.write",
		trace.WithAttributes(attribute.String("repo.key", w.key)))
	defer span.End()

	start := time.Now()
	data, err := w.snapshot()
	if err == nil {
		saveCtx, cancel := context.WithTimeout(ctx, w.opts.Timeout)
		err = w.store.Save(saveCtx, w.key, data)
		cancel()
	}
	span.SetAttributes(attribute.Int("repo.bytes", len(data)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		w.dirty = false
	}
	if w.opts.OnResult != nil {
		w.opts.OnResult(WriteResult{Key: w.key, Bytes: len(data), Duration: time.Since(start), Err: err})
	}
	return err
}

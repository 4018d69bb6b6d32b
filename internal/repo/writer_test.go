package repo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// slowStore records the peak number of concurrent Save calls.
type slowStore struct {
	*MemoryStore
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (s *slowStore) Save(ctx context.Context, key string, data []byte) error {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(s.delay)
	return s.MemoryStore.Save(ctx, key, data)
}

type counterSnapshot struct {
	mu sync.Mutex
	v  string
}

func (c *counterSnapshot) set(v string) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *counterSnapshot) fn() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return []byte(c.v), nil
}

func TestWriter_DebouncesBurstIntoOneWrite(t *testing.T) {
	m := NewMemoryStore()
	snap := &counterSnapshot{}
	w := NewSnapshotWriter(m, KeyAppointments, snap.fn, WriterOptions{Delay: 50 * time.Millisecond})
	defer w.Close(context.Background())

	for i := 0; i < 20; i++ {
		snap.set(string(rune('a' + i)))
		w.Schedule()
	}
	time.Sleep(300 * time.Millisecond)

	if n := m.Saves(KeyAppointments); n != 1 {
		t.Fatalf("expected 1 debounced write, got %d", n)
	}
	got, _ := m.Load(context.Background(), KeyAppointments)
	if string(got) != "t" {
		t.Fatalf("last snapshot should win, got %q", got)
	}
}

func TestWriter_FlushWritesLatestSnapshot(t *testing.T) {
	m := NewMemoryStore()
	snap := &counterSnapshot{v: "v1"}
	w := NewSnapshotWriter(m, KeyAppointments, snap.fn, WriterOptions{Delay: time.Hour})
	defer w.Close(context.Background())

	// nothing dirty: Flush is a no-op
	if err := w.Flush(context.Background()); err != nil || m.Saves(KeyAppointments) != 0 {
		t.Fatalf("clean flush: err=%v saves=%d", err, m.Saves(KeyAppointments))
	}

	w.Schedule()
	snap.set("v2")
	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	got, _ := m.Load(context.Background(), KeyAppointments)
	if string(got) != "v2" {
		t.Fatalf("flush wrote %q; want v2", got)
	}
	if m.Saves(KeyAppointments) != 1 {
		t.Fatalf("saves = %d", m.Saves(KeyAppointments))
	}
}

func TestWriter_CloseWritesPendingAndStops(t *testing.T) {
	m := NewMemoryStore()
	snap := &counterSnapshot{v: "final"}
	w := NewSnapshotWriter(m, KeyChecklist, snap.fn, WriterOptions{Delay: time.Hour})

	w.Schedule()
	if err := w.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got, _ := m.Load(context.Background(), KeyChecklist); string(got) != "final" {
		t.Fatalf("close did not write pending snapshot: %q", got)
	}
	// idempotent, and later calls are inert
	if err := w.Close(context.Background()); err != nil {
		t.Fatalf("second close: %v", err)
	}
	w.Schedule()
	if err := w.Flush(context.Background()); !errors.Is(err, ErrWriterClosed) {
		t.Fatalf("flush after close: %v", err)
	}
	if m.Saves(KeyChecklist) != 1 {
		t.Fatalf("saves = %d", m.Saves(KeyChecklist))
	}
}

func TestWriter_FailuresReportedAndRetriedOnNextTrigger(t *testing.T) {
	m := NewMemoryStore()
	boom := errors.New("disk full")
	m.SetFailSave(boom)

	var (
		mu      sync.Mutex
		results []WriteResult
	)
	w := NewSnapshotWriter(m, KeyAppointments, func() ([]byte, error) { return []byte("[]"), nil }, WriterOptions{
		OnResult: func(r WriteResult) {
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		},
	})
	defer w.Close(context.Background())

	w.Schedule()
	if err := w.Flush(context.Background()); !errors.Is(err, boom) {
		// the kick may already have been written by the worker, leaving the
		// slot dirty; Flush then retries and must see the same failure
		t.Fatalf("flush should surface the failed write, got %v", err)
	}

	m.SetFailSave(nil)
	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("retry flush: %v", err)
	}
	if m.Saves(KeyAppointments) != 1 {
		t.Fatalf("saves = %d", m.Saves(KeyAppointments))
	}

	mu.Lock()
	defer mu.Unlock()
	if len(results) < 2 || !errors.Is(results[0].Err, boom) || results[len(results)-1].Err != nil {
		t.Fatalf("results unexpected: %+v", results)
	}
	if results[len(results)-1].Key != KeyAppointments || results[len(results)-1].Bytes != 2 {
		t.Fatalf("last result unexpected: %+v", results[len(results)-1])
	}
}

func TestWriter_SnapshotErrorKeepsSlotDirty(t *testing.T) {
	m := NewMemoryStore()
	var fail atomic.Bool
	fail.Store(true)
	w := NewSnapshotWriter(m, KeyAppointments, func() ([]byte, error) {
		if fail.Load() {
			return nil, errors.New("encode failed")
		}
		return []byte("ok"), nil
	}, WriterOptions{Delay: time.Hour})
	defer w.Close(context.Background())

	w.Schedule()
	if err := w.Flush(context.Background()); err == nil {
		t.Fatalf("expected snapshot error")
	}
	fail.Store(false)
	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got, _ := m.Load(context.Background(), KeyAppointments); string(got) != "ok" {
		t.Fatalf("got %q", got)
	}
}

func TestWriter_WritesNeverInterleave(t *testing.T) {
	s := &slowStore{MemoryStore: NewMemoryStore(), delay: 5 * time.Millisecond}
	w := NewSnapshotWriter(s, KeyAppointments, func() ([]byte, error) { return []byte("x"), nil }, WriterOptions{})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				w.Schedule()
				if i%5 == 0 {
					_ = w.Flush(context.Background())
				}
			}
		}()
	}
	wg.Wait()
	if err := w.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if p := s.peak.Load(); p != 1 {
		t.Fatalf("peak concurrent saves = %d; want 1", p)
	}
	if s.Saves(KeyAppointments) == 0 {
		t.Fatalf("expected at least one write")
	}
}

func TestWriter_FlushHonorsContext(t *testing.T) {
	s := &slowStore{MemoryStore: NewMemoryStore(), delay: 200 * time.Millisecond}
	w := NewSnapshotWriter(s, KeyAppointments, func() ([]byte, error) { return []byte("x"), nil }, WriterOptions{Delay: time.Hour})
	defer w.Close(context.Background())

	w.Schedule()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := w.Flush(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
}

// spanStore records the span context each Save ran under.
type spanStore struct {
	*MemoryStore
	mu  sync.Mutex
	got []trace.SpanContext
}

func (s *spanStore) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	s.got = append(s.got, trace.SpanContextFromContext(ctx))
	s.mu.Unlock()
	return s.MemoryStore.Save(ctx, key, data)
}

func TestWriter_SavesRunUnderWriteSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	store := &spanStore{MemoryStore: NewMemoryStore()}
	w := NewSnapshotWriter(store, KeyChecklist, func() ([]byte, error) { return []byte("{}"), nil }, WriterOptions{})
	defer w.Close(context.Background())

	w.Schedule()
	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	ended := rec.Ended()
	if len(ended) != 1 || ended[0].Name() != "SnapshotWriter.write" {
		t.Fatalf("spans=%v", ended)
	}
	want := attribute.String("repo.key", KeyChecklist)
	found := false
	for _, kv := range ended[0].Attributes() {
		if kv == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing %v in %v", want, ended[0].Attributes())
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.got) != 1 || store.got[0].SpanID() != ended[0].SpanContext().SpanID() {
		t.Fatalf("save did not run under the write span: %v", store.got)
	}
}

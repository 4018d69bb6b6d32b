package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-calendar-backend/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("kv_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// exerciseBlobStore runs the contract every backend must satisfy.
func exerciseBlobStore(t *testing.T, s BlobStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx, KeyAppointments); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty slot: want ErrNotFound, got %v", err)
	}
	if err := s.Save(ctx, KeyAppointments, []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, KeyAppointments, []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.Load(ctx, KeyAppointments)
	if err != nil || string(got) != "[]" {
		t.Fatalf("load after overwrite = %q, %v", got, err)
	}

	// slots are independent
	if err := s.Save(ctx, KeyChecklist, []byte(`{"1":true}`)); err != nil {
		t.Fatalf("save checklist: %v", err)
	}
	if got, _ := s.Load(ctx, KeyAppointments); string(got) != "[]" {
		t.Fatalf("checklist write clobbered appointments: %q", got)
	}
	if got, _ := s.Load(ctx, KeyChecklist); string(got) != `{"1":true}` {
		t.Fatalf("checklist = %q", got)
	}
}

func TestSQLiteStore_Contract(t *testing.T) {
	exerciseBlobStore(t, NewSQLiteStore(newTestDB(t)))
}

func TestSQLiteStore_NoTable(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "bare.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := NewSQLiteStore(db)
	t.Cleanup(func() { _ = s.Close() })
	if _, err := s.Load(context.Background(), KeyAppointments); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a real error without the table, got %v", err)
	}
	if err := s.Save(context.Background(), KeyAppointments, []byte("[]")); err == nil {
		t.Fatalf("expected save error without the table")
	}
}

func TestFileStore_Contract(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "data"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	exerciseBlobStore(t, s)

	// no temp files left behind
	entries, _ := os.ReadDir(s.Dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
	if fi, err := os.Stat(filepath.Join(s.Dir, KeyAppointments+".json")); err != nil || fi.Mode().Perm() != 0o600 {
		t.Fatalf("slot file perms: %v %v", fi, err)
	}
}

func TestFileStore_RejectsBadKeysAndCanceledContext(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := s.Save(context.Background(), "../escape", []byte("x")); err == nil {
		t.Fatalf("expected invalid key error")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Save(ctx, KeyAppointments, []byte("[]")); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if _, err := s.Load(ctx, KeyAppointments); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestMemoryStore_Contract(t *testing.T) {
	m := NewMemoryStore()
	exerciseBlobStore(t, m)
	if m.Saves(KeyAppointments) != 2 {
		t.Fatalf("saves = %d", m.Saves(KeyAppointments))
	}
	boom := errors.New("disk full")
	m.SetFailSave(boom)
	if err := m.Save(context.Background(), KeyAppointments, nil); !errors.Is(err, boom) {
		t.Fatalf("FailSave not returned: %v", err)
	}
}

func TestPostgresStore_Contract(t *testing.T) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	t.Cleanup(func() {
		_, _ = s.Pool.Exec(context.Background(), `DELETE FROM kv_entries WHERE name IN ($1, $2)`, KeyAppointments, KeyChecklist)
		_ = s.Close()
	})
	_, _ = s.Pool.Exec(ctx, `DELETE FROM kv_entries WHERE name IN ($1, $2)`, KeyAppointments, KeyChecklist)
	exerciseBlobStore(t, s)
}

func TestWriteFileAtomic_ReplacesContent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out", "cal.ics")
	if err := WriteFileAtomic(p, []byte("one"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteFileAtomic(p, []byte("two"), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "two" {
		t.Fatalf("content = %q, %v", b, err)
	}
}

// --- codec ---

func sampleAppointments(n int) []domain.Appointment {
	out := make([]domain.Appointment, n)
	for i := range out {
		start := fmt.Sprintf("2025-03-%02dT%02d:15:00", 1+i%28, 8+i%12)
		out[i] = domain.Appointment{
			ID:        fmt.Sprintf("id-%d", i),
			Date:      domain.DateFromStart(start),
			StartTime: start,
			Duration:  15 * (1 + i%8),
			Title:     fmt.Sprintf("Meeting \"%d\" ünïcode", i),
		}
	}
	return out
}

func TestCodec_RoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 100} {
		in := sampleAppointments(n)
		b, err := EncodeAppointments(in)
		if err != nil {
			t.Fatalf("n=%d encode: %v", n, err)
		}
		out, err := DecodeAppointments(b)
		if err != nil {
			t.Fatalf("n=%d decode: %v", n, err)
		}
		if len(out) != n {
			t.Fatalf("n=%d got %d records", n, len(out))
		}
		for i := range in {
			if in[i] != out[i] {
				t.Fatalf("n=%d record %d mismatch: %+v vs %+v", n, i, in[i], out[i])
			}
		}
	}
}

func TestCodec_EmptyForms(t *testing.T) {
	if b, _ := EncodeAppointments(nil); string(b) != "[]" {
		t.Fatalf("nil collection encodes as %s", b)
	}
	for _, blob := range []string{"", "  ", "null", "[]"} {
		out, err := DecodeAppointments([]byte(blob))
		if err != nil || out == nil || len(out) != 0 {
			t.Fatalf("decode %q = %v, %v", blob, out, err)
		}
	}
	if _, err := DecodeAppointments([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestCodec_TolerantOfAbsentAndExtraFields(t *testing.T) {
	blob := `[{"id":"a","startTime":"2025-03-10T09:00:00","duration":30,"title":"x","color":"red","notes":{"k":1}},
	          {"id":"b","date":"2025-03-11"}]`
	out, err := DecodeAppointments([]byte(blob))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].Date != "" || out[0].Duration != 30 || out[1].StartTime != "" {
		t.Fatalf("unexpected decode: %+v", out)
	}
}

func TestCodec_Checklist(t *testing.T) {
	in := map[string]bool{"a": true, "b": false}
	b, err := EncodeChecklist(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeChecklist(b)
	if err != nil || len(out) != 2 || !out["a"] || out["b"] {
		t.Fatalf("round trip = %v, %v", out, err)
	}
	if b, _ := EncodeChecklist(nil); string(b) != "{}" {
		t.Fatalf("nil checklist encodes as %s", b)
	}
	if out, err := DecodeChecklist([]byte("null")); err != nil || out == nil {
		t.Fatalf("null checklist = %v, %v", out, err)
	}
	if _, err := DecodeChecklist([]byte(`["a"]`)); err == nil {
		t.Fatalf("expected error for non-object checklist")
	}
}

package repo

import (
	"context"

	"gorm.io/gorm"
)

// Fixed slot names. The appointment collection and the checklist flags have
// independent lifecycles and are written separately.
const (
	KeyAppointments = "appointments"
	KeyChecklist    = "appointment_checklist"
)

// ErrNotFound is returned by BlobStore.Load when a slot has never been
// written. It aliases gorm.ErrRecordNotFound so callers can match either.
var ErrNotFound = gorm.ErrRecordNotFound

// BlobStore is a durable key-value slot store. Save replaces the whole slot
// atomically; readers never observe a partially written value.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}

// Compile-time assertions.
var (
	_ BlobStore = (*SQLiteStore)(nil)
	_ BlobStore = (*FileStore)(nil)
	_ BlobStore = (*PostgresStore)(nil)
	_ BlobStore = (*MemoryStore)(nil)
)

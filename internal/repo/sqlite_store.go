package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-calendar-backend/internal/domain"
)

// SQLiteStore keeps each slot as a row of the kv_entries table.
type SQLiteStore struct {
	DB *gorm.DB
}

// NewSQLiteStore wraps db. The caller is expected to have run AutoMigrate.
func NewSQLiteStore(db *gorm.DB) *SQLiteStore { return &SQLiteStore{DB: db} }

// Load returns the slot value, or ErrNotFound when the row is absent.
func (s *SQLiteStore) Load(ctx context.Context, key string) ([]byte, error) {
	var row domain.KVEntry
	err := s.DB.WithContext(ctx).Where("name = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.Value), nil
}

// Save upserts the slot in a single statement.
func (s *SQLiteStore) Save(ctx context.Context, key string, data []byte) error {
	row := domain.KVEntry{Key: key, Value: string(data), UpdatedAt: time.Now().UTC()}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

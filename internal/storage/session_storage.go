package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Fazal135/simple-order-app/internal/models"
)

// SessionStorage is a fiber.Storage backed by the session_records table, so
// cookie sessions survive restarts and can be shared between processes.
type SessionStorage struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewSessionStorage wraps a migrated gorm connection.
func NewSessionStorage(db *gorm.DB) *SessionStorage {
	return &SessionStorage{db: db, clock: time.Now}
}

// Get returns nil without error for missing or expired keys, as fiber expects.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	var record models.SessionRecord
	if err := s.db.Where("session_key = ?", key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if record.ExpiresAt != nil && s.clock().UTC().After(*record.ExpiresAt) {
		return nil, nil
	}
	return record.Data, nil
}

func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	record := models.SessionRecord{Key: key, Data: val}
	if exp > 0 {
		expiresAt := s.clock().UTC().Add(exp)
		record.ExpiresAt = &expiresAt
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at", "updated_at"}),
	}).Create(&record).Error
}

func (s *SessionStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.db.Where("session_key = ?", key).Delete(&models.SessionRecord{}).Error
}

func (s *SessionStorage) Reset() error {
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SessionRecord{}).Error
}

// Close is a no-op; the gorm connection is owned by the caller.
func (s *SessionStorage) Close() error {
	return nil
}

// DeleteExpired removes records whose expiry has passed.
func (s *SessionStorage) DeleteExpired(now time.Time) (int64, error) {
	result := s.db.
		Where("expires_at IS NOT NULL AND expires_at < ?", now.UTC()).
		Delete(&models.SessionRecord{})
	return result.RowsAffected, result.Error
}

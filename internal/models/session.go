package models

import "time"

// SessionRecord backs the cookie session store when sessions live in the database.
type SessionRecord struct {
	Key       string     `gorm:"column:session_key;primaryKey;size:64"`
	Data      []byte     `gorm:"not null"`
	ExpiresAt *time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

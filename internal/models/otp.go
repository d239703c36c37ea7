package models

import "time"

// OTPChallenge is the database form of a pending one-time passcode.
// Only one row exists per email; Nonce changes on every issue.
type OTPChallenge struct {
	BaseModel
	Email     string    `gorm:"not null;uniqueIndex" json:"email"`
	Nonce     string    `gorm:"not null" json:"-"`
	CodeHash  string    `gorm:"not null" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

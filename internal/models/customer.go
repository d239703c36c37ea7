package models

// Customer is a shopper identified by a verified email address.
type Customer struct {
	BaseModel
	Name   string  `gorm:"not null" json:"name"`
	Email  string  `gorm:"not null;uniqueIndex" json:"email"`
	Orders []Order `json:"orders,omitempty"`
}

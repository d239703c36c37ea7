package models

import (
	"github.com/google/uuid"
)

// Order is an immutable record of one successful checkout.
type Order struct {
	BaseModel
	CustomerID uuid.UUID   `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *Customer   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer,omitempty"`
	Total      float64     `gorm:"not null" json:"total"`
	Items      []OrderItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// OrderItem is one cart line frozen into an order.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	Company   string    `gorm:"not null" json:"company"`
	Product   string    `gorm:"not null" json:"product"`
	Price     float64   `gorm:"not null" json:"price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	LineTotal float64   `gorm:"not null" json:"line_total"`
}

package models

import (
	"time"
)

// Customer statuses
const (
	CustomerStatusActive   = "Active"
	CustomerStatusInactive = "Inactive"
)

// Customer is a customer record kept by the shop.
// Phone numbers are unique among customers only; orders may reuse them.
type Customer struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	Name      string    `gorm:"size:255;not null;index" json:"name"`
	Phone     string    `gorm:"size:32;not null;uniqueIndex" json:"phone"`
	City      string    `gorm:"size:128;not null;default:''" json:"city"`
	Address   string    `gorm:"size:512;not null;default:''" json:"address"`
	OrderType string    `gorm:"size:16;not null;default:'Local'" json:"orderType"`
	Status    string    `gorm:"size:16;not null;default:'Active'" json:"status"`
	Date      time.Time `gorm:"not null" json:"date"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

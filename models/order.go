package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSchemaVersion is the current version of the Order record layout.
// Version 1 records had no city/address/order type; version 2 adds them with
// explicit empty defaults.
const OrderSchemaVersion = 2

// Order types
const (
	OrderTypeLocal  = "Local"
	OrderTypeOnline = "Online"
)

// Order represents one customer print job
type Order struct {
	ID            string          `gorm:"primaryKey;size:32" json:"id"` // PREFIX-NNN, assigned from the orders sequence
	SchemaVersion int             `gorm:"not null;default:2" json:"schemaVersion"`
	UserName      string          `gorm:"size:255;not null;index" json:"userName"`
	Phone         string          `gorm:"size:32;not null;index" json:"phone"`
	City          string          `gorm:"size:128;not null;default:''" json:"city"`
	Address       string          `gorm:"size:512;not null;default:''" json:"address"`
	OrderType     string          `gorm:"size:16;not null;default:'Local'" json:"orderType"`
	ItemName      string          `gorm:"size:255;not null;default:''" json:"itemName"`
	ItemSize      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"itemSize"`
	ItemRate      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"itemRate"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"totalCost"` // always ItemSize * ItemRate
	DateTime      time.Time       `gorm:"not null;index" json:"dateTime"`               // creation time, never changes
	UpdatedAt     time.Time       `json:"updatedAt"`
	Payments      []Payment       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ComputeTotalCost recalculates TotalCost from ItemSize and ItemRate
func (o *Order) ComputeTotalCost() {
	o.TotalCost = o.ItemSize.Mul(o.ItemRate)
}

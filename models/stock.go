package models

import "time"

// StockItem is one line of the consumables register.
// Sr comes from the "stock" sequence and is never reused.
type StockItem struct {
	Sr        int64     `gorm:"primaryKey;autoIncrement:false" json:"sr"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	Item      string    `gorm:"size:255;not null" json:"item"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the StockItem model
func (StockItem) TableName() string {
	return "stock_items"
}

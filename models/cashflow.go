package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashflowEntry records cash handed over by the shop (admin ledger)
type CashflowEntry struct {
	ID        uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	Paid      decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"paid"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for the CashflowEntry model
func (CashflowEntry) TableName() string {
	return "cashflow_entries"
}

// BeforeCreate assigns a random ID when none is set
func (c *CashflowEntry) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

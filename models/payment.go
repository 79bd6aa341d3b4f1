package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one payment event recorded against an order.
// Payments are append-only; ascending ID is insertion order.
type Payment struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    string          `gorm:"size:32;not null;index" json:"orderId"`
	Cash       decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"cash"`
	Transfer   decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"transfer"`
	File       string          `gorm:"size:255;not null;default:''" json:"file"`       // attachment name as entered
	ReceiptKey string          `gorm:"size:512;not null;default:''" json:"receiptKey"` // storage key when a receipt was uploaded
	Date       time.Time       `gorm:"not null;index" json:"date"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// Total returns cash + transfer
func (p Payment) Total() decimal.Decimal {
	return p.Cash.Add(p.Transfer)
}

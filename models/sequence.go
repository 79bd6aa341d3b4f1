package models

// Sequence names
const (
	SequenceOrders    = "orders"
	SequenceCustomers = "customers"
	SequenceStock     = "stock"
)

// Sequence is a persisted monotonic counter. It lives apart from the
// collection it numbers so deleting rows never frees an identifier.
type Sequence struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName specifies the table name for the Sequence model
func (Sequence) TableName() string {
	return "sequences"
}

// All returns every model that must be migrated
func All() []any {
	return []any{
		&User{},
		&Sequence{},
		&Order{},
		&Payment{},
		&Customer{},
		&StockItem{},
		&CashflowEntry{},
	}
}

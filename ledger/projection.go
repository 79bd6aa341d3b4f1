package ledger

import (
	"time"

	"github.com/kendall-kelly/printshop-api/models"
	"github.com/shopspring/decimal"
)

// Status is the derived lifecycle stage of an order
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
)

// ParseStatus returns the Status named by s; ok is false for unknown values
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// ProjectedOrder is an order enriched with its reconciled payment state
type ProjectedOrder struct {
	models.Order
	Cash            decimal.Decimal `json:"cash"`
	Transfer        decimal.Decimal `json:"transfer"`
	Amount          decimal.Decimal `json:"amount"`
	Balance         decimal.Decimal `json:"balance"`
	Status          Status          `json:"status"`
	LastPaymentDate *time.Time      `json:"lastPaymentDate"`
	File            string          `json:"file"`
}

// DeriveStatus classifies an order from what was paid against what it costs.
// Nothing paid is Pending even for a zero-cost order.
func DeriveStatus(paid, totalCost decimal.Decimal) Status {
	switch {
	case !paid.IsPositive():
		return StatusPending
	case paid.GreaterThanOrEqual(totalCost):
		return StatusCompleted
	default:
		return StatusInProgress
	}
}

// Project merges one order with its ledger
func Project(order models.Order, l Ledger) ProjectedOrder {
	balance := order.TotalCost.Sub(l.PaidAmount)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	return ProjectedOrder{
		Order:           order,
		Cash:            l.CashTotal,
		Transfer:        l.TransferTotal,
		Amount:          l.PaidAmount,
		Balance:         balance,
		Status:          DeriveStatus(l.PaidAmount, order.TotalCost),
		LastPaymentDate: l.LastPaymentDate,
		File:            l.LastAttachment,
	}
}

// ProjectAll projects every order against the full payment collection.
// Output order follows orders; payments for unknown orders are ignored.
func ProjectAll(orders []models.Order, payments []models.Payment) []ProjectedOrder {
	ledgers := AggregateAll(payments)
	out := make([]ProjectedOrder, len(orders))
	for i := range orders {
		l, ok := ledgers[orders[i].ID]
		if !ok {
			l = Ledger{CashTotal: decimal.Zero, TransferTotal: decimal.Zero, PaidAmount: decimal.Zero}
		}
		out[i] = Project(orders[i], l)
	}
	return out
}

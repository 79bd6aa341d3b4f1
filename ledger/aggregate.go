// Package ledger reconciles orders with their payment history.
//
// Everything here is a pure function over snapshots handed in by the caller:
// nothing is stored, nothing is mutated and no I/O happens. Callers load the
// collections, call ProjectAll / Summarize / Apply and render the result.
package ledger

import (
	"time"

	"github.com/kendall-kelly/printshop-api/models"
	"github.com/shopspring/decimal"
)

// Ledger holds the aggregated payments of one order
type Ledger struct {
	CashTotal       decimal.Decimal `json:"cashTotal"`
	TransferTotal   decimal.Decimal `json:"transferTotal"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	LastPaymentDate *time.Time      `json:"lastPaymentDate"`
	LastAttachment  string          `json:"lastAttachment"`
}

// Aggregate sums the payments that reference orderID.
//
// The most recent payment is the last match in slice order, not the one with
// the latest Date. Payments are append-only so the two agree unless a caller
// reorders the slice.
func Aggregate(orderID string, payments []models.Payment) Ledger {
	l := Ledger{
		CashTotal:     decimal.Zero,
		TransferTotal: decimal.Zero,
		PaidAmount:    decimal.Zero,
	}
	for i := range payments {
		if payments[i].OrderID != orderID {
			continue
		}
		l.add(payments[i])
	}
	return l
}

// AggregateAll groups payments by order id in one pass.
// Orders without payments are absent from the map; a missing entry reads as
// the zero Ledger.
func AggregateAll(payments []models.Payment) map[string]Ledger {
	out := make(map[string]Ledger)
	for i := range payments {
		l, ok := out[payments[i].OrderID]
		if !ok {
			l = Ledger{CashTotal: decimal.Zero, TransferTotal: decimal.Zero, PaidAmount: decimal.Zero}
		}
		l.add(payments[i])
		out[payments[i].OrderID] = l
	}
	return out
}

func (l *Ledger) add(p models.Payment) {
	l.CashTotal = l.CashTotal.Add(p.Cash)
	l.TransferTotal = l.TransferTotal.Add(p.Transfer)
	l.PaidAmount = l.CashTotal.Add(l.TransferTotal)

	date := p.Date
	l.LastPaymentDate = &date
	l.LastAttachment = p.File
}

package ledger

import "github.com/shopspring/decimal"

// Summary holds the management counters over a set of projected orders
type Summary struct {
	CreatedOrders    int             `json:"createdOrders"`
	PendingOrders    int             `json:"pendingOrders"`
	InProgressOrders int             `json:"inProgressOrders"`
	CompletedOrders  int             `json:"completedOrders"`
	TotalItemSize    decimal.Decimal `json:"totalItemSize"`
	TotalItemCost    decimal.Decimal `json:"totalItemCost"`
	TotalCash        decimal.Decimal `json:"totalCash"`
	TotalTransfer    decimal.Decimal `json:"totalTransfer"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	TotalBalance     decimal.Decimal `json:"totalBalance"`
}

// Summarize folds orders into counters and totals
func Summarize(orders []ProjectedOrder) Summary {
	s := Summary{
		TotalItemSize: decimal.Zero,
		TotalItemCost: decimal.Zero,
		TotalCash:     decimal.Zero,
		TotalTransfer: decimal.Zero,
		TotalAmount:   decimal.Zero,
		TotalBalance:  decimal.Zero,
	}
	for i := range orders {
		o := &orders[i]
		s.CreatedOrders++
		switch o.Status {
		case StatusPending:
			s.PendingOrders++
		case StatusInProgress:
			s.InProgressOrders++
		case StatusCompleted:
			s.CompletedOrders++
		}
		s.TotalItemSize = s.TotalItemSize.Add(o.ItemSize)
		s.TotalItemCost = s.TotalItemCost.Add(o.TotalCost)
		s.TotalCash = s.TotalCash.Add(o.Cash)
		s.TotalTransfer = s.TotalTransfer.Add(o.Transfer)
		s.TotalAmount = s.TotalAmount.Add(o.Amount)
		s.TotalBalance = s.TotalBalance.Add(o.Balance)
	}
	return s
}

package ledger

import (
	"strings"
	"time"
)

// DateLayout is the layout of Filter.Date
const DateLayout = "2006-01-02"

// Payment type filters
const (
	PaymentTypeCash     = "cash"
	PaymentTypeTransfer = "transfer"
	PaymentTypeBalance  = "balance"
)

// Filter narrows a projected collection. Zero-valued fields match everything
// and all set fields must match.
type Filter struct {
	Search      string
	Status      Status
	Month       int // 1..12
	Date        string
	From        string // inclusive, DateLayout
	To          string // inclusive, DateLayout
	OrderType   string
	PaymentType string

	// Location is the zone Month, Date, From and To are evaluated in; nil means time.Local
	Location *time.Location
}

// IsZero reports whether the filter matches everything
func (f Filter) IsZero() bool {
	return f.Search == "" && f.Status == "" && f.Month == 0 && f.Date == "" &&
		f.From == "" && f.To == "" && f.OrderType == "" && f.PaymentType == ""
}

// Match reports whether o satisfies every set predicate
func (f Filter) Match(o *ProjectedOrder) bool {
	if f.Search != "" && !matchSearch(o, f.Search) {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.OrderType != "" && o.OrderType != f.OrderType {
		return false
	}
	if f.PaymentType != "" && !matchPaymentType(o, f.PaymentType) {
		return false
	}

	if f.Month != 0 || f.Date != "" || f.From != "" || f.To != "" {
		loc := f.Location
		if loc == nil {
			loc = time.Local
		}
		created := o.DateTime.In(loc)
		if f.Month != 0 && int(created.Month()) != f.Month {
			return false
		}
		// DateLayout strings order the same way as the days they name
		day := created.Format(DateLayout)
		if f.Date != "" && day != f.Date {
			return false
		}
		if f.From != "" && day < f.From {
			return false
		}
		if f.To != "" && day > f.To {
			return false
		}
	}
	return true
}

// Apply returns the orders that match f, in input order. The input slice is
// left untouched.
func Apply(orders []ProjectedOrder, f Filter) []ProjectedOrder {
	if f.IsZero() {
		return append([]ProjectedOrder(nil), orders...)
	}
	out := make([]ProjectedOrder, 0, len(orders))
	for i := range orders {
		if f.Match(&orders[i]) {
			out = append(out, orders[i])
		}
	}
	return out
}

func matchSearch(o *ProjectedOrder, search string) bool {
	if strings.Contains(strings.ToLower(o.UserName), strings.ToLower(search)) {
		return true
	}
	return strings.Contains(o.Phone, search) || strings.Contains(o.ID, search)
}

func matchPaymentType(o *ProjectedOrder, paymentType string) bool {
	switch paymentType {
	case PaymentTypeCash:
		return o.Cash.IsPositive()
	case PaymentTypeTransfer:
		return o.Transfer.IsPositive()
	case PaymentTypeBalance:
		return o.Balance.IsPositive()
	}
	// unknown types are rejected at the HTTP boundary
	return true
}

// FindInvoice returns the first order whose id or phone equals query exactly
func FindInvoice(orders []ProjectedOrder, query string) (ProjectedOrder, bool) {
	for _, o := range orders {
		if o.ID == query || o.Phone == query {
			return o, true
		}
	}
	return ProjectedOrder{}, false
}

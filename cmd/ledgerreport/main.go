// Command ledgerreport prints the reconciled order table and its summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kendall-kelly/printshop-api/config"
	"github.com/kendall-kelly/printshop-api/ledger"
	"github.com/kendall-kelly/printshop-api/logger"
	"github.com/kendall-kelly/printshop-api/repository"
	"github.com/kendall-kelly/printshop-api/services"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

func main() {
	var (
		status      = flag.String("status", "", "only orders with this status (Pending, InProgress, Completed)")
		month       = flag.Int("month", 0, "only orders created in this month (1-12)")
		search      = flag.String("search", "", "match customer name, phone or order id")
		date        = flag.String("date", "", "only orders created on this day (YYYY-MM-DD)")
		paymentType = flag.String("payment-type", "", "cash, transfer or balance")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.IsDevelopment(), cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.L()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("invalid timezone", zap.Error(err))
	}

	filter, err := buildFilter(*status, *month, *search, *date, *paymentType, loc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	orders := services.NewOrderService(repository.New(config.GetDB()), nil, nil, nil, log, services.OrderServiceOptions{
		IDPrefix: cfg.OrderIDPrefix,
		Location: loc,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	listing, err := orders.List(ctx, filter)
	if err != nil {
		log.Fatal("failed to load orders", zap.Error(err))
	}

	if err := render(os.Stdout, listing, loc); err != nil {
		log.Fatal("failed to render report", zap.Error(err))
	}
}

func buildFilter(status string, month int, search, date, paymentType string, loc *time.Location) (ledger.Filter, error) {
	f := ledger.Filter{Search: search, Month: month, Location: loc}

	if status != "" {
		s, ok := ledger.ParseStatus(status)
		if !ok {
			return f, fmt.Errorf("unknown status %q", status)
		}
		f.Status = s
	}
	if month < 0 || month > 12 {
		return f, fmt.Errorf("month must be between 1 and 12")
	}
	if date != "" {
		if _, err := time.ParseInLocation(ledger.DateLayout, date, loc); err != nil {
			return f, fmt.Errorf("date must be formatted as YYYY-MM-DD")
		}
		f.Date = date
	}
	switch paymentType {
	case "", ledger.PaymentTypeCash, ledger.PaymentTypeTransfer, ledger.PaymentTypeBalance:
		f.PaymentType = paymentType
	default:
		return f, fmt.Errorf("unknown payment type %q", paymentType)
	}
	return f, nil
}

func render(w io.Writer, listing *services.OrderListing, loc *time.Location) error {
	orders := tablewriter.NewWriter(w)
	orders.Header("ID", "Customer", "Phone", "Cost", "Cash", "Transfer", "Balance", "Status", "Last payment")
	for _, o := range listing.Orders {
		last := "-"
		if o.LastPaymentDate != nil {
			last = o.LastPaymentDate.In(loc).Format(ledger.DateLayout)
		}
		if err := orders.Append([]string{
			o.ID,
			o.UserName,
			o.Phone,
			o.TotalCost.StringFixed(2),
			o.Cash.StringFixed(2),
			o.Transfer.StringFixed(2),
			o.Balance.StringFixed(2),
			string(o.Status),
			last,
		}); err != nil {
			return err
		}
	}
	if err := orders.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	summary := tablewriter.NewWriter(w)
	summary.Header("", "Shown", "All orders")
	shown, all := listing.Totals, listing.Summary
	rows := [][]string{
		{"Orders", fmt.Sprint(shown.CreatedOrders), fmt.Sprint(all.CreatedOrders)},
		{"Pending", fmt.Sprint(shown.PendingOrders), fmt.Sprint(all.PendingOrders)},
		{"In progress", fmt.Sprint(shown.InProgressOrders), fmt.Sprint(all.InProgressOrders)},
		{"Completed", fmt.Sprint(shown.CompletedOrders), fmt.Sprint(all.CompletedOrders)},
		{"Item size", shown.TotalItemSize.StringFixed(2), all.TotalItemSize.StringFixed(2)},
		{"Item cost", shown.TotalItemCost.StringFixed(2), all.TotalItemCost.StringFixed(2)},
		{"Cash", shown.TotalCash.StringFixed(2), all.TotalCash.StringFixed(2)},
		{"Transfer", shown.TotalTransfer.StringFixed(2), all.TotalTransfer.StringFixed(2)},
		{"Received", shown.TotalAmount.StringFixed(2), all.TotalAmount.StringFixed(2)},
		{"Balance", shown.TotalBalance.StringFixed(2), all.TotalBalance.StringFixed(2)},
	}
	for _, row := range rows {
		if err := summary.Append(row); err != nil {
			return err
		}
	}
	return summary.Render()
}

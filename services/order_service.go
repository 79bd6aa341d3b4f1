package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/kendall-kelly/printshop-api/ledger"
	"github.com/kendall-kelly/printshop-api/models"
	"github.com/kendall-kelly/printshop-api/repository"
	"github.com/kendall-kelly/printshop-api/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderInput carries the editable fields of an order
type OrderInput struct {
	UserName  string
	Phone     string
	City      string
	Address   string
	OrderType string
	ItemName  string
	ItemSize  decimal.Decimal
	ItemRate  decimal.Decimal
}

// PaymentInput carries one payment and its optional receipt
type PaymentInput struct {
	Cash     decimal.Decimal
	Transfer decimal.Decimal
	File     string
	Receipt  *multipart.FileHeader
}

// OrderDetail is a projected order with its payment history
type OrderDetail struct {
	ledger.ProjectedOrder
	Payments []models.Payment `json:"payments"`
}

// OrderListing is the result of List. Summary covers every order, Totals
// only the rows that passed the filter.
type OrderListing struct {
	Orders  []ledger.ProjectedOrder `json:"orders"`
	Summary ledger.Summary          `json:"summary"`
	Totals  ledger.Summary          `json:"totals"`
}

// PaymentResult is a recorded payment and the order state after it
type PaymentResult struct {
	Payment models.Payment        `json:"payment"`
	Order   ledger.ProjectedOrder `json:"order"`
}

// OrderServiceOptions configures identifiers and date filtering
type OrderServiceOptions struct {
	IDPrefix string
	Location *time.Location
}

type OrderService struct {
	repo     *repository.Repository
	receipts ReceiptStore
	cache    SummaryCache
	bus      EventBus
	log      *zap.Logger
	prefix   string
	loc      *time.Location
	now      func() time.Time
}

func NewOrderService(
	repo *repository.Repository,
	receipts ReceiptStore,
	cache SummaryCache,
	bus EventBus,
	log *zap.Logger,
	opts OrderServiceOptions,
) *OrderService {
	if cache == nil {
		cache = NoopSummaryCache{}
	}
	if opts.IDPrefix == "" {
		opts.IDPrefix = "DTF"
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &OrderService{
		repo:     repo,
		receipts: receipts,
		cache:    cache,
		bus:      bus,
		log:      log,
		prefix:   opts.IDPrefix,
		loc:      opts.Location,
		now:      time.Now,
	}
}

// FormatID renders a sequence value as PREFIX-NNN
func FormatID(prefix string, n int64) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}

func (s *OrderService) Create(ctx context.Context, in OrderInput) (*ledger.ProjectedOrder, error) {
	in, err := normalizeOrderInput(in)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		n, err := tx.Sequences.Next(ctx, models.SequenceOrders)
		if err != nil {
			return fmt.Errorf("next order id: %w", err)
		}

		order = models.Order{
			ID:            FormatID(s.prefix, n),
			SchemaVersion: models.OrderSchemaVersion,
			DateTime:      s.now(),
		}
		applyOrderInput(&order, in)

		return tx.Orders.Create(ctx, &order)
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info("order created", zap.String("order_id", order.ID), zap.String("total_cost", order.TotalCost.String()))

	p := ledger.Project(order, ledger.Aggregate(order.ID, nil))
	return &p, nil
}

// Update replaces every editable field and recomputes the total cost.
// Completed orders are frozen.
func (s *OrderService) Update(ctx context.Context, id string, in OrderInput) (*ledger.ProjectedOrder, error) {
	in, err := normalizeOrderInput(in)
	if err != nil {
		return nil, err
	}

	var projected ledger.ProjectedOrder
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		order, payments, err := loadOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if ledger.Project(*order, ledger.Aggregate(id, payments)).Status == ledger.StatusCompleted {
			return ErrOrderCompleted
		}

		applyOrderInput(order, in)
		order.UpdatedAt = s.now()
		if err := tx.Orders.Update(ctx, order); err != nil {
			return err
		}

		projected = ledger.Project(*order, ledger.Aggregate(id, payments))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", id, err)
	}

	s.invalidate(ctx)
	s.log.Info("order updated", zap.String("order_id", id))
	return &projected, nil
}

// Delete removes an order and its payments. Completed orders are kept.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	var receiptKeys []string
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		order, payments, err := loadOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if ledger.Project(*order, ledger.Aggregate(id, payments)).Status == ledger.StatusCompleted {
			return ErrOrderCompleted
		}

		for _, p := range payments {
			if p.ReceiptKey != "" {
				receiptKeys = append(receiptKeys, p.ReceiptKey)
			}
		}

		if _, err := tx.Payments.DeleteByOrder(ctx, id); err != nil {
			return err
		}
		_, err = tx.Orders.Delete(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}

	if s.receipts != nil {
		for _, key := range receiptKeys {
			if err := s.receipts.Delete(ctx, key); err != nil {
				s.log.Warn("failed to delete receipt", zap.String("order_id", id), zap.String("key", key), zap.Error(err))
			}
		}
	}

	s.publish(ctx, newEvent(EventOrderDeleted, id, s.now(), nil))
	s.invalidate(ctx)
	s.log.Info("order deleted", zap.String("order_id", id))
	return nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*OrderDetail, error) {
	order, payments, err := loadOrder(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	return &OrderDetail{
		ProjectedOrder: ledger.Project(*order, ledger.Aggregate(id, payments)),
		Payments:       payments,
	}, nil
}

func (s *OrderService) List(ctx context.Context, f ledger.Filter) (*OrderListing, error) {
	projected, err := s.projectAll(ctx)
	if err != nil {
		return nil, err
	}

	if f.Location == nil {
		f.Location = s.loc
	}
	filtered := ledger.Apply(projected, f)

	return &OrderListing{
		Orders:  filtered,
		Summary: ledger.Summarize(projected),
		Totals:  ledger.Summarize(filtered),
	}, nil
}

// AddPayment records a payment. Overpayment is accepted; the balance
// clamps at zero.
func (s *OrderService) AddPayment(ctx context.Context, id string, in PaymentInput) (*PaymentResult, error) {
	if in.Cash.IsNegative() {
		return nil, fmt.Errorf("%w: cash must not be negative", ErrInvalidPayment)
	}
	if in.Transfer.IsNegative() {
		return nil, fmt.Errorf("%w: transfer must not be negative", ErrInvalidPayment)
	}
	if !in.Cash.Add(in.Transfer).IsPositive() {
		return nil, fmt.Errorf("%w: cash + transfer must be greater than zero", ErrInvalidPayment)
	}
	if in.Receipt != nil {
		if err := utils.ValidateReceiptFile(in.Receipt); err != nil {
			return nil, err
		}
	}

	exists, err := s.repo.Orders.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("add payment to %s: %w", id, err)
	}
	if !exists {
		return nil, ErrOrderNotFound
	}

	payment := models.Payment{
		OrderID:  id,
		Cash:     in.Cash,
		Transfer: in.Transfer,
		File:     strings.TrimSpace(in.File),
	}

	if in.Receipt != nil && s.receipts != nil {
		key, err := s.receipts.Save(ctx, id, in.Receipt)
		if err != nil {
			return nil, fmt.Errorf("store receipt: %w", err)
		}
		payment.ReceiptKey = key
		if payment.File == "" {
			payment.File = in.Receipt.Filename
		}
	}

	var before, after ledger.ProjectedOrder
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		order, payments, err := loadOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		before = ledger.Project(*order, ledger.Aggregate(id, payments))

		payment.Date = s.now()
		if err := tx.Payments.Create(ctx, &payment); err != nil {
			return err
		}

		after = ledger.Project(*order, ledger.Aggregate(id, append(payments, payment)))
		return nil
	})
	if err != nil {
		if payment.ReceiptKey != "" {
			if delErr := s.receipts.Delete(ctx, payment.ReceiptKey); delErr != nil {
				s.log.Warn("failed to remove orphaned receipt", zap.String("key", payment.ReceiptKey), zap.Error(delErr))
			}
		}
		return nil, fmt.Errorf("add payment to %s: %w", id, err)
	}

	s.invalidate(ctx)
	s.log.Info("payment recorded",
		zap.String("order_id", id),
		zap.Uint("payment_id", payment.ID),
		zap.String("amount", payment.Total().String()),
		zap.String("status", string(after.Status)),
	)

	s.publish(ctx, newEvent(EventPaymentRecorded, id, payment.Date, PaymentRecordedPayload{
		PaymentID: payment.ID,
		Cash:      payment.Cash,
		Transfer:  payment.Transfer,
		Amount:    after.Amount,
		Balance:   after.Balance,
		Status:    string(after.Status),
	}))
	if before.Status != ledger.StatusCompleted && after.Status == ledger.StatusCompleted {
		s.publish(ctx, newEvent(EventOrderCompleted, id, payment.Date, OrderCompletedPayload{
			TotalCost: after.TotalCost,
			Amount:    after.Amount,
		}))
	}

	return &PaymentResult{Payment: payment, Order: after}, nil
}

// Payments returns the payment history of an order in insertion order
func (s *OrderService) Payments(ctx context.Context, id string) ([]models.Payment, error) {
	_, payments, err := loadOrder(ctx, s.repo, id)
	return payments, err
}

// ReceiptURL returns a link to the receipt uploaded with a payment
func (s *OrderService) ReceiptURL(ctx context.Context, paymentID uint) (string, error) {
	p, err := s.repo.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", ErrPaymentNotFound
	}
	if p.ReceiptKey == "" || s.receipts == nil {
		return "", ErrReceiptNotFound
	}
	return s.receipts.URL(ctx, p.ReceiptKey)
}

// Dashboard summarizes the orders that match f. The unfiltered summary is
// served from the cache when warm.
func (s *OrderService) Dashboard(ctx context.Context, f ledger.Filter) (*ledger.Summary, error) {
	if !f.IsZero() {
		projected, err := s.projectAll(ctx)
		if err != nil {
			return nil, err
		}
		if f.Location == nil {
			f.Location = s.loc
		}
		summary := ledger.Summarize(ledger.Apply(projected, f))
		return &summary, nil
	}

	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.log.Warn("summary cache read failed", zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	// taken before loading so a write that lands meanwhile makes Set a no-op
	generation, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		s.log.Warn("summary cache generation read failed", zap.Error(genErr))
	}

	projected, err := s.projectAll(ctx)
	if err != nil {
		return nil, err
	}
	summary := ledger.Summarize(projected)

	if genErr == nil {
		if err := s.cache.Set(ctx, generation, &summary); err != nil {
			s.log.Warn("summary cache write failed", zap.Error(err))
		}
	}
	return &summary, nil
}

// Invoice looks an order up by exact id or phone and returns it with its
// payment history. With several orders on one phone the oldest wins.
func (s *OrderService) Invoice(ctx context.Context, query string) (*OrderDetail, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("query", "order id or phone is required")
	}

	projected, err := s.projectAll(ctx)
	if err != nil {
		return nil, err
	}
	order, ok := ledger.FindInvoice(projected, query)
	if !ok {
		return nil, ErrOrderNotFound
	}
	payments, err := s.repo.Payments.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("load payments for %s: %w", order.ID, err)
	}
	return &OrderDetail{ProjectedOrder: order, Payments: payments}, nil
}

func (s *OrderService) projectAll(ctx context.Context) ([]ledger.ProjectedOrder, error) {
	orders, err := s.repo.Orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	payments, err := s.repo.Payments.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	return ledger.ProjectAll(orders, payments), nil
}

func (s *OrderService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("summary cache invalidation failed", zap.Error(err))
	}
}

func (s *OrderService) publish(ctx context.Context, ev Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish event", zap.String("type", ev.Type), zap.String("order_id", ev.OrderID), zap.Error(err))
	}
}

func loadOrder(ctx context.Context, repo *repository.Repository, id string) (*models.Order, []models.Payment, error) {
	order, err := repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, ErrOrderNotFound
	}
	payments, err := repo.Payments.ListByOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return order, payments, nil
}

func normalizeOrderInput(in OrderInput) (OrderInput, error) {
	in.UserName = strings.TrimSpace(in.UserName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.City = strings.TrimSpace(in.City)
	in.Address = strings.TrimSpace(in.Address)
	in.ItemName = strings.TrimSpace(in.ItemName)
	in.OrderType = strings.TrimSpace(in.OrderType)

	if in.UserName == "" {
		return in, invalid("userName", "is required")
	}
	if !utils.IsValidMobile(in.Phone) {
		return in, invalid("phone", "must match 03XXXXXXXXX")
	}
	orderType, err := normalizeOrderType(in.OrderType)
	if err != nil {
		return in, err
	}
	in.OrderType = orderType
	if !in.ItemSize.IsPositive() {
		return in, invalid("itemSize", "must be greater than zero")
	}
	if !in.ItemRate.IsPositive() {
		return in, invalid("itemRate", "must be greater than zero")
	}
	return in, nil
}

func normalizeOrderType(t string) (string, error) {
	switch t {
	case "":
		return models.OrderTypeLocal, nil
	case models.OrderTypeLocal, models.OrderTypeOnline:
		return t, nil
	}
	return "", invalid("orderType", "must be Local or Online")
}

func applyOrderInput(o *models.Order, in OrderInput) {
	o.UserName = in.UserName
	o.Phone = in.Phone
	o.City = in.City
	o.Address = in.Address
	o.OrderType = in.OrderType
	o.ItemName = in.ItemName
	o.ItemSize = in.ItemSize
	o.ItemRate = in.ItemRate
	o.ComputeTotalCost()
}

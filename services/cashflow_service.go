package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/printshop-api/models"
	"github.com/kendall-kelly/printshop-api/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CashflowInput struct {
	// Date defaults to now when nil
	Date *time.Time
	Paid decimal.Decimal
}

type CashflowFilter struct {
	Month int
}

// CashflowSummary compares cash handed over with cash received on orders.
// TotalPaid follows the filter; ActualAmount always covers every payment.
type CashflowSummary struct {
	TotalPaid    decimal.Decimal `json:"totalPaid"`
	ActualAmount decimal.Decimal `json:"actualAmount"`
	Balance      decimal.Decimal `json:"balance"`
}

type CashflowListing struct {
	Entries []models.CashflowEntry `json:"entries"`
	Summary CashflowSummary        `json:"summary"`
}

type CashflowService struct {
	repo *repository.Repository
	log  *zap.Logger
	loc  *time.Location
	now  func() time.Time
}

func NewCashflowService(repo *repository.Repository, log *zap.Logger, loc *time.Location) *CashflowService {
	if loc == nil {
		loc = time.Local
	}
	return &CashflowService{repo: repo, log: log, loc: loc, now: time.Now}
}

func (s *CashflowService) Create(ctx context.Context, in CashflowInput) (*models.CashflowEntry, error) {
	if !in.Paid.IsPositive() {
		return nil, invalid("paid", "must be greater than zero")
	}

	entry := models.CashflowEntry{Date: s.now(), Paid: in.Paid}
	if in.Date != nil {
		entry.Date = *in.Date
	}
	if err := s.repo.Cashflow.Create(ctx, &entry); err != nil {
		return nil, fmt.Errorf("create cashflow entry: %w", err)
	}

	s.log.Info("cashflow entry created", zap.String("id", entry.ID.String()), zap.String("paid", entry.Paid.String()))
	return &entry, nil
}

func (s *CashflowService) Update(ctx context.Context, id uuid.UUID, in CashflowInput) (*models.CashflowEntry, error) {
	if !in.Paid.IsPositive() {
		return nil, invalid("paid", "must be greater than zero")
	}

	entry, err := s.repo.Cashflow.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrCashflowNotFound
	}

	entry.Paid = in.Paid
	if in.Date != nil {
		entry.Date = *in.Date
	}
	if err := s.repo.Cashflow.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update cashflow entry %s: %w", id, err)
	}
	return entry, nil
}

func (s *CashflowService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.Cashflow.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete cashflow entry %s: %w", id, err)
	}
	if n == 0 {
		return ErrCashflowNotFound
	}
	return nil
}

func (s *CashflowService) List(ctx context.Context, f CashflowFilter) (*CashflowListing, error) {
	all, err := s.repo.Cashflow.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cashflow: %w", err)
	}
	payments, err := s.repo.Payments.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	listing := &CashflowListing{
		Entries: make([]models.CashflowEntry, 0, len(all)),
		Summary: CashflowSummary{TotalPaid: decimal.Zero, ActualAmount: decimal.Zero},
	}
	for _, e := range all {
		if f.Month != 0 && int(e.Date.In(s.loc).Month()) != f.Month {
			continue
		}
		listing.Entries = append(listing.Entries, e)
		listing.Summary.TotalPaid = listing.Summary.TotalPaid.Add(e.Paid)
	}
	for _, p := range payments {
		listing.Summary.ActualAmount = listing.Summary.ActualAmount.Add(p.Cash)
	}
	listing.Summary.Balance = listing.Summary.TotalPaid.Sub(listing.Summary.ActualAmount)

	return listing, nil
}

package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/printshop-api/models"
	"github.com/kendall-kelly/printshop-api/repository"
	"go.uber.org/zap"
)

type StockInput struct {
	Item     string
	Quantity int
}

// StockFilter matches Search against the item name or the quantity
type StockFilter struct {
	Search string
	Month  int
}

type StockSummary struct {
	Items         int `json:"items"`
	TotalQuantity int `json:"totalQuantity"`
}

// StockListing holds the matching items; Summary covers the same rows
type StockListing struct {
	Items   []models.StockItem `json:"items"`
	Summary StockSummary       `json:"summary"`
}

type StockService struct {
	repo *repository.Repository
	log  *zap.Logger
	loc  *time.Location
	now  func() time.Time
}

func NewStockService(repo *repository.Repository, log *zap.Logger, loc *time.Location) *StockService {
	if loc == nil {
		loc = time.Local
	}
	return &StockService{repo: repo, log: log, loc: loc, now: time.Now}
}

func (s *StockService) Create(ctx context.Context, in StockInput) (*models.StockItem, error) {
	in, err := normalizeStockInput(in)
	if err != nil {
		return nil, err
	}

	var item models.StockItem
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		sr, err := tx.Sequences.Next(ctx, models.SequenceStock)
		if err != nil {
			return fmt.Errorf("next stock sr: %w", err)
		}
		item = models.StockItem{Sr: sr, Date: s.now(), Item: in.Item, Quantity: in.Quantity}
		return tx.Stock.Create(ctx, &item)
	})
	if err != nil {
		return nil, fmt.Errorf("create stock item: %w", err)
	}

	s.log.Info("stock item created", zap.Int64("sr", item.Sr), zap.String("item", item.Item))
	return &item, nil
}

func (s *StockService) Update(ctx context.Context, sr int64, in StockInput) (*models.StockItem, error) {
	in, err := normalizeStockInput(in)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.Stock.GetBySr(ctx, sr)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrStockNotFound
	}

	item.Item = in.Item
	item.Quantity = in.Quantity
	if err := s.repo.Stock.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update stock item %d: %w", sr, err)
	}
	return item, nil
}

func (s *StockService) Delete(ctx context.Context, sr int64) error {
	n, err := s.repo.Stock.Delete(ctx, sr)
	if err != nil {
		return fmt.Errorf("delete stock item %d: %w", sr, err)
	}
	if n == 0 {
		return ErrStockNotFound
	}
	return nil
}

func (s *StockService) List(ctx context.Context, f StockFilter) (*StockListing, error) {
	all, err := s.repo.Stock.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stock: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(f.Search))
	listing := &StockListing{Items: make([]models.StockItem, 0, len(all))}
	for _, item := range all {
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Item), query) &&
			!strings.Contains(strconv.Itoa(item.Quantity), query) {
			continue
		}
		if f.Month != 0 && int(item.Date.In(s.loc).Month()) != f.Month {
			continue
		}
		listing.Items = append(listing.Items, item)
		listing.Summary.Items++
		listing.Summary.TotalQuantity += item.Quantity
	}
	return listing, nil
}

func normalizeStockInput(in StockInput) (StockInput, error) {
	in.Item = strings.TrimSpace(in.Item)
	if in.Item == "" {
		return in, invalid("item", "is required")
	}
	if in.Quantity <= 0 {
		return in, invalid("quantity", "must be greater than zero")
	}
	return in, nil
}

package repository

import (
	"context"
	"errors"

	"github.com/kendall-kelly/printshop-api/models"
	"gorm.io/gorm"
)

type StockRepo interface {
	Create(ctx context.Context, s *models.StockItem) error
	GetBySr(ctx context.Context, sr int64) (*models.StockItem, error)
	List(ctx context.Context) ([]models.StockItem, error)
	Update(ctx context.Context, s *models.StockItem) error
	Delete(ctx context.Context, sr int64) (int64, error)
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepo(db *gorm.DB) StockRepo { return &stockRepo{db: db} }

func (r *stockRepo) Create(ctx context.Context, s *models.StockItem) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *stockRepo) GetBySr(ctx context.Context, sr int64) (*models.StockItem, error) {
	var s models.StockItem
	err := r.db.WithContext(ctx).First(&s, "sr = ?", sr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *stockRepo) List(ctx context.Context) ([]models.StockItem, error) {
	var list []models.StockItem
	err := r.db.WithContext(ctx).Order("sr ASC").Find(&list).Error
	return list, err
}

func (r *stockRepo) Update(ctx context.Context, s *models.StockItem) error {
	return r.db.WithContext(ctx).Model(&models.StockItem{}).Where("sr = ?", s.Sr).Updates(map[string]any{
		"item":     s.Item,
		"quantity": s.Quantity,
	}).Error
}

func (r *stockRepo) Delete(ctx context.Context, sr int64) (int64, error) {
	tx := r.db.WithContext(ctx).Where("sr = ?", sr).Delete(&models.StockItem{})
	return tx.RowsAffected, tx.Error
}

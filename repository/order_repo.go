package repository

import (
	"context"
	"errors"

	"github.com/kendall-kelly/printshop-api/models"
	"gorm.io/gorm"
)

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	Delete(ctx context.Context, id string) (int64, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Omit("Payments").Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

// List returns every order, oldest first
func (r *orderRepo) List(ctx context.Context) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).Order("date_time ASC").Order("id ASC").Find(&list).Error
	return list, err
}

// Update writes the editable fields and UpdatedAt as set by the caller
func (r *orderRepo) Update(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", o.ID).Updates(map[string]any{
		"user_name":  o.UserName,
		"phone":      o.Phone,
		"city":       o.City,
		"address":    o.Address,
		"order_type": o.OrderType,
		"item_name":  o.ItemName,
		"item_size":  o.ItemSize,
		"item_rate":  o.ItemRate,
		"total_cost": o.TotalCost,
		"updated_at": o.UpdatedAt,
	}).Error
}

func (r *orderRepo) Delete(ctx context.Context, id string) (int64, error) {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{})
	return tx.RowsAffected, tx.Error
}

func (r *orderRepo) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

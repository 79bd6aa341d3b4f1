package repository

import (
	"context"
	"errors"

	"github.com/kendall-kelly/printshop-api/models"
	"gorm.io/gorm"
)

// PaymentRepo stores payments in insertion order. There is no update;
// payments leave only with their order.
type PaymentRepo interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error)
	ListAll(ctx context.Context) ([]models.Payment, error)
	DeleteByOrder(ctx context.Context, orderID string) (int64, error)
}

type paymentRepo struct{ db *gorm.DB }

func NewPaymentRepo(db *gorm.DB) PaymentRepo { return &paymentRepo{db: db} }

func (r *paymentRepo) Create(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepo) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *paymentRepo) ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error) {
	var rows []models.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *paymentRepo) ListAll(ctx context.Context) ([]models.Payment, error) {
	var rows []models.Payment
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *paymentRepo) DeleteByOrder(ctx context.Context, orderID string) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.Payment{})
	return tx.RowsAffected, tx.Error
}

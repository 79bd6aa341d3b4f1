package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kendall-kelly/printshop-api/models"
	"gorm.io/gorm"
)

type CashflowRepo interface {
	Create(ctx context.Context, e *models.CashflowEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CashflowEntry, error)
	List(ctx context.Context) ([]models.CashflowEntry, error)
	Update(ctx context.Context, e *models.CashflowEntry) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type cashflowRepo struct{ db *gorm.DB }

func NewCashflowRepo(db *gorm.DB) CashflowRepo { return &cashflowRepo{db: db} }

func (r *cashflowRepo) Create(ctx context.Context, e *models.CashflowEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *cashflowRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CashflowEntry, error) {
	var e models.CashflowEntry
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &e, err
}

func (r *cashflowRepo) List(ctx context.Context) ([]models.CashflowEntry, error) {
	var list []models.CashflowEntry
	err := r.db.WithContext(ctx).Order("date ASC").Find(&list).Error
	return list, err
}

func (r *cashflowRepo) Update(ctx context.Context, e *models.CashflowEntry) error {
	return r.db.WithContext(ctx).Model(&models.CashflowEntry{}).Where("id = ?", e.ID).Updates(map[string]any{
		"date": e.Date,
		"paid": e.Paid,
	}).Error
}

func (r *cashflowRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CashflowEntry{})
	return tx.RowsAffected, tx.Error
}

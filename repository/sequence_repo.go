package repository

import (
	"context"

	"github.com/kendall-kelly/printshop-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceRepo hands out identifiers that are never reused
type SequenceRepo interface {
	// Next increments the named counter and returns the new value (first call returns 1)
	Next(ctx context.Context, name string) (int64, error)
	Current(ctx context.Context, name string) (int64, error)
}

type sequenceRepo struct{ db *gorm.DB }

func NewSequenceRepo(db *gorm.DB) SequenceRepo { return &sequenceRepo{db: db} }

func (r *sequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bump := func() (int64, error) {
			res := tx.Model(&models.Sequence{}).
				Where("name = ?", name).
				Update("value", gorm.Expr("value + 1"))
			return res.RowsAffected, res.Error
		}

		n, err := bump()
		if err != nil {
			return err
		}
		if n == 0 {
			seed := models.Sequence{Name: name, Value: 0}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
				return err
			}
			if _, err := bump(); err != nil {
				return err
			}
		}

		var seq models.Sequence
		if err := tx.First(&seq, "name = ?", name).Error; err != nil {
			return err
		}
		value = seq.Value
		return nil
	})
	return value, err
}

// Current returns the last value handed out, 0 when the counter was never used
func (r *sequenceRepo) Current(ctx context.Context, name string) (int64, error) {
	var seq models.Sequence
	err := r.db.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&seq).Error
	return seq.Value, err
}

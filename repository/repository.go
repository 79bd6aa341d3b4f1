// Package repository is the persistence boundary of the back office: one
// repo per collection, all sharing a gorm handle.
package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB        *gorm.DB
	Orders    OrderRepo
	Payments  PaymentRepo
	Customers CustomerRepo
	Stock     StockRepo
	Cashflow  CashflowRepo
	Users     UserRepo
	Sequences SequenceRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:        db,
		Orders:    NewOrderRepo(db),
		Payments:  NewPaymentRepo(db),
		Customers: NewCustomerRepo(db),
		Stock:     NewStockRepo(db),
		Cashflow:  NewCashflowRepo(db),
		Users:     NewUserRepo(db),
		Sequences: NewSequenceRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx runs fn against a Repository bound to a single transaction.
// fn must only use the repos it is given.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}

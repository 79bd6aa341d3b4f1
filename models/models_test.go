package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{User{}.TableName(), "users"},
		{Sequence{}.TableName(), "sequences"},
		{Order{}.TableName(), "orders"},
		{Payment{}.TableName(), "payments"},
		{Customer{}.TableName(), "customers"},
		{StockItem{}.TableName(), "stock_items"},
		{CashflowEntry{}.TableName(), "cashflow_entries"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got)
	}
	assert.Len(t, All(), len(tests))
}

func TestComputeTotalCost(t *testing.T) {
	o := Order{ItemSize: decimal.RequireFromString("2.5"), ItemRate: decimal.NewFromInt(40)}
	o.ComputeTotalCost()
	assert.True(t, decimal.NewFromInt(100).Equal(o.TotalCost), o.TotalCost.String())

	o.ItemSize = decimal.Zero
	o.ComputeTotalCost()
	assert.True(t, o.TotalCost.IsZero())
}

func TestPaymentTotal(t *testing.T) {
	p := Payment{Cash: decimal.NewFromInt(150), Transfer: decimal.RequireFromString("49.50")}
	assert.Equal(t, "199.5", p.Total().String())
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, User{Role: RoleAdmin}.IsAdmin())
	assert.False(t, User{Role: RoleUser}.IsAdmin())
	assert.False(t, User{}.IsAdmin())
}

func TestCashflowBeforeCreateAssignsID(t *testing.T) {
	entry := &CashflowEntry{}
	require.NoError(t, entry.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, entry.ID)

	fixed := uuid.New()
	entry = &CashflowEntry{ID: fixed}
	require.NoError(t, entry.BeforeCreate(nil))
	assert.Equal(t, fixed, entry.ID)
}

func TestMoneyRendersAsNumber(t *testing.T) {
	raw, err := json.Marshal(Payment{Cash: decimal.NewFromInt(400), Transfer: decimal.Zero})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"cash":400`)
	assert.Contains(t, string(raw), `"transfer":0`)
}

func TestUserHidesPasswordHash(t *testing.T) {
	raw, err := json.Marshal(User{Email: "a@b.c", PasswordHash: "secret", Role: RoleUser})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "PasswordHash")
}

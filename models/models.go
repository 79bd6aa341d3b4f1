// Package models holds the gorm records of the back office.
//
// Monetary and size fields use decimal.Decimal and are rendered as JSON
// numbers, matching the field names the front end already reads.
package models

import "github.com/shopspring/decimal"

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

package models

import (
	"github.com/shopspring/decimal"
)

// NormalSide is the stored form of an account's normal side.
type NormalSide string

const (
	Left  NormalSide = "Left"
	Right NormalSide = "Right"
)

// Account is the stored row of a Chart-of-Accounts record.
type Account struct {
	AccountID      string          `db:"account_id"`
	Number         string          `db:"account_number"`
	Name           string          `db:"account_name"`
	Description    string          `db:"account_description"`
	Category       string          `db:"account_category"`
	Subcategory    string          `db:"account_subcategory"`
	NormalSide     NormalSide      `db:"normal_side"`
	InitialBalance decimal.Decimal `db:"initial_balance"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	Balance        decimal.Decimal `db:"balance"`
	IsActive       bool            `db:"is_active"`
	OwnerID        string          `db:"owner_id"`
	SortOrder      int             `db:"sort_order"`
	Statement      string          `db:"statement"`
	Comment        string          `db:"comment"`
	AuditFields
}

package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NormalSide fixes which movement increases an account's balance.
type NormalSide string

const (
	Left  NormalSide = "Left"  // debits increase the balance
	Right NormalSide = "Right" // credits increase the balance
)

// Valid reports whether the side is one of Left or Right.
func (s NormalSide) Valid() bool {
	return s == Left || s == Right
}

// PostingSide selects which cumulative column a posting moves.
type PostingSide string

const (
	Debit  PostingSide = "DEBIT"
	Credit PostingSide = "CREDIT"
)

// Account is a Chart-of-Accounts record.
type Account struct {
	AccountID      string          `json:"accountID"`
	Number         string          `json:"number"` // unique
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Subcategory    string          `json:"subcategory"`
	NormalSide     NormalSide      `json:"normalSide"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Debit          decimal.Decimal `json:"debit"`  // cumulative approved debits
	Credit         decimal.Decimal `json:"credit"` // cumulative approved credits
	Balance        decimal.Decimal `json:"balance"`
	IsActive       bool            `json:"isActive"`
	OwnerID        string          `json:"ownerID"`
	Order          int             `json:"order"`
	Statement      string          `json:"statement"`
	Comment        string          `json:"comment"`
	AuditFields
}

// ComputeBalance applies the normal-side formula to the account's initial
// balance and cumulative debit and credit.
func (a Account) ComputeBalance() decimal.Decimal {
	if a.NormalSide == Right {
		return a.InitialBalance.Sub(a.Debit).Add(a.Credit)
	}
	return a.InitialBalance.Add(a.Debit).Sub(a.Credit)
}

// ApplyPosting moves the cumulative debit or credit by amount and recomputes
// the balance.
func (a *Account) ApplyPosting(side PostingSide, amount decimal.Decimal) error {
	switch side {
	case Debit:
		a.Debit = a.Debit.Add(amount)
	case Credit:
		a.Credit = a.Credit.Add(amount)
	default:
		return fmt.Errorf("unknown posting side %q", side)
	}
	a.Balance = a.ComputeBalance()
	return nil
}

// Snapshot captures the account's fields for the audit log.
func (a Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		AccountID:      a.AccountID,
		Name:           a.Name,
		Number:         a.Number,
		Description:    a.Description,
		IsActive:       a.IsActive,
		NormalSide:     a.NormalSide,
		Category:       a.Category,
		Subcategory:    a.Subcategory,
		InitialBalance: a.InitialBalance,
		Debit:          a.Debit,
		Credit:         a.Credit,
		Balance:        a.Balance,
		CreatedAt:      a.CreatedAt,
		OwnerID:        a.OwnerID,
		Order:          a.Order,
		Statement:      a.Statement,
		Comment:        a.Comment,
	}
}

// AccountSnapshot is the full point-in-time serialization of an account.
type AccountSnapshot struct {
	AccountID      string          `json:"account_id"`
	Name           string          `json:"account_name"`
	Number         string          `json:"account_number"`
	Description    string          `json:"account_description"`
	IsActive       bool            `json:"is_active"`
	NormalSide     NormalSide      `json:"normal_side"`
	Category       string          `json:"account_category"`
	Subcategory    string          `json:"account_subcategory"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Balance        decimal.Decimal `json:"balance"`
	CreatedAt      time.Time       `json:"date_time_account_added"`
	OwnerID        string          `json:"user_id"`
	Order          int             `json:"order"`
	Statement      string          `json:"statement"`
	Comment        string          `json:"comment"`
}

// AccountFilter selects accounts by case-insensitive substring. Every non-empty
// term is OR-combined; Query is matched against all five searchable fields.
// An empty filter matches every account.
type AccountFilter struct {
	Query       string
	Name        string
	Number      string
	Description string
	Category    string
	Subcategory string
}

// IsEmpty reports whether no search term is set.
func (f AccountFilter) IsEmpty() bool {
	return f.Query == "" && f.Name == "" && f.Number == "" &&
		f.Description == "" && f.Category == "" && f.Subcategory == ""
}

// AccountChanges carries the editable fields of an account. Nil fields are
// left untouched.
type AccountChanges struct {
	Number      *string
	Name        *string
	Description *string
	Category    *string
	Subcategory *string
	Order       *int
	Statement   *string
	Comment     *string
}

// Apply writes the non-nil changes onto the account and reports whether
// anything was set.
func (c AccountChanges) Apply(a *Account) bool {
	updated := false
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
			updated = true
		}
	}
	set(&a.Number, c.Number)
	set(&a.Name, c.Name)
	set(&a.Description, c.Description)
	set(&a.Category, c.Category)
	set(&a.Subcategory, c.Subcategory)
	set(&a.Statement, c.Statement)
	set(&a.Comment, c.Comment)
	if c.Order != nil {
		a.Order = *c.Order
		updated = true
	}
	return updated
}

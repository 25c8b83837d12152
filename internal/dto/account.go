package dto

import (
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Number         string            `json:"number" validate:"required,max=32"`
	Name           string            `json:"name" validate:"required,max=255"`
	Description    string            `json:"description" validate:"max=1000"`
	Category       string            `json:"category" validate:"required,max=100"`
	Subcategory    string            `json:"subcategory" validate:"max=100"`
	NormalSide     domain.NormalSide `json:"normalSide" validate:"required,oneof=Left Right"`
	InitialBalance decimal.Decimal   `json:"initialBalance" validate:"gte=0"`
	Order          int               `json:"order" validate:"gte=0"`
	Statement      string            `json:"statement" validate:"max=100"`
	Comment        string            `json:"comment" validate:"max=1000"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// Normal side and initial balance are fixed at creation.
type UpdateAccountRequest struct {
	Number      *string `json:"number" validate:"omitempty,min=1,max=32"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Category    *string `json:"category" validate:"omitempty,min=1,max=100"`
	Subcategory *string `json:"subcategory" validate:"omitempty,max=100"`
	Order       *int    `json:"order" validate:"omitempty,gte=0"`
	Statement   *string `json:"statement" validate:"omitempty,max=100"`
	Comment     *string `json:"comment" validate:"omitempty,max=1000"`
}

// ToAccountChanges converts the request into domain changes.
func (r UpdateAccountRequest) ToAccountChanges() domain.AccountChanges {
	return domain.AccountChanges{
		Number:      r.Number,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Order:       r.Order,
		Statement:   r.Statement,
		Comment:     r.Comment,
	}
}

// FindAccountsParams defines the search terms for listing accounts.
type FindAccountsParams struct {
	Query       string `json:"query"`
	Name        string `json:"name"`
	Number      string `json:"number"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// ToFilter converts the params into a domain filter.
func (p FindAccountsParams) ToFilter() domain.AccountFilter {
	return domain.AccountFilter{
		Query:       p.Query,
		Name:        p.Name,
		Number:      p.Number,
		Description: p.Description,
		Category:    p.Category,
		Subcategory: p.Subcategory,
	}
}

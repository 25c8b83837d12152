package mapping

import (
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/SscSPs/bookkeeping_core/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		Number:         d.Number,
		Name:           d.Name,
		Description:    d.Description,
		Category:       d.Category,
		Subcategory:    d.Subcategory,
		NormalSide:     models.NormalSide(d.NormalSide),
		InitialBalance: d.InitialBalance,
		Debit:          d.Debit,
		Credit:         d.Credit,
		Balance:        d.Balance,
		IsActive:       d.IsActive,
		OwnerID:        d.OwnerID,
		SortOrder:      d.Order,
		Statement:      d.Statement,
		Comment:        d.Comment,
		AuditFields:    models.AuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		Number:         m.Number,
		Name:           m.Name,
		Description:    m.Description,
		Category:       m.Category,
		Subcategory:    m.Subcategory,
		NormalSide:     domain.NormalSide(m.NormalSide),
		InitialBalance: m.InitialBalance,
		Debit:          m.Debit,
		Credit:         m.Credit,
		Balance:        m.Balance,
		IsActive:       m.IsActive,
		OwnerID:        m.OwnerID,
		Order:          m.SortOrder,
		Statement:      m.Statement,
		Comment:        m.Comment,
		AuditFields:    domain.AuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

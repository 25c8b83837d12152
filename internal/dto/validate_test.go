package dto

import (
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAccount() CreateAccountRequest {
	return CreateAccountRequest{
		Number:         "101",
		Name:           "Cash",
		Category:       "Assets",
		NormalSide:     domain.Left,
		InitialBalance: decimal.RequireFromString("1000.00"),
	}
}

func TestValidateCreateAccountRequest(t *testing.T) {
	assert.NoError(t, Validate(validAccount()))

	tests := []struct {
		name   string
		mutate func(*CreateAccountRequest)
		field  string
	}{
		{"missing number", func(r *CreateAccountRequest) { r.Number = "" }, "number"},
		{"unknown normal side", func(r *CreateAccountRequest) { r.NormalSide = "Up" }, "normalSide"},
		{"negative initial balance", func(r *CreateAccountRequest) { r.InitialBalance = decimal.RequireFromString("-0.01") }, "initialBalance"},
		{"negative order", func(r *CreateAccountRequest) { r.Order = -1 }, "order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validAccount()
			tt.mutate(&req)
			err := Validate(req)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateSubmitJournalEntryRequest(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	legs := []JournalLegRequest{
		{AccountID: "cash", Debit: decimal.RequireFromString("200"), Date: date},
		{AccountID: "ap", Credit: decimal.RequireFromString("200"), Date: date},
	}
	assert.NoError(t, Validate(SubmitJournalEntryRequest{Legs: legs}))

	err := Validate(SubmitJournalEntryRequest{Legs: legs[:1]})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	bad := []JournalLegRequest{legs[0], {AccountID: "ap", Credit: decimal.RequireFromString("-5"), Date: date}}
	err = Validate(SubmitJournalEntryRequest{Legs: bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	noDate := []JournalLegRequest{legs[0], {AccountID: "ap", Credit: decimal.RequireFromString("200")}}
	err = Validate(SubmitJournalEntryRequest{Legs: noDate})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateListJournalGroupsParams(t *testing.T) {
	assert.NoError(t, Validate(ListJournalGroupsParams{Status: "Pending", Limit: 10}))
	assert.ErrorIs(t, Validate(ListJournalGroupsParams{Status: "Draft"}), apperrors.ErrValidation)
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("", "")
	require.NoError(t, err)
	assert.Nil(t, r.From)
	assert.Nil(t, r.To)

	r, err = ParseDateRange("2024-01-01", "")
	require.NoError(t, err)
	require.NotNil(t, r.From)
	assert.Nil(t, r.To)

	_, err = ParseDateRange("2024-02-01", "2024-01-01")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = ParseDateRange("yesterday", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

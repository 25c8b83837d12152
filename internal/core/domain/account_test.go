package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func stringPtr(s string) *string { return &s }

func TestAccount_ComputeBalance(t *testing.T) {
	tests := []struct {
		name    string
		account domain.Account
		want    string
	}{
		{
			name:    "left side increases with debit",
			account: domain.Account{NormalSide: domain.Left, InitialBalance: dec("1000"), Debit: dec("200"), Credit: dec("50")},
			want:    "1150.00",
		},
		{
			name:    "right side increases with credit",
			account: domain.Account{NormalSide: domain.Right, InitialBalance: dec("0"), Debit: dec("20"), Credit: dec("200")},
			want:    "180.00",
		},
		{
			name:    "zero values",
			account: domain.Account{NormalSide: domain.Left},
			want:    "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.account.ComputeBalance().StringFixed(2))
		})
	}
}

func TestAccount_ApplyPosting(t *testing.T) {
	cash := domain.Account{NormalSide: domain.Left, InitialBalance: dec("1000.00"), Balance: dec("1000.00")}
	require.NoError(t, cash.ApplyPosting(domain.Debit, dec("200.00")))
	assert.Equal(t, "1200.00", cash.Balance.StringFixed(2))
	assert.Equal(t, "200.00", cash.Debit.StringFixed(2))

	ap := domain.Account{NormalSide: domain.Right}
	require.NoError(t, ap.ApplyPosting(domain.Credit, dec("200.00")))
	assert.Equal(t, "200.00", ap.Balance.StringFixed(2))

	assert.Error(t, ap.ApplyPosting(domain.PostingSide("SIDEWAYS"), dec("1")))
	assert.Equal(t, "200.00", ap.Balance.StringFixed(2))
}

func TestAccount_Snapshot(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	a := domain.Account{
		AccountID:  "acc-1",
		Number:     "101",
		Name:       "Cash",
		Category:   "Assets",
		NormalSide: domain.Left,
		Balance:    dec("10"),
		IsActive:   true,
		OwnerID:    "user-1",
		Order:      3,
	}
	a.CreatedAt = created

	snap := a.Snapshot()
	assert.Equal(t, "acc-1", snap.AccountID)
	assert.Equal(t, "Cash", snap.Name)
	assert.Equal(t, created, snap.CreatedAt)
	assert.Equal(t, "user-1", snap.OwnerID)

	// later mutation must not leak into the captured snapshot
	a.Name = "Petty Cash"
	assert.Equal(t, "Cash", snap.Name)
}

func TestNormalSide_Valid(t *testing.T) {
	assert.True(t, domain.Left.Valid())
	assert.True(t, domain.Right.Valid())
	assert.False(t, domain.NormalSide("Up").Valid())
}

func TestAccountChanges_Apply(t *testing.T) {
	a := domain.Account{Name: "Cash", Number: "101", Order: 1}

	assert.False(t, domain.AccountChanges{}.Apply(&a))

	order := 7
	changed := domain.AccountChanges{Name: stringPtr("Petty Cash"), Order: &order}.Apply(&a)
	assert.True(t, changed)
	assert.Equal(t, "Petty Cash", a.Name)
	assert.Equal(t, "101", a.Number)
	assert.Equal(t, 7, a.Order)
}

func TestAccountFilter_IsEmpty(t *testing.T) {
	assert.True(t, domain.AccountFilter{}.IsEmpty())
	assert.False(t, domain.AccountFilter{Category: "Assets"}.IsEmpty())
}

func TestAuditFields_Touch(t *testing.T) {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	f := domain.NewAuditFields("admin", created)
	assert.Equal(t, created, f.CreatedAt)
	assert.Equal(t, "admin", f.LastUpdatedBy)

	f.Touch("clerk", created.Add(time.Hour))
	assert.Equal(t, "admin", f.CreatedBy)
	assert.Equal(t, "clerk", f.LastUpdatedBy)
	assert.Equal(t, created.Add(time.Hour), f.LastUpdatedAt)
}

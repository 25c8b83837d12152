package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLegRequest is one leg of a submitted journal entry.
type JournalLegRequest struct {
	AccountID     string          `json:"accountID" validate:"required"`
	Debit         decimal.Decimal `json:"debit" validate:"gte=0"`
	Credit        decimal.Decimal `json:"credit" validate:"gte=0"`
	Date          time.Time       `json:"date" validate:"required"`
	Comment       string          `json:"comment" validate:"max=1000"`
	AttachmentRef string          `json:"attachmentRef" validate:"max=500"`
}

// SubmitJournalEntryRequest defines the legs of a new journal entry group.
type SubmitJournalEntryRequest struct {
	Legs []JournalLegRequest `json:"legs" validate:"required,min=2,dive"`
}

// ReviewJournalEntryRequest carries the reviewer's comment on approval or
// rejection.
type ReviewJournalEntryRequest struct {
	Comment string `json:"comment" validate:"max=1000"`
}

// ListJournalGroupsParams defines query parameters for listing groups.
type ListJournalGroupsParams struct {
	Status    string  `json:"status" validate:"omitempty,oneof=Pending Approved Rejected"`
	Limit     int     `json:"limit" validate:"gte=0,lte=500"`
	NextToken *string `json:"nextToken"`
}

// ListJournalGroupsResponse is one page of journal entry groups.
type ListJournalGroupsResponse struct {
	Groups    []domain.JournalEntryGroup `json:"groups"`
	NextToken *string                    `json:"nextToken,omitempty"`
}

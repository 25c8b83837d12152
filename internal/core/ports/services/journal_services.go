package services

import (
	"context"
	"iter"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/SscSPs/bookkeeping_core/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetGroup retrieves a journal entry group with its legs.
	GetGroup(ctx context.Context, groupID string) (*domain.JournalEntryGroup, error)

	// ListGroups retrieves a page of groups, optionally narrowed by status.
	ListGroups(ctx context.Context, params dto.ListJournalGroupsParams) (*dto.ListJournalGroupsResponse, error)
}

// JournalWriterSvc defines the approval workflow over journal entry groups
type JournalWriterSvc interface {
	// SubmitEntry validates and stores a balanced group of Pending legs.
	SubmitEntry(ctx context.Context, req dto.SubmitJournalEntryRequest, actor domain.Actor) (*domain.JournalEntryGroup, error)

	// ApproveEntry moves a Pending group to Approved and posts every leg to
	// its account in one atomic unit.
	ApproveEntry(ctx context.Context, groupID string, req dto.ReviewJournalEntryRequest, actor domain.Actor) (*domain.JournalEntryGroup, error)

	// RejectEntry moves a Pending group to Rejected without touching balances.
	RejectEntry(ctx context.Context, groupID string, req dto.ReviewJournalEntryRequest, actor domain.Actor) (*domain.JournalEntryGroup, error)
}

// LedgerReaderSvc defines the per-account ledger view
type LedgerReaderSvc interface {
	// LedgerFor yields an account's legs ordered by date then creation order,
	// each with the running balance after it.
	LedgerFor(ctx context.Context, accountID string, q domain.LedgerQuery) iter.Seq2[domain.LedgerLine, error]
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	LedgerReaderSvc
}

// EntrySubmittedPublisher receives EntrySubmitted events after the group has
// been committed. Its failures never affect the stored group.
type EntrySubmittedPublisher interface {
	PublishEntrySubmitted(ctx context.Context, evt domain.EntrySubmitted) error
}

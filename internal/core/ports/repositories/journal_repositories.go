package repositories

import (
	"context"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
)

// JournalReader defines read operations for journal entry groups
type JournalReader interface {
	// FindGroupByID retrieves a group with its legs.
	FindGroupByID(ctx context.Context, groupID string) (*domain.JournalEntryGroup, error)

	// ListGroups retrieves a page of groups with their legs, oldest first. A
	// nil status lists every group.
	// It returns the groups, a token for the next page, and an error.
	ListGroups(ctx context.Context, status *domain.LegStatus, limit int, nextToken *string) ([]domain.JournalEntryGroup, *string, error)
}

// JournalWriter defines write operations for journal entry groups
type JournalWriter interface {
	// SaveJournalGroup persists a group and its legs.
	SaveJournalGroup(ctx context.Context, group domain.JournalEntryGroup, legs []domain.JournalEntryLeg) error

	// UpdateGroupStatus moves every leg of the group to status and stores the
	// group's review fields.
	UpdateGroupStatus(ctx context.Context, group domain.JournalEntryGroup, status domain.LegStatus) error
}

// LegReader defines read operations for journal legs
type LegReader interface {
	// FindLegsByGroupID retrieves the legs of a group in creation order.
	FindLegsByGroupID(ctx context.Context, groupID string) ([]domain.JournalEntryLeg, error)

	// FindLegsByGroupIDForUpdate retrieves and locks the legs of a group
	// within the current transaction.
	FindLegsByGroupIDForUpdate(ctx context.Context, groupID string) ([]domain.JournalEntryLeg, error)

	// ListLegsByAccount retrieves a page of an account's legs matching q,
	// ordered by date then creation order.
	// It returns the legs, a token for the next page, and an error.
	ListLegsByAccount(ctx context.Context, accountID string, q domain.LedgerQuery, limit int, nextToken *string) ([]domain.JournalEntryLeg, *string, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LegReader
}

package services

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_core/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_core/internal/dto"
	"github.com/SscSPs/bookkeeping_core/internal/utils/accounting"
	"github.com/google/uuid"
)

const defaultGroupListLimit = 50

// journalService provides the journal ledger and its approval workflow.
type journalService struct {
	BaseService
	repos     portsrepo.RepositoryProvider
	poster    AccountPoster
	publisher portssvc.EntrySubmittedPublisher
}

// NewJournalService creates a new JournalService. publisher may be nil.
func NewJournalService(repos portsrepo.RepositoryProvider, poster AccountPoster, publisher portssvc.EntrySubmittedPublisher, options ...ServiceOption) portssvc.JournalSvcFacade {
	return &journalService{
		BaseService: newBaseService(options...),
		repos:       repos,
		poster:      poster,
		publisher:   publisher,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) SubmitEntry(ctx context.Context, req dto.SubmitJournalEntryRequest, actor domain.Actor) (*domain.JournalEntryGroup, error) {
	if err := s.RequireActor(actor, "submit journal entry"); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	now := s.now()
	group := domain.JournalEntryGroup{
		GroupID:   uuid.NewString(),
		CreatedAt: now,
		CreatedBy: actor.ID,
	}
	legs := make([]domain.JournalEntryLeg, 0, len(req.Legs))
	for _, l := range req.Legs {
		legs = append(legs, domain.JournalEntryLeg{
			LegID:         uuid.NewString(),
			GroupID:       group.GroupID,
			AccountID:     l.AccountID,
			Debit:         l.Debit,
			Credit:        l.Credit,
			Date:          domain.TruncateDate(l.Date),
			Comment:       l.Comment,
			AttachmentRef: l.AttachmentRef,
			Status:        domain.Pending,
			CreatedAt:     now,
		})
	}
	if err := accounting.ValidateJournalBalance(legs); err != nil {
		s.LogFailure(ctx, err, "submit journal entry")
		return nil, err
	}

	var stored *domain.JournalEntryGroup
	err := s.repos.TxManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		accountIDs := uniqueAccountIDs(legs)
		accounts, err := repos.Accounts.FindAccountsByIDs(ctx, accountIDs)
		if err != nil {
			return err
		}
		for _, id := range accountIDs {
			account, ok := accounts[id]
			if !ok {
				return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
			}
			if !account.IsActive {
				return fmt.Errorf("%w: account %s", apperrors.ErrInactiveAccount, account.Number)
			}
		}

		if err := repos.Journals.SaveJournalGroup(ctx, group, legs); err != nil {
			return fmt.Errorf("failed to save journal entry group: %w", err)
		}
		stored, err = repos.Journals.FindGroupByID(ctx, group.GroupID)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "submit journal entry")
		return nil, err
	}

	s.metrics.EntrySubmitted()
	s.LogInfo(ctx, "Journal entry submitted",
		slog.String("group_id", stored.GroupID),
		slog.Int("legs", len(stored.Legs)))
	s.publish(ctx, domain.EntrySubmitted{Group: *stored, Legs: stored.Legs, Actor: actor})
	return stored, nil
}

// publish hands the event to the publisher after commit. Delivery problems
// are logged and otherwise ignored.
func (s *journalService) publish(ctx context.Context, evt domain.EntrySubmitted) {
	if s.publisher == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.LogError(ctx, fmt.Errorf("%v", r), "EntrySubmitted publisher panicked",
				slog.String("group_id", evt.Group.GroupID))
		}
	}()
	if err := s.publisher.PublishEntrySubmitted(ctx, evt); err != nil {
		s.GetLogger(ctx).Warn("EntrySubmitted delivery failed",
			slog.String("group_id", evt.Group.GroupID),
			slog.String("error", err.Error()))
	}
}

func (s *journalService) ApproveEntry(ctx context.Context, groupID string, req dto.ReviewJournalEntryRequest, actor domain.Actor) (*domain.JournalEntryGroup, error) {
	if err := s.RequirePrivileged(actor, "approve journal entry"); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var (
		result   *domain.JournalEntryGroup
		postings int
	)
	err := s.repos.TxManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		legs, err := lockPendingLegs(ctx, repos, groupID, "approve")
		if err != nil {
			return err
		}

		// Lock every touched account up front, in ID order, so concurrent
		// approvals serialize per account.
		accountIDs := uniqueAccountIDs(legs)
		locked, err := repos.Accounts.FindAccountsByIDsForUpdate(ctx, accountIDs)
		if err != nil {
			return err
		}
		for _, id := range accountIDs {
			if _, ok := locked[id]; !ok {
				return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
			}
		}

		now := s.now()
		for _, leg := range legs {
			side, amount := leg.Posting()
			if _, err := s.poster.ApplyPosting(ctx, repos, leg.AccountID, side, amount, actor, now); err != nil {
				return err
			}
		}

		result, err = s.review(ctx, repos, groupID, domain.Approved, req.Comment, actor, now)
		postings = len(legs)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "approve journal entry", slog.String("group_id", groupID))
		return nil, err
	}

	s.metrics.EntryReviewed(string(domain.Approved))
	s.metrics.AccountsMutated(string(domain.ActionModified), postings)
	s.metrics.AuditAppended(postings)
	s.LogInfo(ctx, "Journal entry approved", slog.String("group_id", groupID))
	return result, nil
}

func (s *journalService) RejectEntry(ctx context.Context, groupID string, req dto.ReviewJournalEntryRequest, actor domain.Actor) (*domain.JournalEntryGroup, error) {
	if err := s.RequirePrivileged(actor, "reject journal entry"); err != nil {
		return nil, err
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var result *domain.JournalEntryGroup
	err := s.repos.TxManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		if _, err := lockPendingLegs(ctx, repos, groupID, "reject"); err != nil {
			return err
		}
		var err error
		result, err = s.review(ctx, repos, groupID, domain.Rejected, req.Comment, actor, s.now())
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "reject journal entry", slog.String("group_id", groupID))
		return nil, err
	}

	s.metrics.EntryReviewed(string(domain.Rejected))
	s.LogInfo(ctx, "Journal entry rejected", slog.String("group_id", groupID))
	return result, nil
}

// review moves every leg of the group to status and records the reviewer.
func (s *journalService) review(ctx context.Context, repos portsrepo.Repositories, groupID string, status domain.LegStatus, comment string, actor domain.Actor, at time.Time) (*domain.JournalEntryGroup, error) {
	group, err := repos.Journals.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.ReviewComment = comment
	group.ReviewedBy = actor.ID
	group.ReviewedAt = &at
	if err := repos.Journals.UpdateGroupStatus(ctx, *group, status); err != nil {
		return nil, fmt.Errorf("failed to update journal entry group status: %w", err)
	}
	return repos.Journals.FindGroupByID(ctx, groupID)
}

func (s *journalService) GetGroup(ctx context.Context, groupID string) (*domain.JournalEntryGroup, error) {
	group, err := s.repos.Journals.FindGroupByID(ctx, groupID)
	if err != nil {
		s.LogFailure(ctx, err, "get journal entry group", slog.String("group_id", groupID))
		return nil, err
	}
	return group, nil
}

func (s *journalService) ListGroups(ctx context.Context, params dto.ListJournalGroupsParams) (*dto.ListJournalGroupsResponse, error) {
	if err := dto.Validate(params); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit == 0 {
		limit = defaultGroupListLimit
	}
	var status *domain.LegStatus
	if params.Status != "" {
		st := domain.LegStatus(params.Status)
		status = &st
	}

	groups, nextToken, err := s.repos.Journals.ListGroups(ctx, status, limit, params.NextToken)
	if err != nil {
		s.LogFailure(ctx, err, "list journal entry groups")
		return nil, err
	}
	if groups == nil {
		groups = []domain.JournalEntryGroup{}
	}
	return &dto.ListJournalGroupsResponse{Groups: groups, NextToken: nextToken}, nil
}

// LedgerFor starts the running balance at the account's initial balance and
// adds debit minus credit for every leg, whatever the account's normal side.
// The account and its legs are read from one snapshot.
func (s *journalService) LedgerFor(ctx context.Context, accountID string, q domain.LedgerQuery) iter.Seq2[domain.LedgerLine, error] {
	return snapshotSeq(ctx, s.repos.TxManager, func(ctx context.Context, repos portsrepo.Repositories) ([]domain.LedgerLine, error) {
		account, err := repos.Accounts.FindAccountByID(ctx, accountID)
		if err != nil {
			return nil, err
		}
		legs, err := collectPages(s.pageSize, func(limit int, nextToken *string) ([]domain.JournalEntryLeg, *string, error) {
			return repos.Journals.ListLegsByAccount(ctx, accountID, q, limit, nextToken)
		})
		if err != nil {
			return nil, err
		}

		lines := make([]domain.LedgerLine, 0, len(legs))
		running := account.InitialBalance
		for _, leg := range legs {
			running = running.Add(accounting.LedgerDelta(leg))
			lines = append(lines, domain.LedgerLine{Leg: leg, RunningBalance: running})
		}
		return lines, nil
	})
}

// lockPendingLegs locks the group's legs and checks they can still be
// reviewed.
func lockPendingLegs(ctx context.Context, repos portsrepo.Repositories, groupID, action string) ([]domain.JournalEntryLeg, error) {
	legs, err := repos.Journals.FindLegsByGroupIDForUpdate(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(legs) == 0 {
		return nil, fmt.Errorf("%w: journal entry group %s", apperrors.ErrNotFound, groupID)
	}
	for _, leg := range legs {
		if leg.Status != domain.Pending {
			return nil, fmt.Errorf("%w: cannot %s group %s with %s legs",
				apperrors.ErrInvalidStateTransition, action, groupID, leg.Status)
		}
	}
	return legs, nil
}

func uniqueAccountIDs(legs []domain.JournalEntryLeg) []string {
	ids := make([]string, 0, len(legs))
	for _, l := range legs {
		ids = append(ids, l.AccountID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

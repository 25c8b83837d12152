package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LegStatus is the approval state of a journal entry leg.
type LegStatus string

const (
	Pending  LegStatus = "Pending"
	Approved LegStatus = "Approved"
	Rejected LegStatus = "Rejected"
)

// IsTerminal reports whether no further transition is allowed from the status.
func (s LegStatus) IsTerminal() bool {
	return s == Approved || s == Rejected
}

// Mixed is reported by AggregateStatus when a group's legs disagree.
const Mixed LegStatus = "Mixed"

// JournalEntryGroup is the set of legs that form one balanced transaction.
type JournalEntryGroup struct {
	GroupID       string            `json:"groupID"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedBy     string            `json:"createdBy"`
	ReviewComment string            `json:"reviewComment,omitempty"`
	ReviewedBy    string            `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time        `json:"reviewedAt,omitempty"`
	Legs          []JournalEntryLeg `json:"legs,omitempty"`
}

// Status aggregates the status of the loaded legs.
func (g JournalEntryGroup) Status() LegStatus {
	return AggregateStatus(g.Legs)
}

// JournalEntryLeg is one side of a journal entry against a single account.
type JournalEntryLeg struct {
	LegID         string          `json:"legID"`
	GroupID       string          `json:"groupID"`
	AccountID     string          `json:"accountID"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Date          time.Time       `json:"date"`
	Comment       string          `json:"comment,omitempty"`
	AttachmentRef string          `json:"attachmentRef,omitempty"`
	Status        LegStatus       `json:"status"`
	Seq           int64           `json:"seq"` // creation order, assigned by the store
	CreatedAt     time.Time       `json:"createdAt"`
}

// Posting returns the side and amount the leg moves on its account.
func (l JournalEntryLeg) Posting() (PostingSide, decimal.Decimal) {
	if !l.Debit.IsZero() {
		return Debit, l.Debit
	}
	return Credit, l.Credit
}

// AggregateStatus returns the shared status of legs, Mixed when they differ,
// or Pending for an empty set.
func AggregateStatus(legs []JournalEntryLeg) LegStatus {
	if len(legs) == 0 {
		return Pending
	}
	status := legs[0].Status
	for _, l := range legs[1:] {
		if l.Status != status {
			return Mixed
		}
	}
	return status
}

// SumLegs totals debits and credits across legs.
func SumLegs(legs []JournalEntryLeg) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range legs {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// DateRange is an inclusive, optionally open-ended range of calendar dates.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := TruncateDate(t)
	if r.From != nil && d.Before(TruncateDate(*r.From)) {
		return false
	}
	if r.To != nil && d.After(TruncateDate(*r.To)) {
		return false
	}
	return true
}

// TruncateDate drops the time-of-day part, keeping the date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LedgerQuery narrows the legs returned for an account ledger.
type LedgerQuery struct {
	Range    DateRange
	Statuses []LegStatus // empty means Approved only
}

// EffectiveStatuses resolves the default status filter.
func (q LedgerQuery) EffectiveStatuses() []LegStatus {
	if len(q.Statuses) == 0 {
		return []LegStatus{Approved}
	}
	return q.Statuses
}

// LedgerLine is a leg paired with the account's running balance after it.
type LedgerLine struct {
	Leg            JournalEntryLeg `json:"leg"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// EntrySubmitted is emitted after a journal entry group has been stored.
type EntrySubmitted struct {
	Group JournalEntryGroup
	Legs  []JournalEntryLeg
	Actor Actor
}

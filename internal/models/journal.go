package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// LegStatus is the stored approval state of a journal leg.
type LegStatus string

const (
	Pending  LegStatus = "Pending"
	Approved LegStatus = "Approved"
	Rejected LegStatus = "Rejected"
)

// JournalGroup is the stored header of a journal entry group.
type JournalGroup struct {
	GroupID       string       `db:"group_id"`
	CreatedAt     time.Time    `db:"created_at"`
	CreatedBy     string       `db:"created_by"`
	ReviewComment string       `db:"review_comment"`
	ReviewedBy    string       `db:"reviewed_by"`
	ReviewedAt    sql.NullTime `db:"reviewed_at"`
}

// JournalLeg is the stored row of one side of a journal entry.
type JournalLeg struct {
	LegID         string          `db:"leg_id"`
	GroupID       string          `db:"group_id"`
	AccountID     string          `db:"account_id"`
	Debit         decimal.Decimal `db:"debit"`
	Credit        decimal.Decimal `db:"credit"`
	EntryDate     time.Time       `db:"entry_date"`
	Comment       string          `db:"comment"`
	AttachmentRef string          `db:"attachment_ref"`
	Status        LegStatus       `db:"status"`
	Seq           int64           `db:"seq"`
	CreatedAt     time.Time       `db:"created_at"`
}

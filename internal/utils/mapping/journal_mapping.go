package mapping

import (
	"database/sql"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/SscSPs/bookkeeping_core/internal/models"
)

// ToModelJournalGroup converts a domain JournalEntryGroup to a model JournalGroup
func ToModelJournalGroup(d domain.JournalEntryGroup) models.JournalGroup {
	m := models.JournalGroup{
		GroupID:       d.GroupID,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		ReviewComment: d.ReviewComment,
		ReviewedBy:    d.ReviewedBy,
	}
	if d.ReviewedAt != nil {
		m.ReviewedAt = sql.NullTime{Time: *d.ReviewedAt, Valid: true}
	}
	return m
}

// ToDomainJournalGroup converts a model JournalGroup to a domain JournalEntryGroup
func ToDomainJournalGroup(m models.JournalGroup) domain.JournalEntryGroup {
	d := domain.JournalEntryGroup{
		GroupID:       m.GroupID,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		ReviewComment: m.ReviewComment,
		ReviewedBy:    m.ReviewedBy,
	}
	if m.ReviewedAt.Valid {
		t := m.ReviewedAt.Time
		d.ReviewedAt = &t
	}
	return d
}

// ToModelJournalLeg converts a domain JournalEntryLeg to a model JournalLeg
func ToModelJournalLeg(d domain.JournalEntryLeg) models.JournalLeg {
	return models.JournalLeg{
		LegID:         d.LegID,
		GroupID:       d.GroupID,
		AccountID:     d.AccountID,
		Debit:         d.Debit,
		Credit:        d.Credit,
		EntryDate:     domain.TruncateDate(d.Date),
		Comment:       d.Comment,
		AttachmentRef: d.AttachmentRef,
		Status:        models.LegStatus(d.Status),
		Seq:           d.Seq,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainJournalLeg converts a model JournalLeg to a domain JournalEntryLeg
func ToDomainJournalLeg(m models.JournalLeg) domain.JournalEntryLeg {
	return domain.JournalEntryLeg{
		LegID:         m.LegID,
		GroupID:       m.GroupID,
		AccountID:     m.AccountID,
		Debit:         m.Debit,
		Credit:        m.Credit,
		Date:          domain.TruncateDate(m.EntryDate),
		Comment:       m.Comment,
		AttachmentRef: m.AttachmentRef,
		Status:        domain.LegStatus(m.Status),
		Seq:           m.Seq,
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainJournalLegSlice converts a slice of model JournalLegs to a slice of domain JournalEntryLegs
func ToDomainJournalLegSlice(ms []models.JournalLeg) []domain.JournalEntryLeg {
	ds := make([]domain.JournalEntryLeg, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLeg(m)
	}
	return ds
}

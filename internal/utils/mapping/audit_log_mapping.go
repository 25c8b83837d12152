package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/SscSPs/bookkeeping_core/internal/models"
)

// ToModelAuditLogEntry converts a domain AuditLogEntry to a model AuditLogEntry,
// serializing the snapshots.
func ToModelAuditLogEntry(d domain.AuditLogEntry) (models.AuditLogEntry, error) {
	before, err := marshalSnapshot(d.Before)
	if err != nil {
		return models.AuditLogEntry{}, fmt.Errorf("failed to serialize before snapshot: %w", err)
	}
	after, err := marshalSnapshot(d.After)
	if err != nil {
		return models.AuditLogEntry{}, fmt.Errorf("failed to serialize after snapshot: %w", err)
	}
	return models.AuditLogEntry{
		EntryID:    d.EntryID,
		ActorID:    d.ActorID,
		Action:     string(d.Action),
		OccurredAt: d.Timestamp,
		Before:     before,
		After:      after,
		AccountID:  d.AccountID,
		Seq:        d.Seq,
	}, nil
}

// ToDomainAuditLogEntry converts a model AuditLogEntry to a domain AuditLogEntry.
func ToDomainAuditLogEntry(m models.AuditLogEntry) (domain.AuditLogEntry, error) {
	before, err := unmarshalSnapshot(m.Before)
	if err != nil {
		return domain.AuditLogEntry{}, fmt.Errorf("failed to decode before snapshot of entry %s: %w", m.EntryID, err)
	}
	after, err := unmarshalSnapshot(m.After)
	if err != nil {
		return domain.AuditLogEntry{}, fmt.Errorf("failed to decode after snapshot of entry %s: %w", m.EntryID, err)
	}
	return domain.AuditLogEntry{
		EntryID:   m.EntryID,
		ActorID:   m.ActorID,
		Action:    domain.AuditAction(m.Action),
		Timestamp: m.OccurredAt,
		Before:    before,
		After:     after,
		AccountID: m.AccountID,
		Seq:       m.Seq,
	}, nil
}

func marshalSnapshot(s *domain.AccountSnapshot) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func unmarshalSnapshot(b []byte) (*domain.AccountSnapshot, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var s domain.AccountSnapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

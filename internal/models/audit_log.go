package models

import "time"

// AuditLogEntry is the stored row of an account audit record. Snapshots are
// kept as serialized JSON.
type AuditLogEntry struct {
	EntryID    string    `db:"entry_id"`
	ActorID    string    `db:"actor_id"`
	Action     string    `db:"action"`
	OccurredAt time.Time `db:"occurred_at"`
	Before     []byte    `db:"before_snapshot"` // nil for creation
	After      []byte    `db:"after_snapshot"`
	AccountID  string    `db:"account_id"`
	Seq        int64     `db:"seq"`
}

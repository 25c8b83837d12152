package domain

import "time"

// AuditAction names the kind of account mutation recorded.
type AuditAction string

const (
	ActionAdded       AuditAction = "added"
	ActionModified    AuditAction = "modified"
	ActionActivated   AuditAction = "activated"
	ActionDeactivated AuditAction = "deactivated"
)

// AuditLogEntry is an immutable record of one account mutation.
type AuditLogEntry struct {
	EntryID   string           `json:"entryID"`
	ActorID   string           `json:"actorID"`
	Action    AuditAction      `json:"action"`
	Timestamp time.Time        `json:"timestamp"`
	Before    *AccountSnapshot `json:"before"` // nil for creation
	After     *AccountSnapshot `json:"after"`
	AccountID string           `json:"accountID"`
	Seq       int64            `json:"seq"` // append order, assigned by the store
}

// Actor is the identity on whose behalf an operation runs.
type Actor struct {
	ID         string `json:"id"`
	Privileged bool   `json:"privileged"`
}

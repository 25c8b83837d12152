package repositories

import (
	"context"
)

// TxFunc is the body of an atomic unit. It must only use the repositories it
// is handed, which are bound to the unit.
type TxFunc func(ctx context.Context, repos Repositories) error

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// WithTransaction runs fn in a read-write transaction. Any error returned
	// by fn rolls back every write made through repos.
	WithTransaction(ctx context.Context, fn TxFunc) error

	// WithSnapshot runs fn in a read-only transaction that sees a single
	// consistent snapshot of committed data.
	WithSnapshot(ctx context.Context, fn TxFunc) error
}

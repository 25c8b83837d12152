package pgsql

import (
	"context"
	"errors"

	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager opens atomic units on the pool. Writers run at READ COMMITTED
// and serialize through row locks; snapshots run at REPEATABLE READ so every
// statement in the unit sees the same committed state.
type TxManager struct {
	BaseRepository
}

// NewTxManager creates a transaction manager over pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionManager = (*TxManager)(nil)

func (m *TxManager) WithTransaction(ctx context.Context, fn portsrepo.TxFunc) error {
	return m.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (m *TxManager) WithSnapshot(ctx context.Context, fn portsrepo.TxFunc) error {
	return m.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (m *TxManager) run(ctx context.Context, opts pgx.TxOptions, fn portsrepo.TxFunc) error {
	tx, err := m.Begin(ctx, opts)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer m.Rollback(context.WithoutCancel(ctx), tx)

	if err := fn(ctx, newRepositories(tx)); err != nil {
		if rbErr := m.Rollback(context.WithoutCancel(ctx), tx); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return m.Commit(ctx, tx)
}

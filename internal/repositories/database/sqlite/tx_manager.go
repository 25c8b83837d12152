package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
)

// TxManager opens atomic units on a single-connection database. Because
// every unit holds the only connection, units are serialized and a unit
// always reads a consistent state.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a transaction manager over db.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

var _ portsrepo.TransactionManager = (*TxManager)(nil)

func (m *TxManager) WithTransaction(ctx context.Context, fn portsrepo.TxFunc) error {
	return m.run(ctx, fn)
}

func (m *TxManager) WithSnapshot(ctx context.Context, fn portsrepo.TxFunc) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn portsrepo.TxFunc) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, newRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, apperrors.NewAppError(500, "failed to rollback transaction", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

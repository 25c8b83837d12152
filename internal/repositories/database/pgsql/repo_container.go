package pgsql

import (
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func newRepositories(q querier) portsrepo.Repositories {
	return portsrepo.Repositories{
		Accounts:  newPgxAccountRepository(q),
		Journals:  newPgxJournalRepository(q),
		Audit:     newPgxAuditRepository(q),
		Reporting: newReportingRepository(q),
	}
}

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Repositories: newRepositories(dbPool),
		TxManager:    NewTxManager(dbPool),
	}
}

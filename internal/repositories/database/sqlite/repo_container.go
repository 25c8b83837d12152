package sqlite

import (
	"database/sql"

	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
)

func newRepositories(q querier) portsrepo.Repositories {
	return portsrepo.Repositories{
		Accounts:  newAccountRepository(q),
		Journals:  newJournalRepository(q),
		Audit:     newAuditRepository(q),
		Reporting: newReportingRepository(q),
	}
}

// NewRepositoryProvider wires the SQLite repositories. db must be limited to
// a single open connection.
func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Repositories: newRepositories(db),
		TxManager:    NewTxManager(db),
	}
}

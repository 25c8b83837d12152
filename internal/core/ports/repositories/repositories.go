package repositories

// Repositories bundles the repository interfaces bound to one connection or
// one transaction.
type Repositories struct {
	Accounts  AccountRepositoryFacade
	Journals  JournalRepositoryFacade
	Audit     AuditLogRepository
	Reporting ReportingRepository
}

// RepositoryProvider holds all repository interfaces needed by services.
// The embedded Repositories run outside any transaction; TxManager opens
// atomic units with transaction-bound copies.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	Repositories
	TxManager TransactionManager
}

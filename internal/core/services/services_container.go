package services

import (
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_core/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(reportCfg domain.ReportConfig, repos portsrepo.RepositoryProvider, publisher portssvc.EntrySubmittedPublisher, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The account service owns every balance mutation; the journal service
	// posts through it.
	container.Account = NewAccountService(repos, options...)
	poster := container.Account.(AccountPoster)

	container.Journal = NewJournalService(repos, poster, publisher, options...)
	container.Audit = NewAuditService(repos.Audit, options...)
	container.Reporting = NewReportingService(repos, reportCfg, options...)
	container.Ratio = NewRatioService(repos.TxManager, reportCfg, options...)

	return container
}

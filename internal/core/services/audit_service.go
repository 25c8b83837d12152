package services

import (
	"context"
	"iter"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_core/internal/core/ports/services"
)

type auditService struct {
	BaseService
	repo portsrepo.AuditLogRepository
}

// NewAuditService creates the read side of the audit log.
func NewAuditService(repo portsrepo.AuditLogRepository, options ...ServiceOption) portssvc.AuditLogSvc {
	return &auditService{BaseService: newBaseService(options...), repo: repo}
}

var _ portssvc.AuditLogSvc = (*auditService)(nil)

func (s *auditService) History(ctx context.Context, accountID string) iter.Seq2[domain.AuditLogEntry, error] {
	return paginate(s.pageSize, func(limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error) {
		return s.repo.ListAuditEntries(ctx, accountID, limit, nextToken)
	})
}

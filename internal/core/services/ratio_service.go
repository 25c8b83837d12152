package services

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_core/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_core/internal/utils/accounting"
)

type ratioService struct {
	BaseService
	tm  portsrepo.TransactionManager
	cfg domain.ReportConfig
}

// NewRatioService creates a service computing ratios from account balances.
func NewRatioService(tm portsrepo.TransactionManager, cfg domain.ReportConfig, options ...ServiceOption) portssvc.RatioService {
	return &ratioService{BaseService: newBaseService(options...), tm: tm, cfg: cfg}
}

var _ portssvc.RatioService = (*ratioService)(nil)

func (s *ratioService) Ratios(ctx context.Context) (*domain.RatioReport, error) {
	defer s.metrics.ObserveReport("ratios", time.Now())

	accounts, err := snapshotAccounts(ctx, s.tm)
	if err != nil {
		s.LogFailure(ctx, err, "ratios")
		return nil, err
	}
	report := accounting.ComputeRatios(accounting.ResolveRatioInputs(accounts, s.cfg))
	return &report, nil
}

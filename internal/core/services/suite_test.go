package services_test

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_core/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_core/internal/core/services"
	"github.com/SscSPs/bookkeeping_core/internal/dto"
	"github.com/SscSPs/bookkeeping_core/internal/events"
	"github.com/SscSPs/bookkeeping_core/internal/platform/metrics"
	"github.com/SscSPs/bookkeeping_core/internal/repositories/database/sqlite"
	"github.com/SscSPs/bookkeeping_core/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var entryDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

// tickingClock advances one second per reading so timestamps are distinct.
type tickingClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// ledgerSuite runs the services against an in-memory SQLite database.
type ledgerSuite struct {
	suite.Suite
	ctx     context.Context
	db      *sql.DB
	repos   portsrepo.RepositoryProvider
	svc     *portssvc.ServiceContainer
	bus     *events.Bus
	metrics *metrics.Metrics
	clock   *tickingClock

	admin domain.Actor
	clerk domain.Actor
}

func (s *ledgerSuite) SetupTest() {
	s.ctx = context.Background()
	db, err := database.OpenSQLite(s.ctx, database.MemoryPath)
	s.Require().NoError(err)
	s.Require().NoError(sqlite.Migrate(s.ctx, db))
	s.db = db

	s.repos = sqlite.NewRepositoryProvider(db)
	s.bus = events.NewBus()
	s.metrics, _ = metrics.NewRegistry()
	s.clock = &tickingClock{t: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
	s.svc = s.newContainer(s.repos)

	s.admin = domain.Actor{ID: "admin", Privileged: true}
	s.clerk = domain.Actor{ID: "clerk"}
}

func (s *ledgerSuite) TearDownTest() {
	s.db.Close()
}

func (s *ledgerSuite) newContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return services.NewServiceContainer(domain.DefaultReportConfig(), repos, s.bus,
		services.WithClock(s.clock.Now),
		services.WithMetrics(s.metrics),
		services.WithPageSize(2),
	)
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func dtoReview() dto.ReviewJournalEntryRequest { return dto.ReviewJournalEntryRequest{} }

func (s *ledgerSuite) createAccount(number, name, category string, side domain.NormalSide, initial string) *domain.Account {
	s.T().Helper()
	acc, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Number:         number,
		Name:           name,
		Category:       category,
		NormalSide:     side,
		InitialBalance: dec(initial),
	}, s.admin)
	s.Require().NoError(err)
	return acc
}

func debitLeg(accountID, amount string) dto.JournalLegRequest {
	return dto.JournalLegRequest{AccountID: accountID, Debit: dec(amount), Credit: decimal.Zero, Date: entryDate}
}

func creditLeg(accountID, amount string) dto.JournalLegRequest {
	return dto.JournalLegRequest{AccountID: accountID, Debit: decimal.Zero, Credit: dec(amount), Date: entryDate}
}

func (s *ledgerSuite) submit(legs ...dto.JournalLegRequest) *domain.JournalEntryGroup {
	s.T().Helper()
	g, err := s.svc.Journal.SubmitEntry(s.ctx, dto.SubmitJournalEntryRequest{Legs: legs}, s.clerk)
	s.Require().NoError(err)
	return g
}

func (s *ledgerSuite) account(id string) *domain.Account {
	s.T().Helper()
	acc, err := s.svc.Account.GetAccountByID(s.ctx, id)
	s.Require().NoError(err)
	return acc
}

func (s *ledgerSuite) history(accountID string) []domain.AuditLogEntry {
	s.T().Helper()
	var out []domain.AuditLogEntry
	for e, err := range s.svc.Audit.History(s.ctx, accountID) {
		s.Require().NoError(err)
		out = append(out, e)
	}
	return out
}

// MockAuditLogRepository is a mock type for the AuditLogRepository interface
type MockAuditLogRepository struct {
	mock.Mock
}

var _ portsrepo.AuditLogRepository = (*MockAuditLogRepository)(nil)

func (m *MockAuditLogRepository) AppendAuditEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogRepository) ListAuditEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		token := args.Get(1).(string)
		next = &token
	}
	return args.Get(0).([]domain.AuditLogEntry), next, args.Error(2)
}

// auditOverrideTxManager swaps the audit repository inside every read-write
// unit while keeping the unit's other repositories.
type auditOverrideTxManager struct {
	inner portsrepo.TransactionManager
	audit portsrepo.AuditLogRepository
}

func (m *auditOverrideTxManager) WithTransaction(ctx context.Context, fn portsrepo.TxFunc) error {
	return m.inner.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		repos.Audit = m.audit
		return fn(ctx, repos)
	})
}

func (m *auditOverrideTxManager) WithSnapshot(ctx context.Context, fn portsrepo.TxFunc) error {
	return m.inner.WithSnapshot(ctx, fn)
}

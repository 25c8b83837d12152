package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/SscSPs/bookkeeping_core/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "ledger.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("METRICS_ENABLED", "true")
}

// execute runs one CLI invocation and returns what it wrote to stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func executeJSON[T any](t *testing.T, args ...string) T {
	t.Helper()
	out, _, err := execute(t, args...)
	require.NoError(t, err, out)
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestMigrateReportsDriver(t *testing.T) {
	setupEnv(t)
	got := executeJSON[map[string]string](t, "migrate")
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, "sqlite", got["driver"])
}

func TestSubmitApproveAndReport(t *testing.T) {
	setupEnv(t)

	cash := executeJSON[domain.Account](t, "--privileged", "account", "create",
		"--number", "101", "--name", "Cash", "--category", "Assets", "--initial-balance", "1000.00")
	ap := executeJSON[domain.Account](t, "--privileged", "account", "create",
		"--number", "201", "--name", "Accounts Payable", "--category", "Liabilities", "--normal-side", "Right")
	require.NotEmpty(t, cash.AccountID)
	assert.True(t, ap.IsActive)

	group := executeJSON[domain.JournalEntryGroup](t, "journal", "submit",
		"--date", "2024-01-15", "--comment", "supplies",
		"--debit", cash.AccountID+"=200.00", "--credit", ap.AccountID+"=200.00")
	require.Len(t, group.Legs, 2)
	assert.Equal(t, domain.Pending, group.Status())

	approved := executeJSON[domain.JournalEntryGroup](t, "--privileged", "journal", "approve", group.GroupID, "--comment", "ok")
	assert.Equal(t, domain.Approved, approved.Status())

	cash = executeJSON[domain.Account](t, "account", "show", cash.AccountID)
	assert.True(t, cash.Balance.Equal(decimal.RequireFromString("1200")), cash.Balance.String())

	tb := executeJSON[domain.TrialBalance](t, "report", "trial-balance", "--from", "2024-01-01", "--to", "2024-12-31")
	assert.True(t, tb.Balanced)
	assert.True(t, tb.TotalDebit.Equal(decimal.RequireFromString("200")))
	assert.Len(t, tb.Rows, 2)

	lines := executeJSON[[]domain.LedgerLine](t, "journal", "ledger", ap.AccountID)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].RunningBalance.Equal(decimal.RequireFromString("-200")))

	entries := executeJSON[[]domain.AuditLogEntry](t, "audit", cash.AccountID)
	assert.Len(t, entries, 2)
}

func TestApproveRequiresPrivilege(t *testing.T) {
	setupEnv(t)

	cash := executeJSON[domain.Account](t, "--privileged", "account", "create",
		"--number", "101", "--name", "Cash", "--category", "Assets")
	ap := executeJSON[domain.Account](t, "--privileged", "account", "create",
		"--number", "201", "--name", "Accounts Payable", "--category", "Liabilities", "--normal-side", "Right")
	group := executeJSON[domain.JournalEntryGroup](t, "journal", "submit",
		"--debit", cash.AccountID+"=5", "--credit", ap.AccountID+"=5")

	_, _, err := execute(t, "journal", "approve", group.GroupID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSubmitFromStdin(t *testing.T) {
	setupEnv(t)

	cash := executeJSON[domain.Account](t, "--privileged", "account", "create",
		"--number", "101", "--name", "Cash", "--category", "Assets")
	ap := executeJSON[domain.Account](t, "--privileged", "account", "create",
		"--number", "201", "--name", "Accounts Payable", "--category", "Liabilities", "--normal-side", "Right")

	body := `{"legs":[` +
		`{"accountID":"` + cash.AccountID + `","debit":"75.50","credit":"0","date":"2024-03-01T00:00:00Z"},` +
		`{"accountID":"` + ap.AccountID + `","debit":"0","credit":"70.00","date":"2024-03-01T00:00:00Z"}]}`

	var stdout bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"journal", "submit", "--file", "-"})
	cmd.SetIn(strings.NewReader(body))
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrImbalancedEntry)

	page := executeJSON[dto.ListJournalGroupsResponse](t, "journal", "list")
	assert.Empty(t, page.Groups)
}

func TestAccountEditAndFind(t *testing.T) {
	setupEnv(t)

	cash := executeJSON[domain.Account](t, "--privileged", "account", "create",
		"--number", "101", "--name", "Cash", "--category", "Assets")
	executeJSON[domain.Account](t, "--privileged", "account", "create",
		"--number", "201", "--name", "Accounts Payable", "--category", "Liabilities", "--normal-side", "Right")

	edited := executeJSON[domain.Account](t, "account", "edit", cash.AccountID, "--name", "Petty Cash")
	assert.Equal(t, "Petty Cash", edited.Name)
	assert.Equal(t, "101", edited.Number)

	found := executeJSON[[]domain.Account](t, "account", "find", "--query", "petty")
	require.Len(t, found, 1)
	assert.Equal(t, cash.AccountID, found[0].AccountID)

	all := executeJSON[[]domain.Account](t, "account", "find", "--limit", "1")
	assert.Len(t, all, 1)

	_, _, err := execute(t, "account", "edit", cash.AccountID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDeactivateWithBalanceFails(t *testing.T) {
	setupEnv(t)

	cash := executeJSON[domain.Account](t, "--privileged", "account", "create",
		"--number", "101", "--name", "Cash", "--category", "Assets", "--initial-balance", "0.01")

	_, _, err := execute(t, "--privileged", "account", "deactivate", cash.AccountID)
	assert.ErrorIs(t, err, apperrors.ErrConstraintViolation)
}

func TestPrintMetricsWritesTextFormat(t *testing.T) {
	setupEnv(t)

	_, stderr, err := execute(t, "--privileged", "--print-metrics", "account", "create",
		"--number", "101", "--name", "Cash", "--category", "Assets")
	require.NoError(t, err)
	assert.Contains(t, stderr, "bookkeeping_")
}

func TestLegsFromFlagsRejectsMalformedLeg(t *testing.T) {
	_, err := legsFromFlags([]string{"cash"}, nil, "2024-01-15", "", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = legsFromFlags([]string{"cash=abc"}, nil, "2024-01-15", "", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = legsFromFlags(nil, nil, "15/01/2024", "", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	req, err := legsFromFlags([]string{"cash=10"}, []string{"ap=10"}, "2024-01-15", "memo", "")
	require.NoError(t, err)
	require.Len(t, req.Legs, 2)
	assert.True(t, req.Legs[1].Credit.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "memo", req.Legs[0].Comment)
}

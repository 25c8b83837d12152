package sqlite

import (
	"context"
	"strings"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type reportingRepository struct {
	q querier
}

func newReportingRepository(q querier) *reportingRepository {
	return &reportingRepository{q: q}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetAccountTotals sums in Go; amounts are stored as decimal text and SQLite
// arithmetic on them would go through floating point.
func (r *reportingRepository) GetAccountTotals(ctx context.Context, dr domain.DateRange, statuses []domain.LegStatus) ([]domain.AccountTotals, error) {
	if len(statuses) == 0 {
		statuses = []domain.LegStatus{domain.Approved}
	}
	where := []string{`l.status IN (` + placeholders(len(statuses)) + `)`}
	args := make([]any, 0, len(statuses)+2)
	for _, st := range statuses {
		args = append(args, string(st))
	}
	if dr.From != nil {
		where = append(where, `l.entry_date >= ?`)
		args = append(args, formatDate(*dr.From))
	}
	if dr.To != nil {
		where = append(where, `l.entry_date <= ?`)
		args = append(args, formatDate(*dr.To))
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT a.account_id, a.account_number, a.account_name, a.account_category,
			a.account_subcategory, a.normal_side, a.sort_order, l.debit, l.credit
		FROM journal_legs l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE `+strings.Join(where, ` AND `)+`
		ORDER BY a.sort_order, a.account_number, l.seq`, args...)
	if err != nil {
		return nil, queryFailed("query account totals", err)
	}
	defer rows.Close()

	totals := []domain.AccountTotals{}
	for rows.Next() {
		var (
			t             domain.AccountTotals
			debit, credit decimal.Decimal
		)
		if err := rows.Scan(&t.AccountID, &t.Number, &t.Name, &t.Category,
			&t.Subcategory, &t.NormalSide, &t.Order, &debit, &credit); err != nil {
			return nil, queryFailed("scan account totals", err)
		}
		// Rows arrive grouped by account.
		if n := len(totals); n > 0 && totals[n-1].AccountID == t.AccountID {
			totals[n-1].TotalDebit = totals[n-1].TotalDebit.Add(debit)
			totals[n-1].TotalCredit = totals[n-1].TotalCredit.Add(credit)
			continue
		}
		t.TotalDebit, t.TotalCredit = debit, credit
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("iterate account totals", err)
	}
	return totals, nil
}

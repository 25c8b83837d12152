package pgsql

import (
	"context"
	"strings"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	q querier
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(q querier) *reportingRepository {
	return &reportingRepository{q: q}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetAccountTotals sums leg amounts per account in the database; NUMERIC
// arithmetic is exact.
func (r *reportingRepository) GetAccountTotals(ctx context.Context, dr domain.DateRange, statuses []domain.LegStatus) ([]domain.AccountTotals, error) {
	if len(statuses) == 0 {
		statuses = []domain.LegStatus{domain.Approved}
	}
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}

	var a args
	where := []string{`l.status = ANY(` + a.add(names) + `)`}
	if dr.From != nil {
		where = append(where, `l.entry_date >= `+a.add(domain.TruncateDate(*dr.From)))
	}
	if dr.To != nil {
		where = append(where, `l.entry_date <= `+a.add(domain.TruncateDate(*dr.To)))
	}

	rows, err := r.q.Query(ctx, `
		SELECT
			a.account_id,
			a.account_number,
			a.account_name,
			a.account_category,
			a.account_subcategory,
			a.normal_side,
			a.sort_order,
			SUM(l.debit) AS total_debit,
			SUM(l.credit) AS total_credit
		FROM journal_legs l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE `+strings.Join(where, ` AND `)+`
		GROUP BY a.account_id, a.account_number, a.account_name, a.account_category,
			a.account_subcategory, a.normal_side, a.sort_order
		ORDER BY a.sort_order, a.account_number`, a...)
	if err != nil {
		return nil, queryFailed("query account totals", err)
	}
	defer rows.Close()

	totals := []domain.AccountTotals{}
	for rows.Next() {
		var t domain.AccountTotals
		if err := rows.Scan(&t.AccountID, &t.Number, &t.Name, &t.Category,
			&t.Subcategory, &t.NormalSide, &t.Order, &t.TotalDebit, &t.TotalCredit); err != nil {
			return nil, queryFailed("scan account totals", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("iterate account totals", err)
	}
	return totals, nil
}

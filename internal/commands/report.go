package commands

import (
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/SscSPs/bookkeeping_core/internal/dto"
	"github.com/spf13/cobra"
)

func newReportCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Financial statements over approved entries",
	}
	cmd.AddCommand(
		newRangeReportCommand(opts, "trial-balance", "Debit and credit totals per account",
			func(a *app, r domain.DateRange) (any, error) { return a.svc.Reporting.TrialBalance(a.ctx, r) }),
		newRangeReportCommand(opts, "income-statement", "Revenue, expenses and net income",
			func(a *app, r domain.DateRange) (any, error) { return a.svc.Reporting.IncomeStatement(a.ctx, r) }),
		newRangeReportCommand(opts, "balance-sheet", "Assets against liabilities and equity",
			func(a *app, r domain.DateRange) (any, error) { return a.svc.Reporting.BalanceSheet(a.ctx, r) }),
		&cobra.Command{
			Use:   "retained-earnings",
			Short: "Every account with its current balance in chart order",
			Args:  cobra.NoArgs,
			RunE: opts.run(func(a *app, _ []string) error {
				accounts, err := a.svc.Reporting.RetainedEarnings(a.ctx)
				if err != nil {
					return err
				}
				return a.print(accounts)
			}),
		},
	)
	return cmd
}

func newRangeReportCommand(opts *rootOptions, use, short string, build func(*app, domain.DateRange) (any, error)) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: opts.run(func(a *app, _ []string) error {
			r, err := dto.ParseDateRange(from, to)
			if err != nil {
				return err
			}
			report, err := build(a, r)
			if err != nil {
				return err
			}
			return a.print(report)
		}),
	}
	cmd.Flags().StringVar(&from, "from", "", "first entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last entry date (YYYY-MM-DD)")
	return cmd
}

func newRatiosCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ratios",
		Short: "Financial ratios with their ratings",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(a *app, _ []string) error {
			report, err := a.svc.Ratio.Ratios(a.ctx)
			if err != nil {
				return err
			}
			return a.print(report)
		}),
	}
}

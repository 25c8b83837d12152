package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/SscSPs/bookkeeping_core/internal/apperrors"
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/SscSPs/bookkeeping_core/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newJournalCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Submit, review and inspect journal entries",
	}
	cmd.AddCommand(
		newJournalSubmitCommand(opts),
		newJournalReviewCommand(opts, domain.Approved),
		newJournalReviewCommand(opts, domain.Rejected),
		newJournalListCommand(opts),
		newJournalShowCommand(opts),
		newJournalLedgerCommand(opts),
	)
	return cmd
}

func newJournalSubmitCommand(opts *rootOptions) *cobra.Command {
	var (
		file          string
		debits        []string
		credits       []string
		date, comment string
		attachmentRef string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a balanced journal entry for approval",
		Long: "Legs come either from a JSON request (--file, '-' for stdin) or from repeated\n" +
			"--debit and --credit flags of the form ACCOUNT_ID=AMOUNT sharing --date and --comment.",
		Args: cobra.NoArgs,
	}
	cmd.RunE = opts.run(func(a *app, _ []string) error {
		var (
			req dto.SubmitJournalEntryRequest
			err error
		)
		if file != "" {
			req, err = readSubmitRequest(file, cmd.InOrStdin())
		} else {
			req, err = legsFromFlags(debits, credits, date, comment, attachmentRef)
		}
		if err != nil {
			return err
		}

		group, err := a.svc.Journal.SubmitEntry(a.ctx, req, a.actor)
		if err != nil {
			return err
		}
		return a.print(group)
	})

	f := cmd.Flags()
	f.StringVar(&file, "file", "", "JSON request with a legs array ('-' reads stdin)")
	f.StringArrayVar(&debits, "debit", nil, "debit leg as ACCOUNT_ID=AMOUNT (repeatable)")
	f.StringArrayVar(&credits, "credit", nil, "credit leg as ACCOUNT_ID=AMOUNT (repeatable)")
	f.StringVar(&date, "date", time.Now().UTC().Format(dto.DateLayout), "entry date (YYYY-MM-DD)")
	f.StringVar(&comment, "comment", "", "comment for every leg")
	f.StringVar(&attachmentRef, "attachment", "", "attachment reference for every leg")
	cmd.MarkFlagsMutuallyExclusive("file", "debit")
	cmd.MarkFlagsMutuallyExclusive("file", "credit")

	return cmd
}

func readSubmitRequest(path string, stdin io.Reader) (dto.SubmitJournalEntryRequest, error) {
	var req dto.SubmitJournalEntryRequest

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, err
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("%w: decoding journal request: %v", apperrors.ErrValidation, err)
	}
	return req, nil
}

func legsFromFlags(debits, credits []string, date, comment, attachmentRef string) (dto.SubmitJournalEntryRequest, error) {
	var req dto.SubmitJournalEntryRequest

	entryDate, err := time.Parse(dto.DateLayout, date)
	if err != nil {
		return req, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, date)
	}

	add := func(arg string, debit bool) error {
		accountID, raw, ok := strings.Cut(arg, "=")
		if !ok || accountID == "" {
			return fmt.Errorf("%w: leg %q is not ACCOUNT_ID=AMOUNT", apperrors.ErrValidation, arg)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("%w: leg %q has an invalid amount", apperrors.ErrValidation, arg)
		}
		leg := dto.JournalLegRequest{
			AccountID:     accountID,
			Date:          entryDate,
			Comment:       comment,
			AttachmentRef: attachmentRef,
		}
		if debit {
			leg.Debit = amount
		} else {
			leg.Credit = amount
		}
		req.Legs = append(req.Legs, leg)
		return nil
	}

	for _, arg := range debits {
		if err := add(arg, true); err != nil {
			return req, err
		}
	}
	for _, arg := range credits {
		if err := add(arg, false); err != nil {
			return req, err
		}
	}
	return req, nil
}

func newJournalReviewCommand(opts *rootOptions, status domain.LegStatus) *cobra.Command {
	var comment string

	use, short := "approve", "Approve a pending entry and post it to its accounts (privileged)"
	if status == domain.Rejected {
		use, short = "reject", "Reject a pending entry (privileged)"
	}

	cmd := &cobra.Command{
		Use:   use + " <group-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(a *app, args []string) error {
			req := dto.ReviewJournalEntryRequest{Comment: comment}
			var (
				group *domain.JournalEntryGroup
				err   error
			)
			if status == domain.Approved {
				group, err = a.svc.Journal.ApproveEntry(a.ctx, args[0], req, a.actor)
			} else {
				group, err = a.svc.Journal.RejectEntry(a.ctx, args[0], req, a.actor)
			}
			if err != nil {
				return err
			}
			return a.print(group)
		}),
	}
	cmd.Flags().StringVar(&comment, "comment", "", "review comment")
	return cmd
}

func newJournalListCommand(opts *rootOptions) *cobra.Command {
	var (
		params    dto.ListJournalGroupsParams
		nextToken string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entry groups, newest first",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(a *app, _ []string) error {
			if nextToken != "" {
				params.NextToken = &nextToken
			}
			page, err := a.svc.Journal.ListGroups(a.ctx, params)
			if err != nil {
				return err
			}
			return a.print(page)
		}),
	}

	f := cmd.Flags()
	f.StringVar(&params.Status, "status", "", "only groups in this status (Pending, Approved, Rejected)")
	f.IntVar(&params.Limit, "limit", 0, "page size (0 for the default)")
	f.StringVar(&nextToken, "next-token", "", "token from the previous page")

	return cmd
}

func newJournalShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <group-id>",
		Short: "Show one journal entry group with its legs",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(a *app, args []string) error {
			group, err := a.svc.Journal.GetGroup(a.ctx, args[0])
			if err != nil {
				return err
			}
			return a.print(group)
		}),
	}
}

func newJournalLedgerCommand(opts *rootOptions) *cobra.Command {
	var (
		from, to string
		statuses []string
	)

	cmd := &cobra.Command{
		Use:   "ledger <account-id>",
		Short: "Show an account's legs with its running balance",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(a *app, args []string) error {
			r, err := dto.ParseDateRange(from, to)
			if err != nil {
				return err
			}
			q := domain.LedgerQuery{Range: r}
			for _, s := range statuses {
				q.Statuses = append(q.Statuses, domain.LegStatus(s))
			}

			lines := []domain.LedgerLine{}
			for line, err := range a.svc.Journal.LedgerFor(a.ctx, args[0], q) {
				if err != nil {
					return err
				}
				lines = append(lines, line)
			}
			return a.print(lines)
		}),
	}

	f := cmd.Flags()
	f.StringVar(&from, "from", "", "first entry date (YYYY-MM-DD)")
	f.StringVar(&to, "to", "", "last entry date (YYYY-MM-DD)")
	f.StringSliceVar(&statuses, "status", nil, "leg statuses to include (default Approved)")

	return cmd
}

package commands

import (
	"fmt"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/SscSPs/bookkeeping_core/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newAccountCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(
		newAccountCreateCommand(opts),
		newAccountEditCommand(opts),
		newAccountStateCommand(opts, "activate", "Reactivate an account"),
		newAccountStateCommand(opts, "deactivate", "Deactivate an account with a zero balance"),
		newAccountShowCommand(opts),
		newAccountFindCommand(opts),
	)
	return cmd
}

func newAccountCreateCommand(opts *rootOptions) *cobra.Command {
	var (
		req     dto.CreateAccountRequest
		side    string
		initial string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an account to the chart (privileged)",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(a *app, _ []string) error {
			amount, err := decimal.NewFromString(initial)
			if err != nil {
				return fmt.Errorf("invalid --initial-balance %q: %w", initial, err)
			}
			req.NormalSide = domain.NormalSide(side)
			req.InitialBalance = amount

			account, err := a.svc.Account.CreateAccount(a.ctx, req, a.actor)
			if err != nil {
				return err
			}
			return a.print(account)
		}),
	}

	f := cmd.Flags()
	f.StringVar(&req.Number, "number", "", "unique account number (required)")
	f.StringVar(&req.Name, "name", "", "account name (required)")
	f.StringVar(&req.Description, "description", "", "description")
	f.StringVar(&req.Category, "category", "", "category, e.g. Assets (required)")
	f.StringVar(&req.Subcategory, "subcategory", "", "subcategory")
	f.StringVar(&side, "normal-side", string(domain.Left), "normal side: Left or Right")
	f.StringVar(&initial, "initial-balance", "0", "opening balance")
	f.IntVar(&req.Order, "order", 0, "sort key within the chart")
	f.StringVar(&req.Statement, "statement", "", "statement the account reports on")
	f.StringVar(&req.Comment, "comment", "", "comment")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newAccountEditCommand(opts *rootOptions) *cobra.Command {
	var (
		number, name, description, category, subcategory, statement, comment string
		order                                                                int
	)

	cmd := &cobra.Command{
		Use:   "edit <account-id>",
		Short: "Change editable account fields",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = opts.run(func(a *app, args []string) error {
		// Only flags given on the command line are changed.
		var req dto.UpdateAccountRequest
		set := func(flag string, dst **string, v *string) {
			if cmd.Flags().Changed(flag) {
				*dst = v
			}
		}
		set("number", &req.Number, &number)
		set("name", &req.Name, &name)
		set("description", &req.Description, &description)
		set("category", &req.Category, &category)
		set("subcategory", &req.Subcategory, &subcategory)
		set("statement", &req.Statement, &statement)
		set("comment", &req.Comment, &comment)
		if cmd.Flags().Changed("order") {
			req.Order = &order
		}

		account, err := a.svc.Account.EditAccount(a.ctx, args[0], req, a.actor)
		if err != nil {
			return err
		}
		return a.print(account)
	})

	f := cmd.Flags()
	f.StringVar(&number, "number", "", "new account number")
	f.StringVar(&name, "name", "", "new name")
	f.StringVar(&description, "description", "", "new description")
	f.StringVar(&category, "category", "", "new category")
	f.StringVar(&subcategory, "subcategory", "", "new subcategory")
	f.IntVar(&order, "order", 0, "new sort key")
	f.StringVar(&statement, "statement", "", "new statement")
	f.StringVar(&comment, "comment", "", "new comment")

	return cmd
}

func newAccountStateCommand(opts *rootOptions, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <account-id>",
		Short: short + " (privileged)",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(a *app, args []string) error {
			var (
				account *domain.Account
				err     error
			)
			if use == "activate" {
				account, err = a.svc.Account.ActivateAccount(a.ctx, args[0], a.actor)
			} else {
				account, err = a.svc.Account.DeactivateAccount(a.ctx, args[0], a.actor)
			}
			if err != nil {
				return err
			}
			return a.print(account)
		}),
	}
}

func newAccountShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <account-id>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(a *app, args []string) error {
			account, err := a.svc.Account.GetAccountByID(a.ctx, args[0])
			if err != nil {
				return err
			}
			return a.print(account)
		}),
	}
}

func newAccountFindCommand(opts *rootOptions) *cobra.Command {
	var (
		params dto.FindAccountsParams
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "List accounts matching any of the given terms (case-insensitive substring)",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(a *app, _ []string) error {
			accounts := []domain.Account{}
			for account, err := range a.svc.Account.FindAccounts(a.ctx, params.ToFilter()) {
				if err != nil {
					return err
				}
				accounts = append(accounts, account)
				if limit > 0 && len(accounts) == limit {
					break
				}
			}
			return a.print(accounts)
		}),
	}

	f := cmd.Flags()
	f.StringVar(&params.Query, "query", "", "match against name, number, description, category and subcategory")
	f.StringVar(&params.Name, "name", "", "match name")
	f.StringVar(&params.Number, "number", "", "match number")
	f.StringVar(&params.Description, "description", "", "match description")
	f.StringVar(&params.Category, "category", "", "match category")
	f.StringVar(&params.Subcategory, "subcategory", "", "match subcategory")
	f.IntVar(&limit, "limit", 0, "stop after this many accounts (0 for all)")

	return cmd
}

package commands

import (
	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/spf13/cobra"
)

func newAuditCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit [account-id]",
		Short: "Show the account audit log, oldest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: opts.run(func(a *app, args []string) error {
			var accountID string
			if len(args) == 1 {
				accountID = args[0]
			}

			entries := []domain.AuditLogEntry{}
			for entry, err := range a.svc.Audit.History(a.ctx, accountID) {
				if err != nil {
					return err
				}
				entries = append(entries, entry)
			}
			return a.print(entries)
		}),
	}
}

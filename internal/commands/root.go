package commands

import (
	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	actor        string
	privileged   bool
	printMetrics bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Double-entry bookkeeping ledger",
		Long: "ledgerctl manages a chart of accounts, a journal with an approval workflow, " +
			"an append-only account audit log, and financial reports.\n\n" +
			"Storage and report classification are configured through the environment " +
			"(DATABASE_DRIVER, PGSQL_URL, SQLITE_PATH, ...) or a .env file.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.actor, "actor", "operator", "ID of the user the command acts for")
	flags.BoolVar(&opts.privileged, "privileged", false, "act with administrator or manager privileges")
	flags.BoolVar(&opts.printMetrics, "print-metrics", false, "write collected metrics to stderr after the command")

	rootCmd.AddCommand(
		newMigrateCommand(opts),
		newAccountCommand(opts),
		newJournalCommand(opts),
		newReportCommand(opts),
		newRatiosCommand(opts),
		newAuditCommand(opts),
	)

	return rootCmd
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(a *app, _ []string) error {
			// Bootstrapping the app already migrated the store.
			return a.print(map[string]string{"status": "ok", "driver": a.cfg.DatabaseDriver})
		}),
	}
}

// Package cli implements the snapfork command line interface. Commands are
// thin: they load configuration, wire the adapters and delegate to the
// workflow use case.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bnema/snapfork/internal/adapters/out/heroku"
	"github.com/bnema/snapfork/internal/adapters/out/mail"
	"github.com/bnema/snapfork/internal/adapters/out/pgbackups"
	"github.com/bnema/snapfork/internal/adapters/out/pgprobe"
	outport "github.com/bnema/snapfork/internal/boundaries/out"
	"github.com/bnema/snapfork/internal/config"
	"github.com/bnema/snapfork/internal/logging"
	"github.com/bnema/snapfork/internal/usecase/workflow"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// NewRootCmd creates the root command for snapfork.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "snapfork",
		Short: "snapfork - fork-and-capture database backups",
		Long: `snapfork automates periodic database backups against a managed cloud
provider: it forks the production database onto a scratch app, waits for the
fork to catch up, captures a logical backup of the fork and tears the fork
down again, alerting an operator by email when a run fails.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newAddonsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newRunCmd creates the run command, one complete workflow pass.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one fork-and-capture backup pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log := logging.Setup(cfg.LogLevel, cfg.LogFile).With().
				Str("run_id", uuid.NewString()).
				Logger()

			platform := heroku.NewClient(cfg.APIKey)
			transfers := pgbackups.NewClient(cfg.APIKey)
			probe := pgprobe.New()
			notifier := mail.NewNotifier(mail.Options{
				Host:       config.SMTPHost,
				Port:       config.SMTPPort,
				Username:   cfg.SMTPUsername,
				Password:   cfg.SMTPPassword,
				From:       config.AlertFrom,
				Recipients: cfg.Recipients,
			})
			sleeper := outport.RealSleeper{}

			readiness := workflow.NewReadinessWaiter(platform, probe, notifier, sleeper, log)
			waiter := workflow.NewTransferWaiter(transfers, sleeper, log)
			svc := workflow.NewService(platform, notifier, readiness, waiter, workflow.Options{
				App:         cfg.App,
				ForkFromApp: cfg.ForkFromApp,
				Plan:        cfg.Plan,
			}, log)

			return svc.Run(cmd.Context())
		},
	}
}

// newAddonsCmd creates the addons command, listing the managed database
// addons currently attached to the scratch app.
func newAddonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addons",
		Short: "List database addons on the scratch app",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			platform := heroku.NewClient(cfg.APIKey)
			addons, err := platform.ListAddons(cmd.Context(), cfg.App)
			if err != nil {
				return fmt.Errorf("failed to list addons: %w", err)
			}

			matching := addons[:0]
			for _, a := range addons {
				if a.IsPostgres() {
					matching = append(matching, a)
				}
			}
			if len(matching) == 0 {
				fmt.Println("No database addons found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			if _, err := fmt.Fprintln(w, "NAME\tSERVICE\tID"); err != nil {
				return err
			}
			for _, a := range matching {
				if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", a.Name, a.ServiceName, a.ID); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("snapfork %s\n", Version)
			cmd.Printf("Commit: %s\n", Commit)
			cmd.Printf("Build Date: %s\n", BuildDate)
		},
	}
}
